package autofill

import (
	"errors"
	"fmt"

	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/nexconsult/autofill-api/internal/utils"
)

// label is how a code kind is named in user-facing messages
func label(kind utils.Kind) string {
	if kind == utils.KindCNPJ {
		return "CNPJ"
	}
	return "CEP"
}

func incompleteMessage(kind utils.Kind) string {
	return fmt.Sprintf("%s incompleto (%d dígitos).", label(kind), kind.Length())
}

func searchingMessage(kind utils.Kind, digits string) string {
	if kind == utils.KindCNPJ {
		return fmt.Sprintf("Buscando dados do CNPJ %s...", digits)
	}
	return fmt.Sprintf("Buscando endereço para CEP %s...", digits)
}

func successMessage(kind utils.Kind, warnings []string) string {
	msg := "Endereço preenchido automaticamente a partir do CEP."
	if kind == utils.KindCNPJ {
		msg = "Dados do CNPJ preenchidos automaticamente."
	}
	for _, w := range warnings {
		msg += " " + w
	}
	return msg
}

// failureMessage renders a failed lookup. Every failure outcome has one.
func failureMessage(kind utils.Kind, result services.LookupResult) string {
	switch result.Outcome {
	case services.OutcomeInvalidLength:
		return incompleteMessage(kind)
	case services.OutcomeNotFound:
		if result.Status == 404 {
			return fmt.Sprintf("%s não encontrado (404). Verifique o número.", label(kind))
		}
		return fmt.Sprintf("%s não encontrado. Verifique o número.", label(kind))
	}

	var te *services.TransportError
	if errors.As(result.Err, &te) && (te.Status < 200 || te.Status > 299) && te.Status != 0 {
		return fmt.Sprintf("Erro na consulta do %s (status %d).", label(kind), te.Status)
	}
	return fmt.Sprintf("Falha na rede ao consultar o %s. Tente novamente.", label(kind))
}
