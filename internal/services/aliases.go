package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nexconsult/autofill-api/internal/models"
)

// fieldAliases lists, in priority order, the payload paths a canonical
// field may be read from. Dotted paths descend into nested objects.
type fieldAliases struct {
	Field string
	Paths []string
}

var cepAliases = []fieldAliases{
	{models.FieldLogradouro, []string{"street", "logradouro", "address"}},
	{models.FieldBairro, []string{"neighborhood", "bairro"}},
	{models.FieldCidade, []string{"city", "localidade", "city_ibge"}},
	{models.FieldEstado, []string{"state", "uf", "estado"}},
}

var cnpjNameAliases = []fieldAliases{
	{models.FieldRazaoSocial, []string{"razao_social", "estabelecimento.razao_social"}},
	{models.FieldNomeFantasia, []string{"nome_fantasia", "fantasia", "estabelecimento.nome_fantasia"}},
}

var cnpjCEPPaths = []string{"cep", "estabelecimento.cep", "estabelecimento.address.cep"}

var cnpjAddressAliases = []fieldAliases{
	{models.FieldLogradouro, []string{"logradouro", "estabelecimento.logradouro", "estabelecimento.address.street", "street"}},
	{models.FieldBairro, []string{"bairro", "estabelecimento.bairro", "estabelecimento.address.neighborhood"}},
	{models.FieldCidade, []string{"municipio", "estabelecimento.cidade", "estabelecimento.address.city", "city"}},
	{models.FieldEstado, []string{"uf", "estabelecimento.uf", "estabelecimento.address.state", "state"}},
}

// extractFields applies an alias table to a payload. The first non-empty
// value wins; fields without a match are left out.
func extractFields(payload map[string]any, table []fieldAliases) map[string]string {
	fields := make(map[string]string, len(table))
	for _, entry := range table {
		if v, ok := firstValue(payload, entry.Paths); ok {
			fields[entry.Field] = v
		}
	}
	return fields
}

func firstValue(payload map[string]any, paths []string) (string, bool) {
	for _, path := range paths {
		if v, ok := stringValue(lookupPath(payload, path)); ok {
			return v, true
		}
	}
	return "", false
}

// lookupPath walks a dotted path through nested objects
func lookupPath(payload map[string]any, path string) any {
	var current any = payload
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = obj[key]; !ok {
			return nil
		}
	}
	return current
}

// stringValue accepts strings and numbers. Blank strings count as missing.
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

// postalCode reads the CNPJ payload postal code as digits. Numeric values
// lose their leading zeros in JSON, so they are padded back to 8 digits.
func postalCode(payload map[string]any) (string, bool) {
	for _, path := range cnpjCEPPaths {
		raw := lookupPath(payload, path)
		s, ok := stringValue(raw)
		if !ok {
			continue
		}
		if _, numeric := raw.(json.Number); numeric && len(s) < 8 {
			s = strings.Repeat("0", 8-len(s)) + s
		}
		return s, true
	}
	return "", false
}

// notFoundMarker reports the ViaCEP style {"erro": true} body
func notFoundMarker(payload map[string]any) bool {
	switch v := payload["erro"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}
