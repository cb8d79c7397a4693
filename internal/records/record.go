// Package records keeps the customer records submitted through autofill
// forms. A Repository owns the id sequence; where records live is decided
// by the Storage it is given.
package records

import (
	"errors"
	"time"

	"github.com/nexconsult/autofill-api/internal/utils"
)

// ErrInvalidRecord is returned when a record lacks a usable CNPJ
var ErrInvalidRecord = errors.New("invalid record")

// Record is a submitted customer registration
type Record struct {
	ID           int64     `json:"id" db:"id"`
	CNPJ         string    `json:"cnpj" db:"cnpj"`
	RazaoSocial  string    `json:"razao_social" db:"razao_social"`
	NomeFantasia string    `json:"nome_fantasia" db:"nome_fantasia"`
	CEP          string    `json:"cep" db:"cep"`
	Logradouro   string    `json:"logradouro" db:"logradouro"`
	Bairro       string    `json:"bairro" db:"bairro"`
	Cidade       string    `json:"cidade" db:"cidade"`
	Estado       string    `json:"estado" db:"estado"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// normalize stores codes masked, the way the form displays them
func (r Record) normalize() Record {
	r.CNPJ = utils.MaskCNPJ(r.CNPJ)
	if r.CEP != "" {
		r.CEP = utils.MaskCEP(r.CEP)
	}
	return r
}

func (r Record) validate() error {
	if len(utils.CleanCNPJ(r.CNPJ)) != utils.CNPJLength {
		return ErrInvalidRecord
	}
	return nil
}
