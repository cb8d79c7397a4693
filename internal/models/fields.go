package models

// Canonical field names shared by the lookups, the forms and the records
const (
	FieldCNPJ         = "cnpj"
	FieldNomeFantasia = "nome_fantasia"
	FieldRazaoSocial  = "razao_social"
	FieldCEP          = "cep"
	FieldLogradouro   = "logradouro"
	FieldBairro       = "bairro"
	FieldCidade       = "cidade"
	FieldEstado       = "estado"
)

// CanonicalFields lists every canonical field in form order
var CanonicalFields = []string{
	FieldCNPJ,
	FieldNomeFantasia,
	FieldRazaoSocial,
	FieldCEP,
	FieldLogradouro,
	FieldBairro,
	FieldCidade,
	FieldEstado,
}

