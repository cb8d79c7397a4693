package models

// AutofillRequest carries an HTML page and the user events to replay on it
type AutofillRequest struct {
	HTML   string          `json:"html" binding:"required"`
	Events []AutofillEvent `json:"events" binding:"dive"`
}

// AutofillEvent is one user interaction. Type is "input" (typing, value is
// the raw text and cursor its caret), "set" (plain value change without
// masking) or "blur" (leaving the field, which may trigger a lookup).
type AutofillEvent struct {
	Type   string `json:"type" binding:"required,oneof=input set blur" example:"blur"`
	Form   int    `json:"form" example:"0"`
	Field  string `json:"field" binding:"required" example:"cep"`
	Value  string `json:"value,omitempty" example:"01001000"`
	Cursor int    `json:"cursor,omitempty" example:"8"`
}

// AutofillResponse returns the updated page and the state of every form
type AutofillResponse struct {
	PageID  string        `json:"page_id"`
	HTML    string        `json:"html"`
	Forms   []FormState   `json:"forms"`
	Results []EventResult `json:"results"`
}

// FormState summarizes one form after the events ran
type FormState struct {
	Index    int               `json:"index"`
	Name     string            `json:"name"`
	State    string            `json:"state" example:"idle"`
	Busy     bool              `json:"busy"`
	Feedback *FeedbackInfo     `json:"feedback,omitempty"`
	Values   map[string]string `json:"values"`
}

// FeedbackInfo is the message shown in a form status region
type FeedbackInfo struct {
	Severity string `json:"severity" example:"success"`
	Message  string `json:"message" example:"Endereço preenchido automaticamente a partir do CEP."`
}

// EventResult reports what an event did
type EventResult struct {
	Type    string `json:"type"`
	Form    int    `json:"form"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Cursor  int    `json:"cursor,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RecordRequest is a customer record submitted by a form
type RecordRequest struct {
	CNPJ         string `json:"cnpj" binding:"required" example:"11.222.333/0001-81"`
	RazaoSocial  string `json:"razao_social" example:"EMPRESA EXEMPLO LTDA"`
	NomeFantasia string `json:"nome_fantasia" example:"Empresa Exemplo"`
	CEP          string `json:"cep" example:"01001-000"`
	Logradouro   string `json:"logradouro" example:"Praça da Sé"`
	Bairro       string `json:"bairro" example:"Sé"`
	Cidade       string `json:"cidade" example:"São Paulo"`
	Estado       string `json:"estado" example:"SP"`
}

// AutofillURLRequest loads a remote page before replaying the events
type AutofillURLRequest struct {
	URL    string          `json:"url" binding:"required,url" example:"https://example.com/cadastro"`
	Events []AutofillEvent `json:"events" binding:"dive"`
}
