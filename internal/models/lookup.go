package models

import (
	"time"
)

// LookupData is the payload of the CEP and CNPJ lookup endpoints
type LookupData struct {
	Code          string            `json:"code" example:"01001000"`
	Formatted     string            `json:"formatted" example:"01001-000"`
	Outcome       string            `json:"outcome" example:"success"`
	Fields        map[string]string `json:"fields"`
	Warnings      []string          `json:"warnings,omitempty"`
	Document      *DocumentInfo     `json:"documento,omitempty"`
	Cache         bool              `json:"cache" example:"false"`
	TempoConsulta int64             `json:"tempo_consulta_ms" example:"250"`
}

// DocumentInfo carries informational checks on a CNPJ. It never gates a lookup.
type DocumentInfo struct {
	Valid bool   `json:"valido" example:"true"`
	Type  string `json:"tipo" example:"MATRIZ"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo represents individual service health
type ServiceInfo struct {
	Status    string    `json:"status" example:"healthy"`
	LastCheck time.Time `json:"last_check" example:"2024-01-15T10:30:00Z"`
	Error     string    `json:"error,omitempty"`
}

// BatchRequest represents a batch CNPJ consultation request
type BatchRequest struct {
	CNPJs []string `json:"cnpjs" binding:"required,min=1" example:"11222333000181,11333444000172"`
}

// BatchResponse represents a batch CNPJ consultation response
type BatchResponse struct {
	Results    []BatchResult `json:"results"`
	Total      int           `json:"total" example:"2"`
	Success    int           `json:"success" example:"2"`
	Errors     int           `json:"errors" example:"0"`
	DurationMs int64         `json:"duration_ms" example:"5200"`
	Timestamp  time.Time     `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// BatchResult represents individual result in batch response
type BatchResult struct {
	CNPJ       string      `json:"cnpj" example:"11222333000181"`
	Success    bool        `json:"success" example:"true"`
	Data       *LookupData `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMs int64       `json:"duration_ms" example:"2500"`
}
