package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// LookupHandler handles the CEP and CNPJ lookup endpoints
type LookupHandler struct {
	cep    services.LookupFunc
	cnpj   services.LookupFunc
	config config.LookupConfig
	logger *logrus.Logger
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(cep, cnpj services.LookupFunc, cfg config.LookupConfig, logger *logrus.Logger) *LookupHandler {
	return &LookupHandler{
		cep:    cep,
		cnpj:   cnpj,
		config: cfg,
		logger: logger,
	}
}

// outcomeStatus maps a failed lookup to an HTTP status and error code
func outcomeStatus(kind utils.Kind, outcome services.Outcome) (int, string) {
	switch outcome {
	case services.OutcomeInvalidLength:
		if kind == utils.KindCNPJ {
			return http.StatusBadRequest, models.ErrorCodeInvalidCNPJ
		}
		return http.StatusBadRequest, models.ErrorCodeInvalidCEP
	case services.OutcomeNotFound:
		if kind == utils.KindCNPJ {
			return http.StatusNotFound, models.ErrorCodeCNPJNotFound
		}
		return http.StatusNotFound, models.ErrorCodeCEPNotFound
	default:
		return http.StatusBadGateway, models.ErrorCodeLookupFailed
	}
}

func lookupData(kind utils.Kind, result services.LookupResult, elapsed time.Duration) *models.LookupData {
	data := &models.LookupData{
		Code:          result.Code,
		Formatted:     utils.Mask(kind, result.Code),
		Outcome:       string(result.Outcome),
		Fields:        result.Fields,
		Warnings:      result.Warnings,
		Cache:         result.Cached,
		TempoConsulta: elapsed.Milliseconds(),
	}
	if kind == utils.KindCNPJ {
		info := utils.AnalyzeCNPJ(result.Code)
		data.Document = &models.DocumentInfo{Valid: info.Valid, Type: info.Type}
	}
	return data
}

func (h *LookupHandler) handle(c *gin.Context, kind utils.Kind, param string, lookup services.LookupFunc) {
	start := time.Now()
	requestID := c.GetString("request_id")
	code := utils.OnlyDigits(c.Param(param))

	logger := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		kind.String(): code,
	})

	if len(code) != kind.Length() {
		logger.Warn("Invalid code length")
		status, errCode := outcomeStatus(kind, services.OutcomeInvalidLength)
		respondError(c, status, errCode,
			fmt.Sprintf("%s deve conter exatamente %d dígitos", param, kind.Length()), nil, start)
		return
	}

	result := lookup(c.Request.Context(), code)
	elapsed := time.Since(start)

	if !result.OK() {
		logger.WithFields(logrus.Fields{
			"outcome":  result.Outcome,
			"error":    result.Error(),
			"duration": elapsed,
		}).Warn("Lookup failed")

		status, errCode := outcomeStatus(kind, result.Outcome)
		respondError(c, status, errCode, result.Error(), gin.H{"outcome": result.Outcome, "status": result.Status}, start)
		return
	}

	logger.WithFields(logrus.Fields{
		"duration": elapsed,
		"cache":    result.Cached,
		"fields":   len(result.Fields),
	}).Info("Lookup completed successfully")

	if result.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.config.CacheTTL.Seconds())))

	message := "Consulta realizada com sucesso"
	if len(result.Warnings) > 0 {
		response := models.NewWarningResponse(message, lookupData(kind, result, elapsed))
		response.SetRequestID(requestID)
		response.SetExecutionTime(elapsed)
		c.JSON(http.StatusOK, response)
		return
	}
	respondSuccess(c, http.StatusOK, message, lookupData(kind, result, elapsed), start)
}

// GetCEP handles a single postal code lookup
// @Summary Consulta CEP
// @Description Resolve um CEP em logradouro, bairro, cidade e estado
// @Tags Lookup
// @Produce json
// @Param cep path string true "CEP (8 dígitos, com ou sem máscara)" example(01001000)
// @Success 200 {object} models.StandardResponse{data=models.LookupData}
// @Failure 400 {object} models.StandardResponse
// @Failure 404 {object} models.StandardResponse
// @Failure 502 {object} models.StandardResponse
// @Router /cep/{cep} [get]
func (h *LookupHandler) GetCEP(c *gin.Context) {
	h.handle(c, utils.KindCEP, "cep", h.cep)
}

// GetCNPJ handles a single CNPJ lookup, chaining the CEP lookup when the
// registration has a postal code
// @Summary Consulta CNPJ
// @Description Resolve um CNPJ em razão social, nome fantasia e endereço
// @Tags Lookup
// @Produce json
// @Param cnpj path string true "CNPJ (14 dígitos, com ou sem máscara)" example(11222333000181)
// @Success 200 {object} models.StandardResponse{data=models.LookupData}
// @Failure 400 {object} models.StandardResponse
// @Failure 404 {object} models.StandardResponse
// @Failure 502 {object} models.StandardResponse
// @Router /cnpj/{cnpj} [get]
func (h *LookupHandler) GetCNPJ(c *gin.Context) {
	h.handle(c, utils.KindCNPJ, "cnpj", h.cnpj)
}

// GetBatchCNPJ handles batch CNPJ consultation
// @Summary Consulta CNPJs em lote
// @Description Consulta vários CNPJs com concorrência limitada
// @Tags Lookup
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Lista de CNPJs"
// @Success 200 {object} models.StandardResponse{data=models.BatchResponse}
// @Failure 400 {object} models.StandardResponse
// @Router /cnpj/batch [post]
func (h *LookupHandler) GetBatchCNPJ(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.BatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid batch request format")

		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest, err.Error(), nil, start)
		return
	}

	if h.config.BatchMaxEntries > 0 && len(request.CNPJs) > h.config.BatchMaxEntries {
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest,
			fmt.Sprintf("no máximo %d CNPJs por lote", h.config.BatchMaxEntries), nil, start)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"total_cnpjs": len(request.CNPJs),
		"limit":       h.config.BatchLimit,
	}).Info("Processing batch CNPJ consultation")

	items := services.LookupBatch(c.Request.Context(), request.CNPJs, h.config.BatchLimit, h.cnpj)

	response := models.BatchResponse{
		Results:   make([]models.BatchResult, 0, len(items)),
		Total:     len(items),
		Timestamp: time.Now(),
	}
	for _, item := range items {
		entry := models.BatchResult{
			CNPJ:       item.Code,
			Success:    item.Result.OK(),
			DurationMs: item.Duration.Milliseconds(),
		}
		if entry.Success {
			entry.Data = lookupData(utils.KindCNPJ, item.Result, item.Duration)
			response.Success++
		} else {
			entry.Error = item.Result.Error()
			response.Errors++
		}
		response.Results = append(response.Results, entry)
	}
	response.DurationMs = time.Since(start).Milliseconds()

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"total":      response.Total,
		"success":    response.Success,
		"errors":     response.Errors,
		"duration":   time.Since(start),
	}).Info("Batch CNPJ consultation completed")

	respondSuccess(c, http.StatusOK, "Lote processado", response, start)
}
