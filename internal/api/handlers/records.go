package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/records"
	"github.com/sirupsen/logrus"
)

// RecordsHandler stores and lists submitted customer records
type RecordsHandler struct {
	repo   *records.Repository
	logger *logrus.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(repo *records.Repository, logger *logrus.Logger) *RecordsHandler {
	return &RecordsHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListRecords returns every stored record
// @Summary Lista cadastros
// @Tags Records
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Failure 500 {object} models.StandardResponse
// @Router /records [get]
func (h *RecordsHandler) ListRecords(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	list, err := h.repo.Load(ctx)
	if err != nil {
		h.logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Failed to load records")
		respondError(c, http.StatusInternalServerError, models.ErrorCodeStorageError, err.Error(), nil, start)
		return
	}
	next, err := h.repo.NextID(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, models.ErrorCodeStorageError, err.Error(), nil, start)
		return
	}
	if list == nil {
		list = []records.Record{}
	}

	respondSuccess(c, http.StatusOK, "Cadastros listados", gin.H{
		"records": list,
		"total":   len(list),
		"next_id": next,
		"storage": h.repo.StorageName(),
	}, start)
}

// CreateRecord stores a submitted record and returns it with its id
// @Summary Salva cadastro
// @Tags Records
// @Accept json
// @Produce json
// @Param request body models.RecordRequest true "Cadastro"
// @Success 201 {object} models.StandardResponse
// @Failure 400 {object} models.StandardResponse
// @Failure 500 {object} models.StandardResponse
// @Router /records [post]
func (h *RecordsHandler) CreateRecord(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.RecordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest, err.Error(), nil, start)
		return
	}

	rec, err := h.repo.Append(c.Request.Context(), records.Record{
		CNPJ:         request.CNPJ,
		RazaoSocial:  request.RazaoSocial,
		NomeFantasia: request.NomeFantasia,
		CEP:          request.CEP,
		Logradouro:   request.Logradouro,
		Bairro:       request.Bairro,
		Cidade:       request.Cidade,
		Estado:       request.Estado,
	})
	switch {
	case errors.Is(err, records.ErrInvalidRecord):
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidCNPJ, err.Error(), nil, start)
		return
	case err != nil:
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store record")
		respondError(c, http.StatusInternalServerError, models.ErrorCodeStorageError, err.Error(), nil, start)
		return
	}

	respondSuccess(c, http.StatusCreated, "Cadastro salvo", rec, start)
}
