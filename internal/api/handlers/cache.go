package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// CacheHandler handles cache management requests
type CacheHandler struct {
	cacheService services.CacheServiceInterface
	logger       *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		logger:       logger,
	}
}

// GetStats handles cache statistics request
// @Summary Get cache statistics
// @Description Get cache size per lookup kind, hit and miss counters
// @Tags Cache
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Failure 500 {object} models.StandardResponse
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	stats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get cache statistics")

		respondError(c, http.StatusInternalServerError, models.ErrorCodeInternalError,
			"Failed to retrieve cache statistics", nil, start)
		return
	}

	respondSuccess(c, http.StatusOK, "Cache statistics", gin.H{
		"stats":  stats,
		"health": h.cacheService.Health(),
	}, start)
}

// Clear handles cache clear request
// @Summary Clear lookup cache
// @Description Remove every cached CEP and CNPJ lookup
// @Tags Cache
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Failure 500 {object} models.StandardResponse
// @Router /cache/clear [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	if err := h.cacheService.Clear(c.Request.Context()); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear cache")

		respondError(c, http.StatusInternalServerError, models.ErrorCodeInternalError,
			"Failed to clear cache", nil, start)
		return
	}

	h.logger.WithField("request_id", requestID).Info("Cache cleared successfully")
	respondSuccess(c, http.StatusOK, "Cache cleared successfully", nil, start)
}

// Delete handles specific cache entry deletion
// @Summary Delete a cached lookup
// @Description Delete one cached CEP or CNPJ lookup
// @Tags Cache
// @Param kind path string true "cep ou cnpj"
// @Param code path string true "Código consultado"
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Failure 400 {object} models.StandardResponse
// @Failure 404 {object} models.StandardResponse
// @Failure 500 {object} models.StandardResponse
// @Router /cache/{kind}/{code} [delete]
func (h *CacheHandler) Delete(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var kind utils.Kind
	switch c.Param("kind") {
	case "cep":
		kind = utils.KindCEP
	case "cnpj":
		kind = utils.KindCNPJ
	default:
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest,
			fmt.Sprintf("unknown lookup kind %q", c.Param("kind")), nil, start)
		return
	}

	code := utils.OnlyDigits(c.Param("code"))
	if len(code) != kind.Length() {
		errCode := models.ErrorCodeInvalidCEP
		if kind == utils.KindCNPJ {
			errCode = models.ErrorCodeInvalidCNPJ
		}
		respondError(c, http.StatusBadRequest, errCode,
			fmt.Sprintf("%s must contain exactly %d digits", kind, kind.Length()), nil, start)
		return
	}

	logger := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"kind":       kind.String(),
		"code":       code,
	})

	cacheKey := services.CacheKey(kind, code)

	exists, err := h.cacheService.Exists(c.Request.Context(), cacheKey)
	if err != nil {
		logger.WithError(err).Error("Failed to check cache key existence")
		respondError(c, http.StatusInternalServerError, models.ErrorCodeInternalError,
			"Failed to check cache", nil, start)
		return
	}

	if !exists {
		logger.Info("Code not found in cache")
		respondError(c, http.StatusNotFound, "NOT_IN_CACHE", "Code not found in cache", nil, start)
		return
	}

	if err := h.cacheService.Delete(c.Request.Context(), cacheKey); err != nil {
		logger.WithError(err).Error("Failed to delete code from cache")
		respondError(c, http.StatusInternalServerError, models.ErrorCodeInternalError,
			"Failed to delete from cache", nil, start)
		return
	}

	logger.Info("Code deleted from cache successfully")
	respondSuccess(c, http.StatusOK, "Code deleted from cache successfully", gin.H{
		"kind": kind.String(),
		"code": utils.Mask(kind, code),
	}, start)
}
