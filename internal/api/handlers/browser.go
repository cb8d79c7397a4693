package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/sirupsen/logrus"
)

// BrowserHandler reports on the headless renderer used to load remote pages
type BrowserHandler struct {
	browserService services.BrowserServiceInterface
	logger         *logrus.Logger
}

// NewBrowserHandler creates a new browser handler. browserService is nil
// when rendering is disabled.
func NewBrowserHandler(browserService services.BrowserServiceInterface, logger *logrus.Logger) *BrowserHandler {
	return &BrowserHandler{
		browserService: browserService,
		logger:         logger,
	}
}

// GetStats handles browser statistics request
// @Summary Get browser statistics
// @Description Renders performed and failed by the headless browser
// @Tags Browser
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Router /browser/stats [get]
func (h *BrowserHandler) GetStats(c *gin.Context) {
	start := time.Now()
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting browser statistics")

	if h.browserService == nil {
		response := models.NewInfoResponse("Browser disabled", gin.H{"enabled": false})
		response.SetRequestID(c.GetString("request_id"))
		response.SetExecutionTime(time.Since(start))
		c.JSON(http.StatusOK, response)
		return
	}

	respondSuccess(c, http.StatusOK, "Browser statistics", gin.H{
		"enabled": true,
		"stats":   h.browserService.GetStats(),
		"health":  h.browserService.Health(),
	}, start)
}

// GetHealth handles browser health check request
// @Summary Get browser health
// @Tags Browser
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /browser/health [get]
func (h *BrowserHandler) GetHealth(c *gin.Context) {
	if h.browserService == nil {
		c.JSON(http.StatusOK, gin.H{
			"health":    gin.H{"status": "disabled"},
			"timestamp": time.Now(),
		})
		return
	}

	health := h.browserService.Health()
	httpStatus := http.StatusOK
	if status, _ := health["status"].(string); status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"health":    health,
		"stats":     h.browserService.GetStats(),
		"timestamp": time.Now(),
	})
}
