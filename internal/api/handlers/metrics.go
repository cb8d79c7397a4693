package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/sirupsen/logrus"
)

// StatsSource reports a component's statistics
type StatsSource interface {
	GetStats() map[string]interface{}
}

// MetricsHandler reports runtime and service statistics as JSON. The
// Prometheus counters are served separately on /metrics.
type MetricsHandler struct {
	cache   services.CacheServiceInterface
	browser services.BrowserServiceInterface
	limiter StatsSource
	logger  *logrus.Logger
}

// NewMetricsHandler creates a new metrics handler. browser and limiter may be nil.
func NewMetricsHandler(cache services.CacheServiceInterface, browser services.BrowserServiceInterface, limiter StatsSource, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		cache:   cache,
		browser: browser,
		limiter: limiter,
		logger:  logger,
	}
}

// GetStats handles the statistics request
// @Summary Get application statistics
// @Description Runtime, cache, browser and rate limiter statistics
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.StandardResponse
// @Router /stats [get]
func (h *MetricsHandler) GetStats(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	h.logger.WithField("request_id", requestID).Debug("Getting application statistics")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := gin.H{
		"system": gin.H{
			"memory_mb":  float64(m.Alloc) / 1024 / 1024,
			"goroutines": runtime.NumGoroutine(),
			"gc_cycles":  m.NumGC,
		},
	}

	if h.cache != nil {
		cacheStats, err := h.cache.GetStats(c.Request.Context())
		if err != nil {
			h.logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to get cache statistics")
		} else {
			cacheStats["hit_rate"] = hitRate(cacheStats)
			stats["cache"] = cacheStats
		}
	}

	if h.browser != nil {
		stats["browser"] = h.browser.GetStats()
	} else {
		stats["browser"] = gin.H{"status": "disabled"}
	}

	if h.limiter != nil {
		stats["rate_limit"] = h.limiter.GetStats()
	}

	respondSuccess(c, http.StatusOK, "Application statistics", stats, start)
}

// hitRate returns hits/(hits+misses) as a percentage
func hitRate(stats map[string]interface{}) float64 {
	hits := getInt64FromStats(stats, "hits")
	misses := getInt64FromStats(stats, "misses")
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(hits+misses)
}

// Helper function to safely get integer values from stats map
func getInt64FromStats(stats map[string]interface{}, key string) int64 {
	switch value := stats[key].(type) {
	case int:
		return int64(value)
	case int64:
		return value
	case uint64:
		return int64(value)
	}
	return 0
}
