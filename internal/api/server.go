package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/api/handlers"
	"github.com/nexconsult/autofill-api/internal/api/middleware"
	"github.com/nexconsult/autofill-api/internal/autofill"
	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server
type Server struct {
	Router      *gin.Engine
	config      *config.Config
	logger      *logrus.Logger
	services    *services.Container
	gatherer    prometheus.Gatherer
	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new HTTP server. gatherer serves /metrics and
// defaults to the global Prometheus registry.
func NewServer(cfg *config.Config, logger *logrus.Logger, services *services.Container, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	server := &Server{
		config:   cfg,
		logger:   logger,
		services: services,
		gatherer: gatherer,
	}

	server.setupRouter()
	return server
}

// Close stops background work owned by the server
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter() {
	s.Router = gin.New()

	// Global middleware
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())

	// Health checks and metrics are not rate limited
	healthHandler := handlers.NewHealthHandler(s.services, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)

	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	if s.config.Server.Environment != "production" {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	s.rateLimiter = middleware.NewRateLimiter(s.config.Security.RateLimit)

	// API v1 routes
	v1 := s.Router.Group("/api/v1")
	v1.Use(s.rateLimiter.Middleware())
	{
		lookupHandler := handlers.NewLookupHandler(
			s.services.CachedCEP.Lookup,
			s.services.CachedCNPJ.Lookup,
			s.config.Lookup,
			s.logger,
		)
		v1.GET("/cep/:cep", lookupHandler.GetCEP)

		cnpj := v1.Group("/cnpj")
		{
			cnpj.GET("/:cnpj", lookupHandler.GetCNPJ)
			cnpj.POST("/batch", lookupHandler.GetBatchCNPJ)
		}

		// Form controllers look up uncached, like the page scripts they replace
		autofillHandler := handlers.NewAutofillHandler(autofill.Deps{
			CEP:     s.services.CEPService,
			CNPJ:    s.services.CNPJService,
			Metrics: s.services.Metrics,
			Logger:  s.logger,
		}, autofill.Options{
			DiscardStale: s.config.Autofill.DiscardStale,
		}, s.services, s.logger)
		v1.POST("/autofill", autofillHandler.Autofill)
		v1.POST("/autofill/url", autofillHandler.AutofillURL)

		recordsHandler := handlers.NewRecordsHandler(s.services.Records, s.logger)
		v1.GET("/records", recordsHandler.ListRecords)
		v1.POST("/records", recordsHandler.CreateRecord)

		cacheHandler := handlers.NewCacheHandler(s.services.CacheService, s.logger)
		cache := v1.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("/clear", cacheHandler.Clear)
			cache.DELETE("/:kind/:code", cacheHandler.Delete)
		}

		browserHandler := handlers.NewBrowserHandler(s.services.BrowserService, s.logger)
		browser := v1.Group("/browser")
		{
			browser.GET("/stats", browserHandler.GetStats)
			browser.GET("/health", browserHandler.GetHealth)
		}

		v1.GET("/stats", handlers.NewMetricsHandler(s.services.CacheService, s.services.BrowserService, s.rateLimiter, s.logger).GetStats)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		response := models.NewErrorResponse("NOT_FOUND", "The requested resource was not found", gin.H{"path": c.Request.URL.Path})
		response.SetRequestID(c.GetString("request_id"))
		c.JSON(http.StatusNotFound, response)
	})

	s.Router.HandleMethodNotAllowed = true
	s.Router.NoMethod(func(c *gin.Context) {
		response := models.NewErrorResponse("METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource",
			gin.H{"path": c.Request.URL.Path, "method": c.Request.Method})
		response.SetRequestID(c.GetString("request_id"))
		c.JSON(http.StatusMethodNotAllowed, response)
	})
}
