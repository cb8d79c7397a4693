package services

import (
	"context"
	"fmt"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/form"
	"github.com/nexconsult/autofill-api/internal/records"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client

	Metrics        *Metrics
	Fetcher        *Fetcher
	CEPService     CEPServiceInterface
	CNPJService    CNPJServiceInterface
	CacheService   CacheServiceInterface
	CachedCEP      *CachedLookup
	CachedCNPJ     *CachedLookup
	BrowserService BrowserServiceInterface
	Records        *records.Repository
}

// NewContainer creates a new service container. reg receives the
// Prometheus collectors and may be nil.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, reg prometheus.Registerer) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	container.initRedis(ctx)

	if err := container.initServices(ctx, reg); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initRedis connects to Redis when enabled; failures leave the client nil
func (c *Container) initRedis(ctx context.Context) {
	if !c.config.Redis.Enabled {
		c.logger.Info("Redis disabled, using memory cache")
		return
	}

	c.redisClient = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis connection failed, running without cache")
		c.redisClient.Close()
		c.redisClient = nil
		return
	}
	c.logger.Info("Redis connection established")
}

// initServices initializes all services
func (c *Container) initServices(ctx context.Context, reg prometheus.Registerer) error {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	c.Metrics = metrics

	c.Fetcher = NewFetcher(c.config.Lookup)

	cep := NewCEPService(c.config.Lookup, c.Fetcher, metrics, c.logger)
	c.CEPService = cep
	c.CNPJService = NewCNPJService(c.config.Lookup, c.Fetcher, cep, metrics, c.logger)

	cache := NewCacheService(c.redisClient, c.config.Lookup.CacheTTL, c.logger)
	if c.config.Lookup.CacheTTL > 0 {
		cache.StartCleanupRoutine(ctx, c.config.Lookup.CacheTTL)
	}
	c.CacheService = cache
	c.CachedCEP = NewCachedLookup(utils.KindCEP, c.CEPService.LookupCEP, cache, metrics, c.logger)
	c.CachedCNPJ = NewCachedLookup(utils.KindCNPJ, c.CNPJService.LookupCNPJ, cache, metrics, c.logger)

	if c.config.Browser.Enabled {
		browser, err := NewBrowserService(c.config.Browser, c.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize browser service: %w", err)
		}
		c.BrowserService = browser
	}

	storage, err := records.OpenStorage(ctx, c.config.Records, c.redisClient)
	if err != nil {
		return fmt.Errorf("failed to open records storage: %w", err)
	}
	c.Records = records.NewRepository(storage, c.logger)

	return nil
}

// LoadPage fetches url, rendering it in the browser when one is configured
func (c *Container) LoadPage(ctx context.Context, url string) (*form.Page, error) {
	if c.BrowserService == nil {
		return c.Fetcher.FetchPage(ctx, url)
	}

	html, err := c.BrowserService.RenderPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return form.ParseString(html)
}

// Close closes all service connections
func (c *Container) Close() error {
	var errors []error

	if c.Records != nil {
		if err := c.Records.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close records storage: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.Fetcher != nil {
		c.Fetcher.CloseIdleConnections()
	}

	if c.BrowserService != nil {
		if err := c.BrowserService.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close browser service: %w", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errors)
	}

	return nil
}

// Health checks the health of all services
func (c *Container) Health() map[string]interface{} {
	health := make(map[string]interface{})

	if c.redisClient != nil {
		if err := c.redisClient.Ping(context.Background()).Err(); err != nil {
			health["redis"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			health["redis"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		health["redis"] = map[string]interface{}{
			"status": "disabled",
		}
	}

	if c.BrowserService != nil {
		health["browser"] = c.BrowserService.Health()
	}
	if c.CEPService != nil {
		health["cep"] = c.CEPService.Health()
	}
	if c.CNPJService != nil {
		health["cnpj"] = c.CNPJService.Health()
	}
	if c.Records != nil {
		health["records"] = map[string]interface{}{
			"status":  "healthy",
			"storage": c.Records.StorageName(),
		}
	}

	return health
}

