package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// LookupFunc is the signature shared by LookupCEP and LookupCNPJ
type LookupFunc func(ctx context.Context, code string) LookupResult

// CachedLookup serves repeated API lookups from the cache. Only complete
// successes are stored; failures and degraded results reach the provider again.
type CachedLookup struct {
	kind    utils.Kind
	lookup  LookupFunc
	cache   CacheServiceInterface
	metrics *Metrics
	logger  *logrus.Logger
}

type cachedEntry struct {
	Fields map[string]string `json:"fields"`
	Status int               `json:"status,omitempty"`
}

// NewCachedLookup wraps lookup with the cache under the kind's key prefix
func NewCachedLookup(kind utils.Kind, lookup LookupFunc, cache CacheServiceInterface, metrics *Metrics, logger *logrus.Logger) *CachedLookup {
	return &CachedLookup{
		kind:    kind,
		lookup:  lookup,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// CacheKey returns the cache key for a code, e.g. "cep:01001000"
func CacheKey(kind utils.Kind, code string) string {
	return fmt.Sprintf("%s:%s", kind, utils.OnlyDigits(code))
}

// Lookup returns the cached result for code when present, else calls through
func (c *CachedLookup) Lookup(ctx context.Context, code string) LookupResult {
	digits := utils.OnlyDigits(code)
	if len(digits) != c.kind.Length() {
		return c.lookup(ctx, code)
	}

	key := CacheKey(c.kind, digits)
	logger := c.logger.WithField(c.kind.String(), digits)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var entry cachedEntry
		if err := json.Unmarshal([]byte(cached), &entry); err == nil {
			c.metrics.ObserveCache(c.kind.String(), true)
			result := successResult(digits, entry.Fields, entry.Status)
			result.Cached = true
			return result
		}
		logger.WithError(err).Warn("Failed to unmarshal cached lookup")
	}
	c.metrics.ObserveCache(c.kind.String(), false)

	result := c.lookup(ctx, code)
	if !result.OK() || len(result.Warnings) > 0 {
		return result
	}

	data, err := json.Marshal(cachedEntry{Fields: result.Fields, Status: result.Status})
	if err != nil {
		logger.WithError(err).Warn("Failed to marshal lookup for cache")
		return result
	}
	if err := c.cache.Set(ctx, key, string(data)); err != nil {
		logger.WithError(err).Warn("Failed to cache lookup")
	}

	return result
}

// Invalidate drops the cached entry for code
func (c *CachedLookup) Invalidate(ctx context.Context, code string) error {
	return c.cache.Delete(ctx, CacheKey(c.kind, code))
}
