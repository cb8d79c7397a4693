package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// CEPService resolves postal codes into address fields
type CEPService struct {
	urlTemplate string
	fetcher     *Fetcher
	metrics     *Metrics
	logger      *logrus.Logger
}

// NewCEPService creates a new CEP service
func NewCEPService(cfg config.LookupConfig, fetcher *Fetcher, metrics *Metrics, logger *logrus.Logger) *CEPService {
	return &CEPService{
		urlTemplate: cfg.CEPURL,
		fetcher:     fetcher,
		metrics:     metrics,
		logger:      logger,
	}
}

// LookupCEP normalizes code and queries the provider once. Codes that do
// not have exactly 8 digits fail with InvalidLength without a request.
func (s *CEPService) LookupCEP(ctx context.Context, code string) LookupResult {
	start := time.Now()
	cep := utils.CleanCEP(code)

	result := s.lookup(ctx, cep)

	s.metrics.ObserveLookup(utils.KindCEP.String(), result.Outcome, time.Since(start))
	s.logger.WithFields(logrus.Fields{
		"cep":      cep,
		"outcome":  result.Outcome,
		"fields":   len(result.Fields),
		"duration": time.Since(start),
	}).Debug("CEP lookup finished")

	return result
}

func (s *CEPService) lookup(ctx context.Context, cep string) LookupResult {
	if len(cep) != utils.CEPLength {
		return invalidLengthResult(cep, utils.CEPLength)
	}

	payload, status, err := s.fetcher.FetchJSON(ctx, fmt.Sprintf(s.urlTemplate, cep))
	if err != nil {
		return failureResult(cep, status, fmt.Errorf("cep %s: %w", cep, err))
	}

	return successResult(cep, extractFields(payload, cepAliases), status)
}

// Health returns service health status
func (s *CEPService) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":   "healthy",
		"endpoint": s.urlTemplate,
	}
}
