package services

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// CNPJService resolves company registrations into name and address fields
type CNPJService struct {
	urlTemplate string
	fetcher     *Fetcher
	cep         CEPServiceInterface
	metrics     *Metrics
	logger      *logrus.Logger
}

// NewCNPJService creates a new CNPJ service. The CEP service is used for
// the chained address lookup when the registration carries a postal code.
func NewCNPJService(cfg config.LookupConfig, fetcher *Fetcher, cep CEPServiceInterface, metrics *Metrics, logger *logrus.Logger) *CNPJService {
	return &CNPJService{
		urlTemplate: cfg.CNPJURL,
		fetcher:     fetcher,
		cep:         cep,
		metrics:     metrics,
		logger:      logger,
	}
}

// LookupCNPJ normalizes code, queries the provider and, when the response
// has a postal code, chains one CEP lookup after it. The combined fields
// come back as a single result.
func (s *CNPJService) LookupCNPJ(ctx context.Context, code string) LookupResult {
	start := time.Now()
	cnpj := utils.CleanCNPJ(code)

	logger := s.logger.WithField("cnpj", cnpj)
	result := s.lookup(ctx, cnpj, logger)

	s.metrics.ObserveLookup(utils.KindCNPJ.String(), result.Outcome, time.Since(start))
	logger.WithFields(logrus.Fields{
		"outcome":  result.Outcome,
		"fields":   len(result.Fields),
		"duration": time.Since(start),
	}).Debug("CNPJ lookup finished")

	return result
}

func (s *CNPJService) lookup(ctx context.Context, cnpj string, logger *logrus.Entry) LookupResult {
	if len(cnpj) != utils.CNPJLength {
		return invalidLengthResult(cnpj, utils.CNPJLength)
	}

	payload, status, err := s.fetcher.FetchJSON(ctx, fmt.Sprintf(s.urlTemplate, cnpj))
	if err != nil {
		return failureResult(cnpj, status, fmt.Errorf("cnpj %s: %w", cnpj, err))
	}

	fields := extractFields(payload, cnpjNameAliases)
	fields[models.FieldCNPJ] = utils.MaskCNPJ(cnpj)
	result := successResult(cnpj, fields, status)

	cep, ok := postalCode(payload)
	if ok {
		fields[models.FieldCEP] = utils.MaskCEP(cep)
	}
	if !ok || s.cep == nil {
		maps.Copy(fields, extractFields(payload, cnpjAddressAliases))
		return result
	}

	chained := s.cep.LookupCEP(ctx, cep)
	if chained.OK() {
		maps.Copy(fields, chained.Fields)
		return result
	}

	logger.WithFields(logrus.Fields{
		"cep":     cep,
		"outcome": chained.Outcome,
		"error":   chained.Error(),
	}).Warn("Chained CEP lookup failed, using registration address")

	maps.Copy(fields, extractFields(payload, cnpjAddressAliases))
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("Consulta do CEP %s falhou (%s); endereço obtido do cadastro do CNPJ.", utils.MaskCEP(cep), chained.Outcome))

	return result
}

// Health returns service health status
func (s *CNPJService) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":   "healthy",
		"endpoint": s.urlTemplate,
		"chained":  s.cep != nil,
	}
}
