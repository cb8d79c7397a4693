package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/spf13/cobra"
)

var cepCmd = &cobra.Command{
	Use:   "cep <code>",
	Short: "Resolve a postal code into address fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, args[0], func(s *lookupServices) services.LookupFunc { return s.cep.LookupCEP })
	},
}

var cnpjCmd = &cobra.Command{
	Use:   "cnpj <code>",
	Short: "Resolve a CNPJ into company and address fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, args[0], func(s *lookupServices) services.LookupFunc { return s.cnpj.LookupCNPJ })
	},
}

// lookupServices are the uncached lookups the CLI runs
type lookupServices struct {
	fetcher *services.Fetcher
	cep     *services.CEPService
	cnpj    *services.CNPJService
}

func newLookupServices() *lookupServices {
	fetcher := services.NewFetcher(cfg.Lookup)
	cep := services.NewCEPService(cfg.Lookup, fetcher, nil, log)
	return &lookupServices{
		fetcher: fetcher,
		cep:     cep,
		cnpj:    services.NewCNPJService(cfg.Lookup, fetcher, cep, nil, log),
	}
}

// runLookup prints the result as JSON and fails unless it succeeded
func runLookup(cmd *cobra.Command, code string, pick func(*lookupServices) services.LookupFunc) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result := pick(newLookupServices())(ctx, code)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if !result.OK() {
		return fmt.Errorf("lookup %s: %s", result.Outcome, result.Error())
	}
	return nil
}
