package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nexconsult/autofill-api/internal/autofill"
	"github.com/nexconsult/autofill-api/internal/form"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	fillFile         string
	fillURL          string
	fillOut          string
	fillForm         int
	fillSets         []string
	fillBlurs        []string
	fillDiscardStale bool
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the forms of an HTML page",
	Long: `Load a page, write the --set values into one of its forms, then blur the
--blur fields in order so CEP and CNPJ lookups fill the related fields.
The updated page is written to stdout or --out.`,
	Example: `  autofill fill --file cadastro.html --set cnpj=11222333000181 --blur cnpj
  autofill fill --url https://example.com/cadastro --set cep=01001000 --blur cep --out filled.html`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVar(&fillFile, "file", "", "HTML file to fill")
	fillCmd.Flags().StringVar(&fillURL, "url", "", "URL of the page to fill")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write the filled page here instead of stdout")
	fillCmd.Flags().IntVar(&fillForm, "form", 0, "Index of the form to fill")
	fillCmd.Flags().StringArrayVar(&fillSets, "set", nil, "field=value to write before the blurs (repeatable)")
	fillCmd.Flags().StringArrayVar(&fillBlurs, "blur", nil, "Field to blur, triggering its lookup (repeatable)")
	fillCmd.Flags().BoolVar(&fillDiscardStale, "discard-stale", false, "Drop lookup results superseded by a newer blur")
	fillCmd.MarkFlagsMutuallyExclusive("file", "url")
	fillCmd.MarkFlagsOneRequired("file", "url")
}

func runFill(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sets, err := parseAssignments(fillSets)
	if err != nil {
		return err
	}

	lookups := newLookupServices()

	page, err := loadPage(ctx, lookups.fetcher)
	if err != nil {
		return err
	}

	controllers := autofill.Init(page, autofill.Deps{
		CEP:    lookups.cep,
		CNPJ:   lookups.cnpj,
		Logger: log,
	}, autofill.Options{DiscardStale: fillDiscardStale || cfg.Autofill.DiscardStale})
	if len(controllers) == 0 {
		return errors.New("page has no forms")
	}
	if fillForm < 0 || fillForm >= len(controllers) {
		return fmt.Errorf("form %d out of range: page has %d forms", fillForm, len(controllers))
	}
	ctrl := controllers[fillForm]

	for _, s := range sets {
		if !ctrl.Set(s.field, s.value) {
			log.WithField("field", s.field).Warn("Field not found in form")
		}
	}
	for _, field := range fillBlurs {
		result := ctrl.Blur(ctx, field)
		log.WithFields(logrus.Fields{
			"field":   field,
			"outcome": result.Outcome,
			"error":   result.Error(),
		}).Debug("Blur handled")
	}

	if severity, message, ok := ctrl.Form().Feedback(); ok {
		log.WithFields(logrus.Fields{
			"form":     ctrl.Form().Name(),
			"severity": severity,
		}).Info(message)
	}

	html, err := page.HTML()
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	if fillOut == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(fillOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fillOut, err)
	}
	return nil
}

type assignment struct {
	field string
	value string
}

func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, item := range raw {
		field, value, ok := strings.Cut(item, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q: want field=value", item)
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

// loadPage reads --file, or fetches --url through the browser when one is
// enabled and over plain HTTP otherwise
func loadPage(ctx context.Context, fetcher *services.Fetcher) (*form.Page, error) {
	if fillFile != "" {
		f, err := os.Open(fillFile)
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
		defer f.Close()
		return form.Parse(f, "")
	}

	if !cfg.Browser.Enabled {
		return fetcher.FetchPage(ctx, fillURL)
	}

	browser, err := services.NewBrowserService(cfg.Browser, log)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	html, err := browser.RenderPage(ctx, fillURL)
	if err != nil {
		return nil, err
	}
	return form.ParseString(html)
}
