package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cadastroPage = `<!DOCTYPE html>
<html><body>
<form id="cadastro">
  <input name="cnpj" id="cnpj">
  <input name="razao_social" id="razao_social">
  <input name="cep" id="cep">
  <input name="logradouro" id="logradouro">
  <input name="cidade" id="cidade">
  <input name="estado" id="estado">
  <button type="submit">Salvar</button>
</form>
</body></html>`

// withProviders points the lookups at a fake BrasilAPI
func withProviders(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cep/v1/01001000", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01001000","state":"SP","city":"São Paulo","neighborhood":"Sé","street":"Praça da Sé"}`))
	})
	mux.HandleFunc("/api/cnpj/v1/11222333000181", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cnpj":"11222333000181","razao_social":"EMPRESA EXEMPLO LTDA","cep":"01001000"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("CEP_URL", srv.URL+"/api/cep/v1/%s")
	t.Setenv("CNPJ_URL", srv.URL+"/api/cnpj/v1/%s")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCEPCommand(t *testing.T) {
	withProviders(t)

	out, err := execute(t, "cep", "01001-000")
	require.NoError(t, err)

	var result services.LookupResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, services.OutcomeSuccess, result.Outcome)
	assert.Equal(t, "Praça da Sé", result.Fields["logradouro"])
	assert.Equal(t, "SP", result.Fields["estado"])
}

func TestCEPCommand_NotFound(t *testing.T) {
	withProviders(t)

	out, err := execute(t, "cep", "99999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(services.OutcomeNotFound))
	assert.Contains(t, out, `"outcome": "not_found"`)
}

func TestCNPJCommand_InvalidLength(t *testing.T) {
	withProviders(t)

	_, err := execute(t, "cnpj", "1122233300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(services.OutcomeInvalidLength))
}

func TestFillCommand(t *testing.T) {
	withProviders(t)

	dir := t.TempDir()
	page := filepath.Join(dir, "cadastro.html")
	filled := filepath.Join(dir, "filled.html")
	require.NoError(t, os.WriteFile(page, []byte(cadastroPage), 0o644))

	_, err := execute(t, "fill", "--file", page,
		"--set", "cnpj=11222333000181",
		"--blur", "cnpj",
		"--out", filled)
	require.NoError(t, err)

	data, err := os.ReadFile(filled)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, `value="11.222.333/0001-81"`)
	assert.Contains(t, html, `value="EMPRESA EXEMPLO LTDA"`)
	assert.Contains(t, html, `value="01001-000"`)
	assert.Contains(t, html, `value="Praça da Sé"`)
	assert.True(t, strings.Contains(html, "data-autofill-feedback"), "feedback region rendered")
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"cep=01001000", " cidade =São Paulo", "obs="})
	require.NoError(t, err)
	assert.Equal(t, []assignment{
		{field: "cep", value: "01001000"},
		{field: "cidade", value: "São Paulo"},
		{field: "obs", value: ""},
	}, got)

	_, err = parseAssignments([]string{"cep"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}
