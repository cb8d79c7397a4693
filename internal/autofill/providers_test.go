package autofill

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/logger"
	"github.com/nexconsult/autofill-api/internal/services"
)

// newProviderServer mimics the BrasilAPI CEP and CNPJ endpoints
func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cep/v1/01001000", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01001000","state":"SP","city":"São Paulo","neighborhood":"Sé","street":"Praça da Sé"}`))
	})
	mux.HandleFunc("/api/cnpj/v1/11222333000181", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cnpj":"11222333000181","razao_social":"EMPRESA EXEMPLO LTDA","nome_fantasia":"EXEMPLO","cep":"01001000"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func providerDeps(srv *httptest.Server) Deps {
	cfg := config.LookupConfig{
		CEPURL:  srv.URL + "/api/cep/v1/%s",
		CNPJURL: srv.URL + "/api/cnpj/v1/%s",
		Timeout: 5 * time.Second,
	}
	log := logger.Discard()
	fetcher := services.NewFetcher(cfg).WithHTTPClient(srv.Client())
	cep := services.NewCEPService(cfg, fetcher, nil, log)
	cnpj := services.NewCNPJService(cfg, fetcher, cep, nil, log)

	return Deps{CEP: cep, CNPJ: cnpj, Logger: log}
}
