package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPageParsesForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cadastro" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><form class="autofill-form" id="cliente"><input id="cep"></form></body></html>`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(config.LookupConfig{Timeout: time.Second}).WithHTTPClient(srv.Client())

	page, err := fetcher.FetchPage(context.Background(), srv.URL+"/cadastro")
	require.NoError(t, err)
	forms := page.Forms()
	require.Len(t, forms, 1)
	assert.Equal(t, "cliente", forms[0].Name())

	_, err = fetcher.FetchPage(context.Background(), srv.URL+"/missing")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.Status)
}

func TestFetcherRateLimiterHonorsContext(t *testing.T) {
	fetcher := NewFetcher(config.LookupConfig{Timeout: time.Second, RequestsPerSec: 0.001})
	require.NotNil(t, fetcher.limiter)

	// the single burst token is consumed by the first call
	fetcher.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fetcher.FetchJSON(ctx, "http://127.0.0.1:1/never")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "rate limiter")
}
