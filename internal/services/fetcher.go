package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/form"
	"golang.org/x/time/rate"
)

const maxBodySize = 2 << 20

// Fetcher performs the GET requests against the lookup providers
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// NewFetcher creates a fetcher from the lookup configuration. A positive
// RequestsPerSec throttles outbound requests.
func NewFetcher(cfg config.LookupConfig) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
	}
	if cfg.RequestsPerSec > 0 {
		burst := int(cfg.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}
	return f
}

// WithHTTPClient replaces the underlying client
func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.httpClient = client
	return f
}

// CloseIdleConnections releases pooled provider connections
func (f *Fetcher) CloseIdleConnections() {
	f.httpClient.CloseIdleConnections()
}

// FetchJSON issues one GET and decodes a JSON object body. It returns the
// response status alongside ErrNotFound for 404 or an {"erro": true} body,
// and a *TransportError for everything else that is not a usable object.
func (f *Fetcher) FetchJSON(ctx context.Context, url string) (map[string]any, int, error) {
	body, status, err := f.get(ctx, url, "application/json")
	if err != nil {
		return nil, status, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, status, &TransportError{Status: status, Err: fmt.Errorf("decode body: %w", err)}
	}
	if payload == nil {
		return nil, status, &TransportError{Status: status, Err: fmt.Errorf("body is not a JSON object")}
	}
	if notFoundMarker(payload) {
		return nil, status, ErrNotFound
	}

	return payload, status, nil
}

// FetchPage downloads an HTML page and parses it, honoring the declared charset
func (f *Fetcher) FetchPage(ctx context.Context, url string) (*form.Page, error) {
	req, err := f.newRequest(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status fetching page")}
	}

	page, err := form.Parse(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := f.newRequest(ctx, url, accept)
	if err != nil {
		return nil, 0, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, resp.StatusCode, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, resp.StatusCode, nil
}

func (f *Fetcher) newRequest(ctx context.Context, url, accept string) (*http.Request, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", accept)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	return req, nil
}
