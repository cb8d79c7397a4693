package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/autofill"
	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/form"
	"github.com/nexconsult/autofill-api/internal/logger"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/records"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	Data    json.RawMessage      `json:"data"`
	Error   *models.ErrorDetails `json:"error"`
	Meta    *models.ResponseMeta `json:"meta"`
}

func serve(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

var lookupConfig = config.LookupConfig{
	CacheTTL:        time.Hour,
	BatchLimit:      2,
	BatchMaxEntries: 3,
}

func staticLookup(result services.LookupResult) services.LookupFunc {
	return func(_ context.Context, code string) services.LookupResult {
		result.Code = code
		return result
	}
}

func lookupRouter(cep, cnpj services.LookupFunc) *gin.Engine {
	h := NewLookupHandler(cep, cnpj, lookupConfig, logger.Discard())
	r := gin.New()
	r.GET("/cep/:cep", h.GetCEP)
	r.GET("/cnpj/:cnpj", h.GetCNPJ)
	r.POST("/cnpj/batch", h.GetBatchCNPJ)
	return r
}

var addressFields = map[string]string{
	models.FieldLogradouro: "Praça da Sé",
	models.FieldBairro:     "Sé",
	models.FieldCidade:     "São Paulo",
	models.FieldEstado:     "SP",
}

func TestGetCEP_Success(t *testing.T) {
	var calls atomic.Int32
	cep := func(_ context.Context, code string) services.LookupResult {
		calls.Add(1)
		return services.LookupResult{Outcome: services.OutcomeSuccess, Code: code, Fields: addressFields}
	}
	router := lookupRouter(cep, nil)

	w, env := serve(t, router, http.MethodGet, "/cep/01001-000", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, models.StatusSuccess, env.Status)

	var data models.LookupData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "01001000", data.Code)
	assert.Equal(t, "01001-000", data.Formatted)
	assert.Equal(t, addressFields, data.Fields)
	assert.Nil(t, data.Document)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetCEP_CacheHit(t *testing.T) {
	router := lookupRouter(staticLookup(services.LookupResult{
		Outcome: services.OutcomeSuccess,
		Fields:  addressFields,
		Cached:  true,
	}), nil)

	w, _ := serve(t, router, http.MethodGet, "/cep/01001000", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestLookup_FailureMapping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		result   services.LookupResult
		wantCode int
		wantErr  string
	}{
		{
			name:     "short cep never reaches the provider",
			path:     "/cep/0100",
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrorCodeInvalidCEP,
		},
		{
			name:     "short cnpj",
			path:     "/cnpj/11.222.333",
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrorCodeInvalidCNPJ,
		},
		{
			name:     "cep not found",
			path:     "/cep/99999999",
			result:   services.LookupResult{Outcome: services.OutcomeNotFound, Status: 404, Err: services.ErrNotFound},
			wantCode: http.StatusNotFound,
			wantErr:  models.ErrorCodeCEPNotFound,
		},
		{
			name:     "cnpj not found",
			path:     "/cnpj/11222333000181",
			result:   services.LookupResult{Outcome: services.OutcomeNotFound, Status: 404, Err: services.ErrNotFound},
			wantCode: http.StatusNotFound,
			wantErr:  models.ErrorCodeCNPJNotFound,
		},
		{
			name: "provider failure",
			path: "/cep/01001000",
			result: services.LookupResult{
				Outcome: services.OutcomeTransportError,
				Status:  500,
				Err:     &services.TransportError{Status: 500, Err: errors.New("boom")},
			},
			wantCode: http.StatusBadGateway,
			wantErr:  models.ErrorCodeLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called atomic.Bool
			lookup := func(_ context.Context, code string) services.LookupResult {
				called.Store(true)
				r := tt.result
				r.Code = code
				return r
			}
			router := lookupRouter(lookup, lookup)

			w, env := serve(t, router, http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, models.StatusError, env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
			if tt.wantCode == http.StatusBadRequest {
				assert.False(t, called.Load())
			}
		})
	}
}

func TestGetCNPJ_WarningsAndDocument(t *testing.T) {
	router := lookupRouter(nil, staticLookup(services.LookupResult{
		Outcome:  services.OutcomeSuccess,
		Fields:   map[string]string{models.FieldRazaoSocial: "EMPRESA EXEMPLO LTDA"},
		Warnings: []string{"Consulta do CEP falhou."},
	}))

	w, env := serve(t, router, http.MethodGet, "/cnpj/11222333000181", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusWarning, env.Status)

	var data models.LookupData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "11.222.333/0001-81", data.Formatted)
	assert.Equal(t, []string{"Consulta do CEP falhou."}, data.Warnings)
	require.NotNil(t, data.Document)
	assert.True(t, data.Document.Valid)
	assert.Equal(t, "MATRIZ", data.Document.Type)
}

func TestGetBatchCNPJ(t *testing.T) {
	cnpj := func(_ context.Context, code string) services.LookupResult {
		if code == "00000000000000" {
			return services.LookupResult{Outcome: services.OutcomeNotFound, Code: code, Err: services.ErrNotFound}
		}
		return services.LookupResult{Outcome: services.OutcomeSuccess, Code: code, Fields: map[string]string{}}
	}
	router := lookupRouter(nil, cnpj)

	w, env := serve(t, router, http.MethodPost, "/cnpj/batch", models.BatchRequest{
		CNPJs: []string{"11222333000181", "00000000000000", "11444777000161"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var batch models.BatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &batch))
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 2, batch.Success)
	assert.Equal(t, 1, batch.Errors)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, "11222333000181", batch.Results[0].CNPJ)
	assert.False(t, batch.Results[1].Success)
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.Equal(t, "11444777000161", batch.Results[2].CNPJ)
}

func TestGetBatchCNPJ_Rejects(t *testing.T) {
	router := lookupRouter(nil, staticLookup(services.LookupResult{Outcome: services.OutcomeSuccess}))

	w, env := serve(t, router, http.MethodPost, "/cnpj/batch", models.BatchRequest{
		CNPJs: []string{"1", "2", "3", "4"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrorCodeInvalidRequest, env.Error.Code)

	w, _ = serve(t, router, http.MethodPost, "/cnpj/batch", `{"cnpjs": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeCEP struct{ result services.LookupResult }

func (f fakeCEP) LookupCEP(_ context.Context, code string) services.LookupResult {
	r := f.result
	r.Code = code
	return r
}

type fakeLoader struct {
	html string
	err  error
}

func (f fakeLoader) LoadPage(_ context.Context, _ string) (*form.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return form.ParseString(f.html)
}

const enderecoPage = `<html><body>
<form class="autofill-form" name="endereco">
  <input name="cep" id="cep">
  <input name="logradouro" id="logradouro">
  <input name="bairro" id="bairro">
  <input name="cidade" id="cidade">
  <input name="estado" id="estado">
  <button type="submit">Salvar</button>
</form>
</body></html>`

func autofillRouter(loader services.PageLoader) *gin.Engine {
	deps := autofill.Deps{
		CEP: fakeCEP{result: services.LookupResult{Outcome: services.OutcomeSuccess, Fields: addressFields}},
	}
	h := NewAutofillHandler(deps, autofill.Options{}, loader, logger.Discard())
	r := gin.New()
	r.POST("/autofill", h.Autofill)
	r.POST("/autofill/url", h.AutofillURL)
	return r
}

func TestAutofill_ReplaysEvents(t *testing.T) {
	router := autofillRouter(nil)

	w, env := serve(t, router, http.MethodPost, "/autofill", models.AutofillRequest{
		HTML: enderecoPage,
		Events: []models.AutofillEvent{
			{Type: "input", Field: "cep", Value: "01001000", Cursor: 8},
			{Type: "blur", Field: "cep"},
			{Type: "set", Form: 3, Field: "cep", Value: "1"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AutofillResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.PageID)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "01001-000", resp.Results[0].Value)
	assert.Equal(t, 9, resp.Results[0].Cursor)
	assert.Equal(t, string(services.OutcomeSuccess), resp.Results[1].Outcome)
	assert.NotEmpty(t, resp.Results[2].Error)

	require.Len(t, resp.Forms, 1)
	f := resp.Forms[0]
	assert.Equal(t, "endereco", f.Name)
	assert.Equal(t, string(autofill.StateIdle), f.State)
	assert.False(t, f.Busy)
	assert.Equal(t, "Praça da Sé", f.Values[models.FieldLogradouro])
	assert.Equal(t, "SP", f.Values[models.FieldEstado])
	require.NotNil(t, f.Feedback)
	assert.Equal(t, "success", f.Feedback.Severity)
	assert.Equal(t, "Endereço preenchido automaticamente a partir do CEP.", f.Feedback.Message)

	assert.Contains(t, resp.HTML, `value="Praça da Sé"`)
}

func TestAutofill_IncompleteCode(t *testing.T) {
	router := autofillRouter(nil)

	_, env := serve(t, router, http.MethodPost, "/autofill", models.AutofillRequest{
		HTML: enderecoPage,
		Events: []models.AutofillEvent{
			{Type: "input", Field: "cep", Value: "0100", Cursor: 4},
			{Type: "blur", Field: "cep"},
		},
	})

	var resp models.AutofillResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, string(services.OutcomeInvalidLength), resp.Results[1].Outcome)
	require.NotNil(t, resp.Forms[0].Feedback)
	assert.Equal(t, "error", resp.Forms[0].Feedback.Severity)
	assert.Equal(t, "CEP incompleto (8 dígitos).", resp.Forms[0].Feedback.Message)
}

func TestAutofill_RejectsBadRequests(t *testing.T) {
	router := autofillRouter(nil)

	w, env := serve(t, router, http.MethodPost, "/autofill", models.AutofillRequest{HTML: "<p>sem formulário</p>"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, models.ErrorCodeInvalidHTML, env.Error.Code)

	w, _ = serve(t, router, http.MethodPost, "/autofill", `{"events": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = serve(t, router, http.MethodPost, "/autofill", models.AutofillRequest{
		HTML:   enderecoPage,
		Events: []models.AutofillEvent{{Type: "click", Field: "cep"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutofillURL(t *testing.T) {
	w, env := serve(t, autofillRouter(fakeLoader{html: enderecoPage}), http.MethodPost, "/autofill/url", models.AutofillURLRequest{
		URL:    "https://example.com/cadastro",
		Events: []models.AutofillEvent{{Type: "set", Field: "cep", Value: "01001000"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AutofillResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "01001-000", resp.Forms[0].Values[models.FieldCEP])

	w, env = serve(t, autofillRouter(fakeLoader{err: errors.New("connection refused")}), http.MethodPost, "/autofill/url",
		models.AutofillURLRequest{URL: "https://example.com/cadastro"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, models.ErrorCodeLookupFailed, env.Error.Code)

	w, _ = serve(t, autofillRouter(nil), http.MethodPost, "/autofill/url",
		models.AutofillURLRequest{URL: "https://example.com/cadastro"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func recordsRouter() *gin.Engine {
	h := NewRecordsHandler(records.NewRepository(records.NewMemoryStorage(), logger.Discard()), logger.Discard())
	r := gin.New()
	r.GET("/records", h.ListRecords)
	r.POST("/records", h.CreateRecord)
	return r
}

func TestRecords_CreateAndList(t *testing.T) {
	router := recordsRouter()

	w, env := serve(t, router, http.MethodPost, "/records", models.RecordRequest{
		CNPJ:        "11222333000181",
		RazaoSocial: "EMPRESA EXEMPLO LTDA",
		CEP:         "01001000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec records.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "11.222.333/0001-81", rec.CNPJ)
	assert.Equal(t, "01001-000", rec.CEP)

	w, env = serve(t, router, http.MethodGet, "/records", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Records []records.Record `json:"records"`
		Total   int              `json:"total"`
		NextID  int64            `json:"next_id"`
		Storage string           `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, int64(2), list.NextID)
	assert.Equal(t, "EMPRESA EXEMPLO LTDA", list.Records[0].RazaoSocial)
}

func TestRecords_RejectsInvalidCNPJ(t *testing.T) {
	w, env := serve(t, recordsRouter(), http.MethodPost, "/records", models.RecordRequest{CNPJ: "1122"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrorCodeInvalidCNPJ, env.Error.Code)
}

func TestCacheHandler(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(nil, time.Minute, logger.Discard())
	h := NewCacheHandler(cache, logger.Discard())
	router := gin.New()
	router.GET("/cache/stats", h.GetStats)
	router.DELETE("/cache/clear", h.Clear)
	router.DELETE("/cache/:kind/:code", h.Delete)

	require.NoError(t, cache.Set(ctx, "cep:01001000", "{}"))
	require.NoError(t, cache.Set(ctx, "cnpj:11222333000181", "{}"))

	w, _ := serve(t, router, http.MethodDelete, "/cache/cep/01001-000", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(t, router, http.MethodDelete, "/cache/cep/01001000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := serve(t, router, http.MethodDelete, "/cache/cpf/12345678901", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrorCodeInvalidRequest, env.Error.Code)

	w, env = serve(t, router, http.MethodDelete, "/cache/cnpj/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrorCodeInvalidCNPJ, env.Error.Code)

	w, _ = serve(t, router, http.MethodGet, "/cache/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(t, router, http.MethodDelete, "/cache/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	exists, err := cache.Exists(ctx, "cnpj:11222333000181")
	require.NoError(t, err)
	assert.False(t, exists)
}

type staticHealth map[string]interface{}

func (s staticHealth) Health() map[string]interface{} { return s }

func TestHealthHandler(t *testing.T) {
	healthy := staticHealth{
		"cep":     map[string]interface{}{"status": "healthy"},
		"cnpj":    map[string]interface{}{"status": "healthy"},
		"records": map[string]interface{}{"status": "healthy"},
		"redis":   map[string]interface{}{"status": "disabled"},
	}
	unhealthy := staticHealth{
		"cep":   map[string]interface{}{"status": "healthy"},
		"cnpj":  map[string]interface{}{"status": "healthy"},
		"redis": map[string]interface{}{"status": "unhealthy", "error": "connection refused"},
	}

	route := func(checker HealthChecker) *gin.Engine {
		h := NewHealthHandler(checker, logger.Discard())
		r := gin.New()
		r.GET("/health", h.GetHealth)
		r.GET("/health/ready", h.GetReadiness)
		r.GET("/health/live", h.GetLiveness)
		return r
	}

	w, _ := serve(t, route(healthy), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.Equal(t, "disabled", health.Services["redis"].Status)

	w, _ = serve(t, route(healthy), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(t, route(unhealthy), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "connection refused", health.Services["redis"].Error)

	// records missing
	w, _ = serve(t, route(unhealthy), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = serve(t, route(unhealthy), http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandler_Stats(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(nil, time.Minute, logger.Discard())
	require.NoError(t, cache.Set(ctx, "cep:01001000", "{}"))
	_, _ = cache.Get(ctx, "cep:01001000")
	_, _ = cache.Get(ctx, "cep:99999999")

	limiter := staticStats{"active_clients": 3}
	h := NewMetricsHandler(cache, nil, limiter, logger.Discard())
	router := gin.New()
	router.GET("/stats", h.GetStats)

	w, env := serve(t, router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Cache     map[string]interface{} `json:"cache"`
		Browser   map[string]interface{} `json:"browser"`
		RateLimit map[string]interface{} `json:"rate_limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 50.0, stats.Cache["hit_rate"])
	assert.Equal(t, "disabled", stats.Browser["status"])
	assert.Equal(t, 3.0, stats.RateLimit["active_clients"])
}

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }
