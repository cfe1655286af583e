package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/document"
	"codeberg.org/snonux/mdtranslate/internal/processor"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

type decodedResponse struct {
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
	Message   string         `json:"message"`
	Code      int            `json:"code"`
	RequestID string         `json:"request_id"`
}

func newTestServer(t *testing.T, backend cache.Backend) http.Handler {
	t.Helper()
	cfg := processor.DefaultConfig()
	cfg.ShowProgress = false
	p := processor.NewProcessor(translation.NewStubProvider(), backend, cfg, processor.WithLogger(zerolog.Nop()))
	return NewServer(p, zerolog.Nop(), Options{}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, decodedResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp decodedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, cache.NewMemoryCache())
	rec, resp := do(t, h, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "mdtranslate", resp.Data["service"])
	assert.NotEmpty(t, resp.Data["version"])
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	h := newTestServer(t, nil)

	rec, resp := do(t, h, http.MethodGet, "/api/v1/health", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, rec.Header().Get("X-Request-Id"), resp.RequestID)

	rec, resp = do(t, h, http.MethodGet, "/api/v1/cache/stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), resp.RequestID)
}

func TestTranslateMarkdown(t *testing.T) {
	h := newTestServer(t, cache.NewMemoryCache())
	rec, resp := do(t, h, http.MethodPost, "/api/v1/translate",
		`{"markdown":"# Hello\n\nWorld\n\n`+"```go\\nx := 1\\n```"+`"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "markdown", resp.Data["format"])
	assert.Equal(t, "# [T:Hello]\n\n[T:World]\n\n```go\nx := 1\n```\n", resp.Data["translation"])
}

func TestTranslateHTML(t *testing.T) {
	h := newTestServer(t, nil)
	rec, resp := do(t, h, http.MethodPost, "/api/v1/translate",
		`{"markdown":"Hello","format":"html","title":"Greeting"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out, _ := resp.Data["translation"].(string)
	assert.Contains(t, out, "<title>Greeting</title>")
	assert.Contains(t, out, "[T:Hello]")
}

func TestTranslateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing markdown", `{}`, "body"},
		{"wrong type", `{"markdown":42}`, "markdown"},
		{"bad format", `{"markdown":"x","format":"pdf"}`, "format"},
		{"unknown field", `{"markdown":"x","extra":true}`, "body"},
		{"malformed", `{"markdown":`, "body"},
	}

	h := newTestServer(t, cache.NewMemoryCache())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodPost, "/api/v1/translate", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "fail", resp.Status)
			assert.Equal(t, "Validation failed", resp.Message)

			fields, ok := resp.Data["validation_errors"].(map[string]any)
			require.True(t, ok, "validation_errors missing: %s", rec.Body.String())
			assert.Contains(t, fields, tt.field)
		})
	}
}

type fakeTranslator struct {
	err error
}

func (f fakeTranslator) Render(ctx context.Context, src, title, format string) (string, error) {
	return "", f.err
}

func (f fakeTranslator) CacheStats() (cache.Stats, bool) {
	return cache.Stats{}, true
}

func (f fakeTranslator) ClearCache() error {
	return f.err
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"segmentation", document.ErrSegmentation, http.StatusUnprocessableEntity, "fail"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewServer(fakeTranslator{err: tt.err}, zerolog.Nop(), Options{}).Handler()
			rec, resp := do(t, h, http.MethodPost, "/api/v1/translate", `{"markdown":"x"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	backend := cache.NewMemoryCache()
	h := newTestServer(t, backend)

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodPost, "/api/v1/translate", `{"markdown":"Hello"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, resp := do(t, h, http.MethodGet, "/api/v1/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats, ok := resp.Data["stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, stats["total_requests"])
	assert.EqualValues(t, 1, stats["cache_hits"])
	assert.EqualValues(t, 1, stats["cache_misses"])
	assert.EqualValues(t, 50, resp.Data["hit_rate"])

	rec, resp = do(t, h, http.MethodDelete, "/api/v1/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp.Data["cleared"])
	assert.Equal(t, cache.Stats{}, backend.Stats())
}

func TestCacheDisabled(t *testing.T) {
	h := newTestServer(t, nil)

	rec, resp := do(t, h, http.MethodGet, "/api/v1/cache/stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", resp.Status)

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/cache", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, nil)
	rec, resp := do(t, h, http.MethodGet, "/api/v1/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", resp.Status)
}

func TestBodyLimit(t *testing.T) {
	cfg := processor.DefaultConfig()
	cfg.ShowProgress = false
	p := processor.NewProcessor(translation.NewStubProvider(), nil, cfg)
	h := NewServer(p, zerolog.Nop(), Options{BodyLimit: "1K"}).Handler()

	body := `{"markdown":"` + strings.Repeat("a", 2048) + `"}`
	rec, resp := do(t, h, http.MethodPost, "/api/v1/translate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "fail", resp.Status)
}
