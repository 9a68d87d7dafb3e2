package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := New(Config{UpstreamURL: upstreamURL})
	rl.Register(r)
	return r
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestGetNotConfigured(t *testing.T) {
	router := newTestRouter("")
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "SHEETS_URL não configurado")
}

func TestPostNotConfigured(t *testing.T) {
	router := newTestRouter("")
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", `{"week":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetRelaysEnvelopeVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"week":1,"exercise":"barras","value":10}]}`))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestGetHTMLBodyBecomes502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>Autorização necessária</body></html>"))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "HTML ou resposta vazia")
}

func TestGetHTMLContentTypeBecomes502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("página de login"))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, _ := doRequest(t, router, http.MethodGet, "/api/sheets", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetEmptyBodyBecomes502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetUpstreamErrorStatusRelayed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"error":"sem permissão"}`))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "sem permissão", body["error"])
}

func TestGetUnreachableUpstreamBecomes502(t *testing.T) {
	router := newTestRouter("http://127.0.0.1:1")
	rec, body := doRequest(t, router, http.MethodGet, "/api/sheets", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body["error"], "Não foi possível comunicar com Sheets")
}

func TestPostForwardsBodyVerbatim(t *testing.T) {
	var forwarded []byte
	var contentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success":true,"data":{"row":42}}`))
	}))
	defer upstream.Close()

	payload := `{"week":3,"exercise":"dips","value":9,"notes":"","date":"2026-03-01T09:00:00Z","mode":"overwrite","overwrite":true}`
	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.JSONEq(t, payload, string(forwarded))
	assert.Equal(t, "application/json", contentType)
}

func TestPostEmptyEnvelopeSynthesizesSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", `{"week":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestPostEnvelopeFailureRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"linha rejeitada"}`))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", `{"week":1}`)

	// Upstream 200 com success:false: o status é repassado, o envelope vira erro.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "linha rejeitada", body["error"])
}

func TestPostHTMLBodyBecomes502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html></html>"))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", `{"week":1}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body["error"], "HTML ou resposta vazia")
}

func TestPostUpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)
	rec, body := doRequest(t, router, http.MethodPost, "/api/sheets", `{"week":1}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Falha ao salvar no Sheets.", body["error"])
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter("")

	rec, body := doRequest(t, router, http.MethodGet, "/api/exercises", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 3)

	rec, body = doRequest(t, router, http.MethodGet, "/api/blocks", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok = body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 4)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter("")
	rec, body := doRequest(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
