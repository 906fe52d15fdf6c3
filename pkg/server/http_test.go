package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPSuggest(t *testing.T) {
	h := NewHTTPServer(testEngine(t), testConfig(t)).Handler()

	rec := do(t, h, http.MethodPost, "/suggest", `{"text": "i love ", "top_k": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res suggest.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "i love", res.Corrected)
	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, "pizza", res.Suggestions[0].Word)
}

func TestHTTPSuggestErrors(t *testing.T) {
	h := NewHTTPServer(testEngine(t), testConfig(t)).Handler()

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"bad json", http.MethodPost, `{"text":`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"too long", http.MethodPost, `{"text": "` + strings.Repeat("a", 30) + `"}`, http.StatusRequestEntityTooLarge},
		{"oversized body", http.MethodPost, `{"text": "` + strings.Repeat("a", 1<<20) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, "/suggest", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxBodyBytes(t *testing.T) {
	assert.Equal(t, int64(20*6+bodyOverhead), maxBodyBytes(testConfig(t).Server))
	assert.Equal(t, int64(1<<20), maxBodyBytes(config.ServerConfig{}))
}

func TestHTTPWordsOversizedBody(t *testing.T) {
	h := NewHTTPServer(testEngine(t), testConfig(t)).Handler()
	rec := do(t, h, http.MethodPost, "/words", `{"word": "`+strings.Repeat("a", 1<<16)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHTTPUnavailable(t *testing.T) {
	h := NewHTTPServer(suggest.NewEngine(nil, nil, suggest.DefaultWeights()), testConfig(t)).Handler()

	rec := do(t, h, http.MethodPost, "/suggest", `{"text": "hi "}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.False(t, health.ModelLoaded)
}

func TestHTTPHealth(t *testing.T) {
	h := NewHTTPServer(testEngine(t), testConfig(t)).Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.ModelLoaded)
	assert.Equal(t, 14, health.Stats["tokens"])
}

func TestHTTPWords(t *testing.T) {
	h := NewHTTPServer(testEngine(t), testConfig(t)).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/words", `{"word": "bbolt"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/words", `{"word": ""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/words", `nope`).Code)
}
