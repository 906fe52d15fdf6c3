package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// SuggestBody is the JSON body of POST /suggest.
type SuggestBody struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

// WordBody is the JSON body of POST /words.
type WordBody struct {
	Word string `json:"word"`
}

// HealthBody is returned by GET /health.
type HealthBody struct {
	Status      string         `json:"status"`
	ModelLoaded bool           `json:"model_loaded"`
	Stats       map[string]int `json:"stats"`
}

// bodyOverhead covers the JSON around the text field.
const bodyOverhead = 1024

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HTTPServer serves the engine as a small JSON API.
type HTTPServer struct {
	engine *suggest.Engine
	log    *log.Logger

	mu        sync.RWMutex
	limits    config.ServerConfig
	userWords string
	httpCfg   config.HTTPConfig
}

// NewHTTPServer creates the HTTP adapter. Call ListenAndServe to start it.
func NewHTTPServer(engine *suggest.Engine, cfg *config.Config) *HTTPServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &HTTPServer{
		engine:    engine,
		log:       logger.New("http"),
		limits:    cfg.Server,
		userWords: cfg.Spell.UserWords,
		httpCfg:   cfg.HTTP,
	}
}

// UpdateConfig swaps the request limits. Listener settings need a restart.
func (s *HTTPServer) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = cfg.Server
	s.userWords = cfg.Spell.UserWords
}

// Handler returns the routes of the API.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /suggest", s.handleSuggest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /words", s.handleWords)
	return mux
}

// ListenAndServe serves on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.httpCfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.httpCfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.httpCfg.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on http://%s", s.httpCfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.httpCfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Debug("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *HTTPServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	limits := s.limits
	s.mu.RUnlock()

	var body SuggestBody
	if !s.decode(w, r, maxBodyBytes(limits), &body) {
		return
	}

	if limits.MaxInput > 0 && utf8.RuneCountInString(body.Text) > limits.MaxInput {
		s.writeError(w, fmt.Sprintf("text exceeds maximum length of %d characters", limits.MaxInput),
			http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	result, err := s.engine.GetSuggestions(body.Text, clampLimit(body.TopK, limits))
	if err != nil {
		if errors.Is(err, suggest.ErrNotInitialized) {
			s.writeError(w, "engine unavailable", http.StatusServiceUnavailable)
			return
		}
		s.log.Errorf("Suggest failed: %v", err)
		s.writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.log.Debugf("Took [ %v ] for %q", time.Since(start), body.Text)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()
	s.writeJSON(w, http.StatusOK, HealthBody{
		Status:      "ok",
		ModelLoaded: s.engine.Ready() && stats["unigrams"] > 0,
		Stats:       stats,
	})
}

func (s *HTTPServer) handleWords(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	path := s.userWords
	limits := s.limits
	s.mu.RUnlock()

	var body WordBody
	if !s.decode(w, r, maxBodyBytes(limits), &body) {
		return
	}

	if err := addWord(s.engine, path, body.Word); err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads at most limit bytes of JSON into v and answers 413 or 400 on failure.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		s.writeError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// maxBodyBytes bounds a request body by max_input, allowing six bytes per
// rune for JSON escapes.
func maxBodyBytes(limits config.ServerConfig) int64 {
	if limits.MaxInput <= 0 {
		return 1 << 20
	}
	return int64(limits.MaxInput)*6 + bodyOverhead
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, errorBody{Error: message, Status: status})
}
