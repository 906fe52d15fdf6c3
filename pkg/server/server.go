package server

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for suggestions
type Server struct {
	engine *suggest.Engine
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	log    *log.Logger

	mu        sync.RWMutex
	limits    config.ServerConfig
	userWords string
}

// NewServer creates an IPC server reading requests from r and writing responses to w.
func NewServer(engine *suggest.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		engine:    engine,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
		log:       logger.New("ipc"),
		limits:    cfg.Server,
		userWords: cfg.Spell.UserWords,
	}
}

// UpdateConfig swaps the request limits of a running server.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = cfg.Server
	s.userWords = cfg.Spell.UserWords
	s.log.Debugf("Limits updated: max_limit=%d default_limit=%d max_input=%d",
		cfg.Server.MaxLimit, cfg.Server.DefaultLimit, cfg.Server.MaxInput)
}

// Start announces readiness and serves requests until the input stream ends.
func (s *Server) Start() error {
	s.log.Debug("Starting IPC server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping")
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		if err := s.handle(raw); err != nil {
			return err
		}
	}
}

func (s *Server) handle(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Warnf("Malformed request: %v", err)
		return s.sendError("", "malformed request", 400)
	}

	switch strings.ToLower(req.Action) {
	case "", ActionSuggest:
		return s.handleSuggest(req)
	case ActionAddWord:
		return s.handleAddWord(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: s.engine.Stats()})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSuggest(req Request) error {
	s.mu.RLock()
	limits := s.limits
	s.mu.RUnlock()

	if limits.MaxInput > 0 && utf8.RuneCountInString(req.Text) > limits.MaxInput {
		return s.sendError(req.ID, fmt.Sprintf("text exceeds maximum length of %d characters", limits.MaxInput), 413)
	}

	start := time.Now()
	result, err := s.engine.GetSuggestions(req.Text, clampLimit(req.Limit, limits))
	if err != nil {
		if errors.Is(err, suggest.ErrNotInitialized) {
			return s.sendError(req.ID, "engine unavailable", 503)
		}
		s.log.Errorf("Suggest failed: %v", err)
		return s.sendError(req.ID, "internal error", 500)
	}
	elapsed := time.Since(start)
	s.log.Debugf("Took [ %v ] for %q", elapsed, req.Text)

	return s.send(SuggestResponse{
		ID:          req.ID,
		Corrected:   result.Corrected,
		Suggestions: result.Suggestions,
		Count:       len(result.Suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAddWord(req Request) error {
	s.mu.RLock()
	path := s.userWords
	s.mu.RUnlock()

	if err := addWord(s.engine, path, req.Word); err != nil {
		return s.sendError(req.ID, err.Error(), 400)
	}
	return s.send(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Writing response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// clampLimit applies default_limit to missing limits and caps at max_limit.
func clampLimit(limit int, limits config.ServerConfig) int {
	if limit < 1 {
		limit = limits.DefaultLimit
	}
	if limits.MaxLimit > 0 && limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}
	return limit
}

// addWord adds a single word to the engine and appends it to the user words file.
func addWord(engine *suggest.Engine, userWords, word string) error {
	word = strings.TrimSpace(word)
	if word == "" || strings.ContainsAny(word, " \t\r\n") {
		return fmt.Errorf("invalid word %q", word)
	}
	engine.AddWord(word)
	if userWords == "" {
		return nil
	}
	if err := dictionary.AppendWord(userWords, word); err != nil {
		log.Warnf("Word %q added for this session only: %v", word, err)
	}
	return nil
}
