package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"auto_blog_article_optimizer/optimizer"
)

// 单次优化会话的服务端时限。模型调用带重试，给足余量。
const sessionTimeout = 5 * time.Minute

type Server struct {
	opt    *optimizer.Optimizer
	store  *sessionStore
	logger *log.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]optimizer.Result
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]optimizer.Result)}
}

func (s *sessionStore) set(id string, result optimizer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = result
}

func (s *sessionStore) get(id string) (optimizer.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.sessions[id]
	return result, ok
}

func New(opt *optimizer.Optimizer, logger *log.Logger) (*Server, error) {
	if opt == nil {
		return nil, errors.New("optimizer required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{opt: opt, store: newStore(), logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)
	mux.HandleFunc("/api/sessions/", s.handleSessionByID)
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type sessionCreateReq struct {
	Text        string   `json:"text"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Reference   string   `json:"reference"`
}

type sessionResp struct {
	SessionID string           `json:"session_id"`
	Result    optimizer.Result `json:"result"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req sessionCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sessionTimeout)
	defer cancel()

	initial := optimizer.Draft{
		Text:        req.Text,
		Title:       req.Title,
		Description: req.Description,
	}
	result, err := s.opt.Run(ctx, initial, req.Keywords, req.Reference)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	result.Draft = s.opt.RefineMetadata(ctx, result.Draft, req.Keywords)

	id := newSessionID()
	s.store.set(id, result)
	writeJSON(w, sessionResp{SessionID: id, Result: result})
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result, ok := s.store.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, sessionResp{SessionID: id, Result: result})
}

// --- Helpers ---

func newSessionID() string {
	return strings.ReplaceAll(time.Now().Format("20060102T150405.000000000"), ".", "")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func logMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("[server] %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
