package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/config"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/pipeline"
)

const requestIDHeader = "X-Request-ID"

// Searcher runs one query through the search pipeline.
type Searcher interface {
	Kickoff(ctx context.Context, query string) pipeline.Response
}

type Server struct {
	searcher  Searcher
	lookup    lookup.Source
	cfg       config.Config
	logger    *zap.Logger
	templates map[string]*template.Template
}

// NewServer builds the HTTP surface. A nil searcher is allowed and renders
// the "system down" page for every search.
func NewServer(searcher Searcher, source lookup.Source, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		searcher:  searcher,
		lookup:    source,
		cfg:       cfg,
		logger:    logger,
		templates: loadTemplates(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/", s.home)
	r.Get("/search", s.searchPage)
	r.Get("/api/search", s.searchJSON)
	r.Get("/health", s.health)
	r.Get("/ready", s.ready)

	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSuppressRequestLog(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get(requestIDHeader)),
		)
	})
}

func shouldSuppressRequestLog(method string, path string) bool {
	if method != http.MethodGet {
		return false
	}
	switch strings.TrimSpace(path) {
	case "/health", "/ready":
		return true
	}
	return false
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home.html", nil)
}

type resultsPage struct {
	Query   string
	Results []string
	Comment string
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	resp := s.runSearch(r.Context(), query)
	s.render(w, "results.html", resultsPage{Query: query, Results: resp.Results, Comment: resp.Comment})
}

type searchResponse struct {
	Query   string   `json:"query"`
	Results []string `json:"results"`
	Comment string   `json:"comment"`
}

func (s *Server) searchJSON(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSONStatus(w, map[string]string{"error": "query parameter q is required"}, http.StatusBadRequest)
		return
	}
	resp := s.runSearch(r.Context(), query)
	writeJSONStatus(w, searchResponse{Query: query, Results: resp.Results, Comment: resp.Comment}, http.StatusOK)
}

// runSearch never fails: a missing or crashing searcher becomes a canned
// response.
func (s *Server) runSearch(ctx context.Context, query string) (resp pipeline.Response) {
	if s.searcher == nil {
		s.logger.Warn("search pipeline not initialized", zap.String("query", query))
		return pipeline.Response{Results: []string{pipeline.SystemDown}, Comment: pipeline.CommentOffline}
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("search kickoff panicked", zap.String("query", query), zap.Any("panic", rec))
			resp = pipeline.Response{Results: []string{pipeline.SystemCrashed(query)}, Comment: pipeline.CommentOffline}
		}
	}()
	resp = s.searcher.Kickoff(ctx, query)
	if len(resp.Results) == 0 {
		resp.Results = []string{pipeline.NoResults(query)}
	}
	if strings.TrimSpace(resp.Comment) == "" {
		resp.Comment = pipeline.CommentCrashed
	}
	return resp
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type subsystemStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status     string                     `json:"status"`
	Subsystems map[string]subsystemStatus `json:"subsystems"`
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	subsystems := map[string]subsystemStatus{}
	overall := http.StatusOK

	if s.searcher == nil {
		subsystems["pipeline"] = subsystemStatus{Status: "error", Error: "search pipeline not initialized"}
		overall = http.StatusServiceUnavailable
	} else {
		subsystems["pipeline"] = subsystemStatus{Status: "ok"}
	}

	if s.cfg.LLMConfigured() {
		subsystems["llm"] = subsystemStatus{Status: "ok"}
	} else {
		subsystems["llm"] = subsystemStatus{Status: "skipped"}
	}

	if pinger, ok := s.lookup.(lookup.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			subsystems["lookup"] = subsystemStatus{Status: "error", Error: err.Error()}
			overall = http.StatusServiceUnavailable
		} else {
			subsystems["lookup"] = subsystemStatus{Status: "ok"}
		}
	} else {
		subsystems["lookup"] = subsystemStatus{Status: "skipped"}
	}

	status := "ok"
	if overall != http.StatusOK {
		status = "degraded"
	}
	writeJSONStatus(w, readinessResponse{Status: status, Subsystems: subsystems}, overall)
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
	return server.ListenAndServe()
}
