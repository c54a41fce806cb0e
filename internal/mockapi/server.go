// Package mockapi is a local stand-in for the AMIE backend. It implements
// the same HTTP surface (upload, status, record, history, retry, delete)
// with an in-memory store and a scripted status progression, so the client
// and the TUI can be exercised without the real Azure deployment.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"amie/internal/pipeline"
)

// timeline is the scripted happy-path status progression.
var timeline = []pipeline.Status{
	pipeline.StatusQueued,
	pipeline.StatusClassifying,
	pipeline.StatusClassified,
	pipeline.StatusAnalyzing,
	pipeline.StatusAssessed,
	pipeline.StatusCompleted,
}

// Server is the mock backend.
type Server struct {
	code    string
	step    time.Duration
	failPct int

	mu       sync.Mutex
	requests map[string]*request
	order    []string

	router chi.Router
	http   *http.Server
}

type request struct {
	ID         string
	Filename   string
	UploadedAt string
	Status     pipeline.Status
	IDCAOutput string
	NAAOutput  string
	AAOutput   string
}

// Option configures the Server.
type Option func(*Server)

// WithCode requires the given access code on every request.
func WithCode(code string) Option {
	return func(s *Server) { s.code = code }
}

// WithStep sets the delay between scripted status transitions.
func WithStep(d time.Duration) Option {
	return func(s *Server) { s.step = d }
}

// WithFailurePercent makes roughly pct percent of uploads fail during
// classification, for exercising the failure and retry paths.
func WithFailurePercent(pct int) Option {
	return func(s *Server) { s.failPct = pct }
}

// New creates a mock backend server.
func New(opts ...Option) *Server {
	s := &Server{
		step:     3 * time.Second,
		requests: make(map[string]*request),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(s.auth)

	r.Post("/upload", s.handleUpload)
	r.Get("/requests", s.handleList)
	r.Get("/requests/{id}", s.handleGet)
	r.Delete("/requests/{id}", s.handleDelete)
	r.Get("/requests/{id}/status", s.handleStatus)
	r.Post("/requests/{id}/retry", s.handleRetry)

	s.router = r
	return s
}

// Handler returns the HTTP handler, for mounting under httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the given port (non-blocking).
func (s *Server) Start(port int) error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Error("mock backend stopped", zap.Error(err))
		}
	}()
	zap.L().Info("mock backend listening", zap.Int("port", port))
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// auth rejects requests missing the configured access code.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.code != "" && r.URL.Query().Get("code") != s.code {
			http.Error(w, "invalid or missing access code", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided.", http.StatusBadRequest)
		return
	}

	req := &request{
		ID:         uuid.NewString(),
		Filename:   header.Filename,
		UploadedAt: time.Now().UTC().Format("2006-01-02T15:04:05"),
		Status:     pipeline.StatusUploaded,
	}

	s.mu.Lock()
	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)
	s.mu.Unlock()

	fail := s.failPct > 0 && rand.Intn(100) < s.failPct
	go s.advance(req.ID, fail)

	writeJSON(w, map[string]string{
		"request_id": req.ID,
		"filename":   req.Filename,
		"message":    "Upload successful!",
	})
}

// advance walks a request along the scripted timeline. If fail is set the
// run stops with a failed status during classification.
func (s *Server) advance(id string, fail bool) {
	for _, status := range timeline {
		time.Sleep(s.step)

		s.mu.Lock()
		req, ok := s.requests[id]
		if !ok || req.Status == pipeline.StatusDeleted {
			s.mu.Unlock()
			return
		}
		if fail && status == pipeline.StatusClassified {
			req.Status = pipeline.StatusFailed
			s.mu.Unlock()
			return
		}
		req.Status = status
		if status == pipeline.StatusCompleted {
			fillOutputs(req)
		}
		s.mu.Unlock()
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]string, 0, len(s.order))
	for _, id := range s.order {
		req := s.requests[id]
		out = append(out, map[string]string{
			"request_id":  req.ID,
			"filename":    req.Filename,
			"status":      string(req.Status),
			"uploaded_at": req.UploadedAt,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	req, ok := s.requests[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{
		"PartitionKey": "AMIE",
		"RowKey":       req.ID,
		"filename":     req.Filename,
		"status":       string(req.Status),
		"uploaded_at":  req.UploadedAt,
		"idca_output":  req.IDCAOutput,
		"naa_output":   req.NAAOutput,
		"aa_output":    req.AAOutput,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	req, ok := s.requests[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": string(req.Status)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	req, ok := s.requests[id]
	if ok {
		req.Status = pipeline.StatusDeleted
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"message": "Request " + id + " marked as deleted"})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	req, ok := s.requests[id]
	var prev pipeline.Status
	if ok {
		prev = req.Status
		req.Status = pipeline.StatusRetrying
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}

	// Retried runs always succeed.
	go s.advance(id, false)

	writeJSON(w, map[string]string{
		"message":         "Retry initiated for request " + id,
		"previous_status": string(prev),
		"new_status":      string(pipeline.StatusRetrying),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("mock backend: encode response", zap.Error(err))
	}
}
