// Package server provides the HTTP REST API over the resume store: authoring,
// import, export, validation and PDF rendering.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/europass-builder/internal/db"
	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/render"
	"github.com/jonathan/europass-builder/internal/schemas"
	"github.com/jonathan/europass-builder/internal/store"
)

// Server is the HTTP server around one resume store.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	archive    *db.Archive
	renderer   *render.Renderer
	exporter   europass.Exporter
	schemaPath string
	verbose    bool
}

// Config holds server configuration.
type Config struct {
	Port        int
	Capacity    int    // Resume store capacity, 0 means the default
	DatabaseURL string // Optional export archive
	EditorURL   string // Optional override of the render editor
	Verbose     bool
}

// New creates a server instance. The export archive is only connected when a
// database URL is configured.
func New(cfg Config) (*Server, error) {
	s := &Server{
		store:    store.New(cfg.Capacity),
		renderer: &render.Renderer{EditorURL: cfg.EditorURL, Verbose: cfg.Verbose},
		verbose:  cfg.Verbose,
	}

	if cfg.DatabaseURL != "" {
		archive, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect export archive: %w", err)
		}
		s.archive = archive
	}

	s.schemaPath = schemas.ResolveSchemaPath(schemas.ResumeSchemaPath)
	if s.schemaPath == "" {
		log.Printf("[SERVER] authoring schema not found, schema validation disabled")
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for render sessions
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("POST /resumes/import", s.handleImportResume)
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("PATCH /resumes/{id}", s.handleUpdateResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	mux.HandleFunc("GET /resumes/{id}/export", s.handleExportResume)
	mux.HandleFunc("POST /resumes/{id}/validate", s.handleValidateResume)
	mux.HandleFunc("POST /resumes/{id}/render", s.handleRenderResume)

	mux.HandleFunc("GET /exports", s.handleListExports)

	return mux
}

// Handler exposes the routed handler without middleware, for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[SERVER] serve error: %v", err)
		}
	}()

	<-stop
	log.Println("[SERVER] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.archive != nil {
		s.archive.Close()
	}
	log.Println("[SERVER] stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] error encoding JSON response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failWith maps a typed error onto its HTTP status.
func (s *Server) failWith(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
