package main

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daps/dapsd/pkg/config"
	"github.com/daps/dapsd/pkg/directory"
	"github.com/daps/dapsd/pkg/registry"
	"github.com/daps/dapsd/pkg/telemetry"
)

type server struct {
	cfg  config.ServerConfig
	docs *directory.Service
}

func newServer(cfg config.ServerConfig) *server {
	return &server{
		cfg:  cfg,
		docs: directory.New(registry.New(), cfg.HostSuffix),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := telemetry.InitTracer(ctx, "dapsd")
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracer shutdown error: %v", err)
		}
	}()

	srv := newServer(cfg)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("dapsd shutdown error: %v", err)
		}
	}()

	log.Printf("dapsd listening on %s", cfg.ListenAddr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("dapsd listen failed: %v", err)
	}

	<-ctx.Done()
	log.Println("dapsd stopped")
}

func (s *server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(timeoutMiddleware(s.cfg.RequestTimeout))

	router.Get("/healthz", healthzHandler)
	router.Post("/register/dir", s.handleRegisterDir)
	router.Get("/registry/projects", s.handleListProjects)
	router.Get("/{project}/*", s.handleServeDoc)

	return router
}

func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// registerRequest is the registration wire format; field names are
// hyphenated at the transport boundary.
type registerRequest struct {
	Language    string `json:"language"`
	ProjectName string `json:"project-name"`
	Directory   string `json:"directory"`
}

// projectReceipt acknowledges a registration and doubles as the listing
// element for the diagnostics endpoint.
type projectReceipt struct {
	ID           string    `json:"id"`
	Language     string    `json:"language"`
	ProjectName  string    `json:"project-name"`
	Directory    string    `json:"directory"`
	RegisteredAt time.Time `json:"registered-at"`
}

func receiptFor(p registry.Project) projectReceipt {
	return projectReceipt{
		ID:           p.ID,
		Language:     p.Language,
		ProjectName:  p.Name,
		Directory:    p.Directory,
		RegisteredAt: p.RegisteredAt,
	}
}

func (s *server) handleRegisterDir(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid registration body", http.StatusBadRequest)
		return
	}

	p, err := s.docs.RegisterProject(r.Context(), req.Language, req.ProjectName, req.Directory)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidRegistration) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	log.Printf("registered %s with language %s located at %s", p.Name, p.Language, p.Directory)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(receiptFor(p))
}

func (s *server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.docs.Projects()
	receipts := make([]projectReceipt, 0, len(projects))
	for _, p := range projects {
		receipts = append(receipts, receiptFor(p))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(receipts)
}

func (s *server) handleServeDoc(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	requested := chi.URLParam(r, "*")

	path, err := s.docs.ResolveRequest(r.Context(), r.Host, project, requested)
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}

	s.serveResolvedFile(w, r, path)
}

func (s *server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directory.ErrBadAddressing):
		http.Error(w, "cannot derive language from host", http.StatusBadRequest)
	case errors.Is(err, directory.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, directory.ErrForbidden):
		// Traversal attempts do not happen by accident; leave a trace.
		log.Printf("forbidden path from %s: host=%s path=%s", r.RemoteAddr, r.Host, r.URL.Path)
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *server) serveResolvedFile(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		log.Printf("open %s: %v", path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("stat %s: %v", path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
