// Package web serves the interactive settings UI for the registered generators.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tcg/internal/generator"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders generator settings pages and runs generators on submit.
type Server struct {
	registry *generator.Registry
	mux      *http.ServeMux
	tmpl     *template.Template
}

// NewServer creates a Server over the generators in registry.
func NewServer(registry *generator.Registry) *Server {
	s := &Server{
		registry: registry,
		mux:      http.NewServeMux(),
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /generators/{name}", wrap(s.handleSettings))
	s.mux.HandleFunc("POST /generators/{name}", wrap(s.handleSubmit))
	s.mux.HandleFunc("GET /api/generators", s.handleList)
	s.mux.HandleFunc("POST /api/generators/{name}/run", wrap(s.handleRun))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve handles requests on ln until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("Settings UI listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Settings UI shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
