// Package server serves a live HTML preview of one template document
// together with a small JSON API over its preview session and diagnostics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abiiranathan/rex"
	"github.com/rs/zerolog"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/workspace"
)

// Config wires a Server to the state it exposes.
type Config struct {
	// Session is the preview session shown at "/". Its pipeline must render
	// for render.HTMLTarget.
	Session *workspace.Session
	// Documents holds the diagnostics served at /api/diagnostics.
	Documents *workspace.Documents
	Logger    zerolog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	session *workspace.Session
	docs    *workspace.Documents
	log     zerolog.Logger
	router  *rex.Router
}

// New returns a Server with its routes registered.
func New(cfg Config) *Server {
	s := &Server{
		session: cfg.Session,
		docs:    cfg.Documents,
		log:     cfg.Logger.With().Str("component", "server").Logger(),
		router:  rex.NewRouter(),
	}

	s.router.GET("/", s.handlePage)
	s.router.GET("/api/content", s.handleContent)
	s.router.GET("/api/diagnostics", s.handleDiagnostics)
	s.router.GET("/api/languages", s.handleLanguages)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("session", s.session.ID()).Msg("preview server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("preview server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// waitingPage is shown until the document first renders.
const waitingPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Dialog Preview</title></head>
<body><p>Waiting for a valid template.</p></body></html>`

// handlePage renders the preview page. A lang query parameter switches
// the session's language first.
func (s *Server) handlePage(c *rex.Context) error {
	if lang := c.Query("lang"); lang != "" {
		if _, err := s.session.SwitchLanguage(lang); err != nil {
			s.log.Debug().Err(err).Str("lang", lang).Msg("language switch before first render")
		}
	}

	content, ok := s.session.Content()
	if !ok {
		return c.HTML(waitingPage)
	}

	page, err := render.PageHTML(render.Page{
		Content: content,
		Choices: s.session.Choices(),
	})
	if err != nil {
		return err
	}
	return c.HTML(page)
}

func (s *Server) handleContent(c *rex.Context) error {
	content, ok := s.session.Content()
	return c.JSON(rex.Map{
		"session": s.session.ID(),
		"uri":     s.session.URI(),
		"ready":   ok,
		"content": content,
	})
}

func (s *Server) handleDiagnostics(c *rex.Context) error {
	diags, _ := s.docs.Diagnostics(s.session.URI())
	return c.JSON(rex.Map{
		"uri":         s.session.URI(),
		"diagnostics": diags,
	})
}

func (s *Server) handleLanguages(c *rex.Context) error {
	return c.JSON(rex.Map{
		"current":   s.session.Current(),
		"languages": s.session.Choices(),
	})
}
