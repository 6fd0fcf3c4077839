package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
)

// SessionConfig configures a preview Session.
type SessionConfig struct {
	// URI identifies the previewed document.
	URI string
	// Pipeline renders the content. Nil means an HTML pipeline with the
	// default token values.
	Pipeline *render.Pipeline
	// Debounce is the quiet period of Schedule. Zero means DefaultDebounce.
	Debounce time.Duration
	// Language is the initially requested language. Empty means none.
	Language string
	// OnRender, when set, is called after every successful render, outside
	// the session lock.
	OnRender func(render.Content)
	Logger   zerolog.Logger
}

// Session is the state of one open preview: the language it shows, the
// last content it rendered and its pending re-render.
//
// A render that cannot parse the text keeps the last good content, so the
// preview does not flicker while the document is mid-edit.
//
// Thread-safety: all methods are safe for concurrent use.
type Session struct {
	id        string
	uri       string
	pipeline  *render.Pipeline
	debouncer *Debouncer
	onRender  func(render.Content)
	log       zerolog.Logger

	mu       sync.Mutex
	current  string
	text     string
	tmpl     *dialog.Template
	content  render.Content
	rendered bool
}

// NewSession returns a Session for cfg.
func NewSession(cfg SessionConfig) *Session {
	p := cfg.Pipeline
	if p == nil {
		p = render.NewPipeline(render.DefaultTokenValues(), nil)
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		uri:       cfg.URI,
		pipeline:  p,
		debouncer: NewDebouncer(cfg.Debounce),
		onRender:  cfg.OnRender,
		log:       cfg.Logger.With().Str("session", id).Str("uri", cfg.URI).Logger(),
		current:   cfg.Language,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// URI returns the previewed document's URI.
func (s *Session) URI() string { return s.uri }

// Current returns the selected language. After a render it is the
// language actually shown, which may differ from the one requested.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Content returns the last good content. The second result is false until
// the first successful render.
func (s *Session) Content() (render.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content, s.rendered
}

// Template returns the last template that rendered successfully.
func (s *Session) Template() *dialog.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tmpl
}

// Choices returns the language picker entries for the last good template.
func (s *Session) Choices() []languages.Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tmpl == nil {
		return nil
	}
	return languages.PreviewChoices(s.tmpl.Languages(), s.current, s.tmpl.DefaultLanguage)
}

// Render renders text immediately. On failure the last good content is
// kept and returned along with the error.
func (s *Session) Render(text string) (render.Content, error) {
	return s.render(func() (string, error) { return text, nil })
}

// render renders the text chosen by pick. pick runs under the session
// lock, so the text it reads cannot be replaced before it is rendered.
// onRender is called after the lock is released.
func (s *Session) render(pick func() (string, error)) (render.Content, error) {
	s.mu.Lock()
	text, err := pick()
	var c render.Content
	if err == nil {
		c, err = s.renderLocked(text)
	}
	if err != nil {
		c = s.content
	}
	onRender := s.onRender
	s.mu.Unlock()

	if err != nil {
		s.log.Debug().Err(err).Msg("keeping last good preview")
		return c, err
	}
	if onRender != nil {
		onRender(c)
	}
	return c, nil
}

func (s *Session) renderLocked(text string) (render.Content, error) {
	t, err := dialog.ParseString(text)
	if err != nil && !dialog.IsShape(err) {
		return render.Content{}, err
	}
	c, err := s.pipeline.Render(t, s.current)
	if err != nil {
		return render.Content{}, err
	}

	s.text = text
	s.tmpl = t
	s.current = c.Language
	s.content = c
	s.rendered = true
	return c, nil
}

// Schedule renders text once the edits stop for the debounce period. Only
// the text of the latest call is rendered.
func (s *Session) Schedule(text string) {
	s.debouncer.Trigger(func() {
		_, _ = s.Render(text)
	})
}

// SwitchLanguage selects code and re-renders the last good text. The
// language that ends up shown is returned; it falls back like any other
// render when code has no variant.
func (s *Session) SwitchLanguage(code string) (render.Content, error) {
	return s.render(func() (string, error) {
		s.current = code
		if !s.rendered {
			return "", dialog.RequireVariants(nil)
		}
		return s.text, nil
	})
}

// Close cancels any pending re-render.
func (s *Session) Close() {
	s.debouncer.Stop()
}
