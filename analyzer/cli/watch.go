package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/workspace"
)

// fileWatcher feeds every saved version of one template file to a
// document store and a preview session.
type fileWatcher struct {
	path    string
	uri     string
	docs    *workspace.Documents
	session *workspace.Session
	log     zerolog.Logger

	// onSnapshot, when set, receives the diagnostics of every version.
	onSnapshot func(workspace.Snapshot)

	version int
}

func newFileWatcher(path string, docs *workspace.Documents, session *workspace.Session, log zerolog.Logger) *fileWatcher {
	return &fileWatcher{
		path:    path,
		uri:     session.URI(),
		docs:    docs,
		session: session,
		log:     log.With().Str("component", "watcher").Str("path", path).Logger(),
	}
}

// load validates the file immediately and schedules a preview render.
// The first load renders without waiting for the debounce period.
func (w *fileWatcher) load() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("read template")
		return
	}
	text := string(raw)

	w.version++
	snap := w.docs.Update(w.uri, workspace.TemplateLanguageID, w.version, text)
	if w.onSnapshot != nil {
		w.onSnapshot(snap)
	}

	if w.version == 1 {
		if _, err := w.session.Render(text); err != nil {
			w.log.Warn().Err(err).Msg("initial render")
		}
		return
	}
	w.session.Schedule(text)
}

// run watches the file's directory until ctx is done. Editors often save
// by renaming a temporary file over the original, so events are matched
// by name rather than by watching the file itself.
func (w *fileWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.load()
	w.log.Info().Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.log.Debug().Str("op", ev.Op.String()).Msg("template changed")
				w.load()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// syncWriter serializes writes from the watcher and the render timer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type watchOptions struct {
	lang  string
	width int
}

func newWatchCommand(a *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-validate and redraw the preview whenever the file is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), a, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.lang, "lang", "l", "", "language to preview")
	flags.IntVar(&opts.width, "width", 0, "dialog width (0 fits the terminal)")
	flags.Duration("debounce", 0, "quiet period before the preview is redrawn")
	flags.String("locator", "", "diagnostic locator: heuristic or span")
	return cmd
}

func runWatch(ctx context.Context, a *app, opts watchOptions, path string) error {
	abs, err := absPath(path)
	if err != nil {
		return err
	}
	loc, err := a.locator()
	if err != nil {
		return err
	}

	width := opts.width
	if width == 0 {
		width = terminalWidth(a.out)
	}
	out := &syncWriter{w: a.out}
	r := lipgloss.NewRenderer(a.out)
	view := render.NewTerminalView(r, width)

	session := workspace.NewSession(workspace.SessionConfig{
		URI:      fileURI(abs),
		Pipeline: render.NewPipeline(a.cfg.Tokens, render.NewTerminalTarget(r)),
		Debounce: a.cfg.Preview.Debounce,
		Language: opts.lang,
		OnRender: func(c render.Content) {
			fmt.Fprintf(out, "\n%s\n%s\n", time.Now().Format(time.TimeOnly), view.Render(c))
		},
		Logger: a.log,
	})
	defer session.Close()

	w := newFileWatcher(abs, workspace.NewDocuments(loc, a.log), session, a.log)
	w.onSnapshot = func(s workspace.Snapshot) {
		printSnapshot(out, path, s)
	}
	return w.run(ctx)
}

func printSnapshot(w io.Writer, path string, s workspace.Snapshot) {
	if s.Outcome == workspace.OutcomeKept {
		fmt.Fprintf(w, "%s: not valid JSON, keeping previous results: %v\n", path, s.Err)
		return
	}
	for _, d := range s.Diagnostics {
		fmt.Fprintf(w, "%s:%d:%d: error: %s [%s]\n", path, d.Line+1, d.ColumnStart+1, d.Message, d.Code)
	}
	switch {
	case s.Err != nil:
		fmt.Fprintf(w, "%s: %v\n", path, s.Err)
	case len(s.Diagnostics) == 0:
		fmt.Fprintf(w, "%s: no problems found\n", path)
	}
}
