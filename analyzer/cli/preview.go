package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/server"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/workspace"
)

func newPreviewCommand(a *app) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Serve a live HTML preview of a template",
		Long: `Preview serves the dialog preview over HTTP and re-renders it whenever the file
is saved. Diagnostics are available at /api/diagnostics, the rendered content
at /api/content and the language picker at /api/languages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), a, lang, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&lang, "lang", "l", "", "language to preview first")
	flags.String("addr", "", "listen address")
	flags.Duration("debounce", 0, "quiet period before the preview is re-rendered")
	flags.String("locator", "", "diagnostic locator: heuristic or span")
	return cmd
}

func runPreview(ctx context.Context, a *app, lang, path string) error {
	abs, err := absPath(path)
	if err != nil {
		return err
	}
	loc, err := a.locator()
	if err != nil {
		return err
	}

	session := workspace.NewSession(workspace.SessionConfig{
		URI:      fileURI(abs),
		Pipeline: render.NewPipeline(a.cfg.Tokens, render.HTMLTarget{}),
		Debounce: a.cfg.Preview.Debounce,
		Language: lang,
		OnRender: func(c render.Content) {
			a.log.Info().Str("language", c.Language).Str("reason", string(c.Reason)).Msg("preview updated")
		},
		Logger: a.log,
	})
	defer session.Close()

	docs := workspace.NewDocuments(loc, a.log)
	srv := server.New(server.Config{Session: session, Documents: docs, Logger: a.log})
	w := newFileWatcher(abs, docs, session, a.log)

	fmt.Fprintf(a.errOut, "previewing %s at http://%s/\n", path, a.cfg.Preview.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, a.cfg.Preview.Addr) })
	g.Go(func() error { return w.run(gctx) })
	return g.Wait()
}
