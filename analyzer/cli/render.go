package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
)

// Output formats of the render command.
const (
	formatHTML     = "html"
	formatTerminal = "terminal"
	formatJSON     = "json"
)

type renderOptions struct {
	lang   string
	format string
	output string
	width  int
	force  bool
}

func newRenderCommand(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the dialog preview of a template",
		Long: `Render resolves the requested language (falling back to the template's default
language, then to its first variant), substitutes the sample token values and
prints the dialog as a standalone HTML page, a terminal drawing or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(a, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.lang, "lang", "l", "", "language to preview")
	flags.StringVarP(&opts.format, "format", "f", formatHTML, "output format: html, terminal or json")
	flags.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	flags.IntVar(&opts.width, "width", 0, "dialog width for terminal output (0 fits the terminal)")
	flags.BoolVar(&opts.force, "force", false, "overwrite an existing output file")
	return cmd
}

func runRender(a *app, opts renderOptions, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	t, err := dialog.Parse(raw)
	switch {
	case dialog.IsShape(err):
		a.log.Warn().Err(err).Str("path", path).Msg("rendering the fields that decoded")
	case err != nil:
		return err
	}

	var out []byte
	switch opts.format {
	case formatHTML:
		out, err = renderHTML(a, t, opts.lang)
	case formatJSON:
		out, err = renderJSON(a, t, opts.lang)
	case formatTerminal:
		out, err = renderTerminal(a, t, opts.lang, opts.width)
	default:
		return fmt.Errorf("unknown format %q (want html, terminal or json)", opts.format)
	}
	if err != nil {
		return err
	}

	a.log.Debug().Str("path", path).Str("format", opts.format).Str("lang", opts.lang).Msg("rendered")
	return writeOutput(a.out, opts.output, out, opts.force)
}

func renderHTML(a *app, t *dialog.Template, lang string) ([]byte, error) {
	c, err := render.NewPipeline(a.cfg.Tokens, render.HTMLTarget{}).Render(t, lang)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = render.WritePage(&buf, render.Page{
		Content: c,
		Choices: languages.PreviewChoices(t.Languages(), c.Language, t.DefaultLanguage),
	})
	return buf.Bytes(), err
}

func renderJSON(a *app, t *dialog.Template, lang string) ([]byte, error) {
	c, err := render.NewPipeline(a.cfg.Tokens, render.HTMLTarget{}).Render(t, lang)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func renderTerminal(a *app, t *dialog.Template, lang string, width int) ([]byte, error) {
	if width == 0 {
		width = terminalWidth(a.out)
	}
	r := lipgloss.NewRenderer(a.out)
	c, err := render.NewPipeline(a.cfg.Tokens, render.NewTerminalTarget(r)).Render(t, lang)
	if err != nil {
		return nil, err
	}
	return []byte(render.NewTerminalView(r, width).Render(c) + "\n"), nil
}
