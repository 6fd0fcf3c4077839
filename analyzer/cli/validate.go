package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/schema"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/validator"
)

// FileReport is the validation result of one template file.
type FileReport struct {
	Path         string                 `json:"path"`
	Diagnostics  []validator.Diagnostic `json:"diagnostics"`
	SchemaIssues []schema.Issue         `json:"schemaIssues,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// failed reports whether the file has anything to fix.
func (r FileReport) failed() bool {
	return r.Error != "" || len(r.Diagnostics) > 0 || len(r.SchemaIssues) > 0
}

type validateOptions struct {
	json       bool
	compress   bool
	schema     bool
	failOnDiag bool
	noColor    bool
}

func newValidateCommand(a *app) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Report limit violations in template files",
		Long: `Validate parses each template file, checks every language variant against the
platform limits and prints the violations with their positions.

Positions are 1-based in text output and 0-based (UTF-16 columns) in JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(a, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "emit a JSON report")
	flags.BoolVar(&opts.compress, "compress", false, "gzip the JSON report")
	flags.BoolVar(&opts.schema, "schema", false, "also check the files against the template JSON Schema")
	flags.BoolVar(&opts.failOnDiag, "fail-on-diagnostics", true, "exit with status 2 when anything is reported")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.String("locator", "", "diagnostic locator: heuristic or span")
	return cmd
}

func runValidate(a *app, opts validateOptions, paths []string) error {
	loc, err := a.locator()
	if err != nil {
		return err
	}

	reports := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		reports = append(reports, validateFile(path, loc, opts.schema))
		a.log.Debug().Str("path", path).Int("diagnostics", len(reports[len(reports)-1].Diagnostics)).Msg("validated")
	}

	if opts.json || opts.compress {
		if err := encodeJSON(a.out, reports, opts.compress); err != nil {
			return err
		}
	} else {
		printReports(a.out, reports, opts.noColor)
	}

	for _, r := range reports {
		if r.Error != "" {
			return &exitError{code: 1}
		}
	}
	if opts.failOnDiag {
		for _, r := range reports {
			if r.failed() {
				return &exitError{code: 2}
			}
		}
	}
	return nil
}

func validateFile(path string, loc validator.Locator, withSchema bool) FileReport {
	report := FileReport{Path: path, Diagnostics: []validator.Diagnostic{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	text := string(raw)

	if withSchema {
		issues, err := schema.Check(raw)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.SchemaIssues = schema.Locate(text, issues)
	}

	diags, err := validator.Check(text, loc)
	if diags != nil {
		report.Diagnostics = diags
	}
	if err != nil {
		report.Error = err.Error()
	}
	return report
}

func printReports(w io.Writer, reports []FileReport, noColor bool) {
	errLabel := color.New(color.FgRed, color.Bold)
	warnLabel := color.New(color.FgYellow)
	pathStyle := color.New(color.Bold)
	okLabel := color.New(color.FgGreen)
	if noColor {
		for _, c := range []*color.Color{errLabel, warnLabel, pathStyle, okLabel} {
			c.DisableColor()
		}
	}

	total := 0
	for _, r := range reports {
		for _, issue := range r.SchemaIssues {
			line, col := 1, 1
			if issue.Located {
				line, col = issue.Range.Line+1, issue.Range.ColumnStart+1
			}
			fmt.Fprintf(w, "%s:%d:%d: %s %s (schema %s)\n",
				pathStyle.Sprint(r.Path), line, col, warnLabel.Sprint("warning:"), issue.Message, pointerOrRoot(issue.Pointer))
			total++
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "%s:%d:%d: %s %s [%s]\n",
				pathStyle.Sprint(r.Path), d.Line+1, d.ColumnStart+1, errLabel.Sprint("error:"), d.Message, d.Code)
			total++
		}
		// The error goes last, after the issues that locate it.
		if r.Error != "" {
			fmt.Fprintf(w, "%s: %s %s\n", pathStyle.Sprint(r.Path), errLabel.Sprint("error:"), r.Error)
			total++
		}
	}

	if total == 0 {
		fmt.Fprintf(w, "%s %d file(s) checked, no problems found\n", okLabel.Sprint("ok"), len(reports))
		return
	}
	fmt.Fprintf(w, "%d problem(s) in %d file(s)\n", total, len(reports))
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
