package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
)

type newOptions struct {
	langs  []string
	def    string
	output string
	force  bool
}

func newNewCommand(a *app) *cobra.Command {
	var opts newOptions

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a template skeleton",
		Long: `New writes a template with one variant per requested language. Each variant
has an empty Title and Body and three placeholder options, and the free-text
justification box is enabled.`,
		Example: `  dialoglsp new --lang en-US -o dialog.json
  dialoglsp new --lang en-US,fr-FR,de-DE --default fr-FR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.langs, "lang", "l", []string{"en-US"}, "variant languages, in order")
	flags.StringVar(&opts.def, "default", "", "default language (required with more than one language)")
	flags.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	flags.BoolVar(&opts.force, "force", false, "overwrite an existing output file")
	return cmd
}

func runNew(a *app, opts newOptions) error {
	t, err := dialog.NewTemplate(dialog.CreateRequest{
		Languages:       opts.langs,
		DefaultLanguage: opts.def,
	})
	if err != nil {
		return err
	}

	data, err := dialog.Encode(t)
	if err != nil {
		return err
	}
	if err := writeOutput(a.out, opts.output, data, opts.force); err != nil {
		return err
	}

	if opts.output != "" && opts.output != "-" {
		fmt.Fprintf(a.errOut, "created %s with %d language(s)\n", opts.output, len(t.LocalizationData))
	}
	return nil
}
