package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
)

func newLanguagesCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the language codes a template may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return encodeJSON(a.out, languages.Catalog, false)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, l := range languages.Catalog {
				fmt.Fprintf(tw, "%s\t%s\n", l.Code, l.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}
