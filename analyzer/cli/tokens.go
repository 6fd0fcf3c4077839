package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
)

// tokenEntry is a token with the sample value previews will use.
type tokenEntry struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

// tokenEntries lists the known tokens first, then any extra configured
// names in sorted order.
func tokenEntries(values map[string]string) []tokenEntry {
	entries := make([]tokenEntry, 0, len(values))
	seen := make(map[string]bool, len(render.KnownTokens))
	for _, t := range render.KnownTokens {
		seen[t.Name] = true
		value, ok := values[t.Name]
		if !ok {
			value = t.Default
		}
		entries = append(entries, tokenEntry{
			Name:        t.Name,
			Placeholder: t.Placeholder(),
			Description: t.Description,
			Value:       value,
		})
	}

	extra := make([]string, 0)
	for name := range values {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		entries = append(entries, tokenEntry{
			Name:        name,
			Placeholder: render.Token{Name: name}.Placeholder(),
			Value:       values[name],
		})
	}
	return entries
}

func newTokensCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List the dynamic tokens and their preview values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := tokenEntries(a.cfg.Tokens)
			if asJSON {
				return encodeJSON(a.out, entries, false)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Placeholder, e.Value, e.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}
