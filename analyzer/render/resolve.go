/*
Package render turns a parsed dialog template into display-ready content.

The pipeline runs in four steps, each usable on its own:
  - Resolve picks the variant to show for a requested language, falling
    back to the default language and then to the first variant.
  - A Substitutor replaces %%Name%% tokens in Title and Body text.
  - The markup renderer escapes Body text and converts the Bold, Underline,
    Italic and LineBreak tags into output markup. Title text is escaped
    only.
  - Pipeline ties the steps together and attaches the pre-substitution
    length statistics.

Every function in this package is pure. Callers own any state, such as
the language currently selected in a preview.
*/
package render

import "github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"

// Reason records which resolution rule selected a variant.
type Reason string

const (
	// ReasonRequested means a variant matched the requested language.
	ReasonRequested Reason = "requested"
	// ReasonDefault means the template's DefaultLanguage was used.
	ReasonDefault Reason = "default"
	// ReasonFirst means the first variant in document order was used.
	ReasonFirst Reason = "first"
)

// Selection is the outcome of Resolve.
type Selection struct {
	Variant dialog.Variant
	// Index is the position of Variant in LocalizationData.
	Index int
	// Language is the language actually selected. Callers tracking a
	// current language should adopt it, since it may differ from the
	// requested one.
	Language string
	Reason   Reason
}

// Resolve selects the variant to display for requested.
//
// Resolution order:
//  1. the first variant whose Language equals requested;
//  2. the first variant whose Language equals t.DefaultLanguage;
//  3. the first variant in document order.
//
// An empty requested language means no request and skips rule 1. The
// second result is false only when t has no variants.
func Resolve(t *dialog.Template, requested string) (Selection, bool) {
	if t == nil || len(t.LocalizationData) == 0 {
		return Selection{}, false
	}

	if requested != "" {
		if i, ok := t.Lookup(requested); ok {
			return selection(t, i, ReasonRequested), true
		}
	}
	if t.DefaultLanguage != "" {
		if i, ok := t.Lookup(t.DefaultLanguage); ok {
			return selection(t, i, ReasonDefault), true
		}
	}
	return selection(t, 0, ReasonFirst), true
}

func selection(t *dialog.Template, i int, reason Reason) Selection {
	v := t.LocalizationData[i]
	return Selection{
		Variant:  v,
		Index:    i,
		Language: v.Language,
		Reason:   reason,
	}
}
