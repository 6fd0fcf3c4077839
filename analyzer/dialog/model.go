// Package dialog holds the typed representation of a localized
// override-dialog template and the helpers that read, write and create it.
//
// A Template is rebuilt from the document text on every pass and is never
// mutated in place by the validator or the renderer.
package dialog

// Template is the parsed form of a dialog template document.
type Template struct {
	// LocalizationData holds one Variant per language, in document order.
	// Duplicate Language values are accepted; the first one wins wherever a
	// lookup by language is performed.
	LocalizationData []Variant `json:"LocalizationData"`
	// HasFreeTextOption controls whether the dialog offers a justification box.
	HasFreeTextOption bool `json:"HasFreeTextOption"`
	// DefaultLanguage is the fallback language. It is not required to match
	// any variant.
	DefaultLanguage string `json:"DefaultLanguage"`
}

// Variant is the content of a template for a single language.
type Variant struct {
	Language string   `json:"Language"`
	Title    string   `json:"Title"`
	Body     string   `json:"Body"`
	Options  []string `json:"Options"`
}

// Languages returns the language codes of all variants in document order.
func (t *Template) Languages() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.LocalizationData))
	for _, v := range t.LocalizationData {
		codes = append(codes, v.Language)
	}
	return codes
}

// Lookup returns the index of the first variant whose Language equals code.
func (t *Template) Lookup(code string) (int, bool) {
	if t == nil {
		return -1, false
	}
	for i, v := range t.LocalizationData {
		if v.Language == code {
			return i, true
		}
	}
	return -1, false
}
