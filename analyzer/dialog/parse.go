package dialog

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Parse decodes raw document text into a Template.
//
// Invalid JSON yields an error for which IsMalformed is true. A document
// without a LocalizationData array yields an error for which
// IsMissingLocalizationData is true. Parse never panics on any input.
//
// Valid JSON whose fields have the wrong types still returns the template,
// with those fields left at their zero value, together with an error for
// which IsShape is true. Callers may go on validating it.
func Parse(raw []byte) (*Template, error) {
	var probe struct {
		LocalizationData json.RawMessage `json:"LocalizationData"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, wrapMalformed(err)
	}

	data := bytes.TrimSpace(probe.LocalizationData)
	if len(data) == 0 || data[0] != '[' {
		return nil, errMissingLocalizationData()
	}

	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &t, wrapShape(typeErr)
		}
		return nil, wrapMalformed(err)
	}
	return &t, nil
}

// ParseString is Parse for document text held as a string.
func ParseString(text string) (*Template, error) {
	return Parse([]byte(text))
}

// RequireVariants returns an error when t has no variants to display.
func RequireVariants(t *Template) error {
	if t == nil || len(t.LocalizationData) == 0 {
		return errEmpty()
	}
	return nil
}

// Encode writes t as two-space indented JSON, keeping markup characters
// such as < and > literal.
func Encode(t *Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
