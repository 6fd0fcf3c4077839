/*
Package validator checks localized dialog templates against the policy
platform's limits and positions every breach in the document text.

Validation happens in two independent steps:
  - Validate walks a parsed dialog.Template and returns abstract Violations
    in document order.
  - A Locator re-reads the raw document text and attaches a line and
    column range to each Violation, producing Diagnostics.

Two locators are provided. LineLocator is a line-oriented heuristic that
never looks at JSON structure beyond a few literal markers; it may drop
violations it cannot place. SpanLocator tokenizes the document and records
the byte span of every key and value, so it places every violation of a
well-formed document exactly.
*/
package validator

import (
	"fmt"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
)

// Validate checks every variant of t against the fixed limits.
//
// Ordering is stable: variants ascend by index and, within a variant, the
// Title check comes first, then Body, then the Options count, then each
// option by ascending index. Options past the third are still checked for
// length.
//
// A nil template, or one without variants, yields no violations.
//
// Thread-safety: Pure function, safe for concurrent calls.
func Validate(t *dialog.Template) []Violation {
	if t == nil {
		return nil
	}

	var out []Violation
	for i, v := range t.LocalizationData {
		if n := dialog.Length(v.Title); n > dialog.MaxTitleLength {
			out = append(out, newViolation(i, v.Language, FieldTitle, n, dialog.MaxTitleLength,
				fmt.Sprintf("Title exceeds %d character limit (current: %d characters)", dialog.MaxTitleLength, n)))
		}

		if n := dialog.Length(v.Body); n > dialog.MaxBodyLength {
			out = append(out, newViolation(i, v.Language, FieldBody, n, dialog.MaxBodyLength,
				fmt.Sprintf("Body exceeds %d character limit (current: %d characters)", dialog.MaxBodyLength, n)))
		}

		if n := len(v.Options); n > dialog.MaxOptions {
			out = append(out, newViolation(i, v.Language, FieldOptions, n, dialog.MaxOptions,
				fmt.Sprintf("Options array exceeds maximum of %d items (current: %d options)", dialog.MaxOptions, n)))
		}

		for j, opt := range v.Options {
			n := dialog.Length(opt)
			if n <= dialog.MaxOptionLength {
				continue
			}
			viol := newViolation(i, v.Language, FieldOption, n, dialog.MaxOptionLength,
				fmt.Sprintf("Option %d exceeds %d character limit (current: %d characters)", j+1, dialog.MaxOptionLength, n))
			viol.OptionIndex = j
			viol.Text = opt
			out = append(out, viol)
		}
	}
	return out
}

func newViolation(variant int, lang string, field Field, actual, limit int, msg string) Violation {
	return Violation{
		VariantIndex: variant,
		Language:     lang,
		Field:        field,
		Actual:       actual,
		Limit:        limit,
		Code:         field.Code(),
		Message:      msg,
	}
}

// Check parses text, validates it and positions the violations with loc.
// A nil loc means LineLocator.
//
// Parse errors are returned unchanged so callers can tell malformed text
// (dialog.IsMalformed) from a document without LocalizationData
// (dialog.IsMissingLocalizationData). A field of the wrong type
// (dialog.IsShape) does not stop validation: the diagnostics of the fields
// that did decode are returned along with the error.
func Check(text string, loc Locator) ([]Diagnostic, error) {
	tmpl, err := dialog.ParseString(text)
	if err != nil && !dialog.IsShape(err) {
		return nil, err
	}
	if loc == nil {
		loc = LineLocator{}
	}
	return loc.Locate(text, Validate(tmpl)), err
}

// LocatorByName returns the locator registered under name: "heuristic"
// (or "") for LineLocator and "span" for SpanLocator.
func LocatorByName(name string) (Locator, error) {
	switch name {
	case "", "heuristic", "line":
		return LineLocator{}, nil
	case "span", "exact":
		return SpanLocator{}, nil
	}
	return nil, fmt.Errorf("unknown locator %q", name)
}
