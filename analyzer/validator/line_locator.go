package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
)

// Literal markers the line scan looks for. They include the quotes so that
// only JSON keys (and string values that happen to contain them) match.
const (
	markerLocalizationData = `"LocalizationData"`
	markerLanguage         = `"Language"`
	markerTitle            = `"Title"`
	markerBody             = `"Body"`
	markerOptions          = `"Options"`
)

// optionProbeLen is how many leading characters of an option are searched
// for when locating a per-option violation.
const optionProbeLen = 20

// lineFields lists the keyed fields in the order they are checked on a line.
var lineFields = []struct {
	field  Field
	marker string
}{
	{FieldTitle, markerTitle},
	{FieldBody, markerBody},
	{FieldOptions, markerOptions},
}

// LineLocator positions violations with a single forward pass over the
// document lines, without tokenizing the JSON.
//
// State machine:
//   - A line containing "LocalizationData" enters the variants array and
//     resets the variant counter to -1.
//   - Inside the array, a line that is exactly "{" after trimming starts
//     the next variant.
//   - A line containing "]" but no "[" leaves the array.
//   - Inside a variant, a line containing the "Title", "Body" or "Options"
//     key is the position of that field's violation. The whole line is
//     reported.
//   - Per-option violations are searched for after the "Options" line: the
//     first line containing the option's first 20 characters wins. The
//     search stops at the next field or at an array or object close.
//
// Known limitations, kept on purpose:
//   - An Options array spread over several lines closes with a "]" line,
//     which also ends the variants array. Fields of later variants are then
//     not found and their violations are dropped.
//   - Key literals inside string values (a Title containing "Body") cause
//     false matches and may misplace a diagnostic.
//   - Two long options sharing their first 20 characters both resolve to
//     the first matching line.
//
// LineLocator never panics, whatever the text and violations.
type LineLocator struct{}

type lineKey struct {
	variant int
	field   Field
}

// lineScan is the mutable state of one Locate call.
type lineScan struct {
	lines      []string
	violations []Violation
	pending    map[lineKey][]int // unresolved violation indices
	found      []bool
	diags      []Diagnostic
}

// Locate implements Locator.
func (LineLocator) Locate(text string, violations []Violation) []Diagnostic {
	if len(violations) == 0 {
		return nil
	}

	s := &lineScan{
		lines:      strings.Split(text, "\n"),
		violations: violations,
		pending:    make(map[lineKey][]int, len(violations)),
		found:      make([]bool, len(violations)),
		diags:      make([]Diagnostic, len(violations)),
	}
	for i, v := range violations {
		k := lineKey{variant: v.VariantIndex, field: v.Field}
		s.pending[k] = append(s.pending[k], i)
	}

	inside := false
	current := -1

	for lineNum, line := range s.lines {
		// ── Entering the variants array ─────────────────────────────────
		if strings.Contains(line, markerLocalizationData) {
			inside = true
			current = -1
			continue
		}
		if !inside {
			continue
		}

		// ── Next variant object ─────────────────────────────────────────
		if strings.TrimSpace(line) == "{" {
			current++
			continue
		}

		// ── Leaving the variants array ──────────────────────────────────
		if strings.Contains(line, "]") && !strings.Contains(line, "[") {
			inside = false
			continue
		}

		if current < 0 {
			continue
		}

		// ── Field keys ──────────────────────────────────────────────────
		for _, lf := range lineFields {
			if !strings.Contains(line, lf.marker) {
				continue
			}
			s.resolve(lineKey{variant: current, field: lf.field}, lineNum)
			if lf.field == FieldOptions {
				s.scanOptions(current, lineNum)
			}
		}
	}

	var out []Diagnostic
	for i := range violations {
		if s.found[i] {
			out = append(out, s.diags[i])
		}
	}
	return out
}

// resolve positions the first unresolved violation under k at lineNum.
func (s *lineScan) resolve(k lineKey, lineNum int) {
	queue := s.pending[k]
	if len(queue) == 0 {
		return
	}
	s.place(queue[0], lineNum)
	s.pending[k] = queue[1:]
}

// scanOptions positions the variant's option violations by searching the
// lines after the "Options" key for a prefix of each offending option.
func (s *lineScan) scanOptions(variant, optionsLine int) {
	k := lineKey{variant: variant, field: FieldOption}
	queue := s.pending[k]
	if len(queue) == 0 {
		return
	}

	var unresolved []int
	for _, idx := range queue {
		probes := optionProbes(s.violations[idx].Text)
		if len(probes) == 0 {
			unresolved = append(unresolved, idx)
			continue
		}

		hit := -1
		for n := optionsLine + 1; n < len(s.lines); n++ {
			line := s.lines[n]
			if containsAny(line, probes) {
				hit = n
				break
			}
			if isOptionBoundary(line) {
				break
			}
		}

		if hit < 0 {
			unresolved = append(unresolved, idx)
			continue
		}
		s.place(idx, hit)
	}
	s.pending[k] = unresolved
}

// place records a full-line diagnostic for violation idx.
func (s *lineScan) place(idx, lineNum int) {
	line := strings.TrimSuffix(s.lines[lineNum], "\r")
	s.diags[idx] = Diagnostic{
		Violation:   s.violations[idx],
		Line:        lineNum,
		ColumnStart: 0,
		ColumnEnd:   dialog.Length(line),
		Severity:    SeverityError,
	}
	s.found[idx] = true
}

// optionProbes returns the strings searched for when locating an option:
// its first 20 characters as written and, when different, as they appear
// JSON-escaped in the document.
func optionProbes(option string) []string {
	probe := prefixRunes(option, optionProbeLen)
	if probe == "" {
		return nil
	}
	probes := []string{probe}
	if escaped := jsonEscape(probe); escaped != probe {
		probes = append(probes, escaped)
	}
	return probes
}

// isOptionBoundary reports whether line ends the search for an option: an
// array or object close, or the key of another field.
func isOptionBoundary(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "]") || strings.HasPrefix(trimmed, "}") {
		return true
	}
	for _, m := range []string{markerTitle, markerBody, markerOptions, markerLanguage, markerLocalizationData} {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// prefixRunes returns at most n leading runes of s.
func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
