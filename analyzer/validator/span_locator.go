package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
)

// Span is a half-open byte range [Start, End) of the document text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Range is a Span converted to editor coordinates. Line is zero-based and
// columns count UTF-16 code units. A range spanning several lines is cut at
// the end of its first line.
type Range struct {
	Line        int `json:"line"`
	ColumnStart int `json:"columnStart"`
	ColumnEnd   int `json:"columnEnd"`
}

// SpanIndex maps JSON pointers of a document to the spans they occupy.
//
// An object member is recorded from the opening quote of its key to the
// end of its value; an array element covers the element only. The root
// value is recorded under the empty pointer. When an object repeats a key
// the last occurrence wins, matching encoding/json decoding.
type SpanIndex struct {
	text       string
	spans      map[string]Span
	lineStarts []int
}

// NewSpanIndex tokenizes text and records the span of every value.
func NewSpanIndex(text string) (*SpanIndex, error) {
	idx := &SpanIndex{
		text:       text,
		spans:      make(map[string]Span),
		lineStarts: lineStarts(text),
	}

	w := &spanWalker{
		dec:   json.NewDecoder(strings.NewReader(text)),
		text:  text,
		spans: idx.spans,
	}
	root, err := w.walk("")
	if err != nil {
		return nil, fmt.Errorf("index document spans: %w", err)
	}
	idx.spans[""] = root

	// Trailing data after the root value means the text is not one JSON document.
	if _, err := w.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("index document spans: unexpected data after top-level value")
	}
	return idx, nil
}

// Span returns the span recorded for pointer, such as
// "/LocalizationData/0/Title".
func (x *SpanIndex) Span(pointer string) (Span, bool) {
	s, ok := x.spans[pointer]
	return s, ok
}

// Range returns the editor range of the span recorded for pointer.
func (x *SpanIndex) Range(pointer string) (Range, bool) {
	s, ok := x.spans[pointer]
	if !ok {
		return Range{}, false
	}
	return x.toRange(s), true
}

func (x *SpanIndex) toRange(s Span) Range {
	line := sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > s.Start
	}) - 1
	lineStart := x.lineStarts[line]

	lineEnd := len(x.text)
	if line+1 < len(x.lineStarts) {
		lineEnd = x.lineStarts[line+1] - 1
	}
	end := min(s.End, lineEnd)
	// Never include the carriage return of a CRLF line ending.
	if end == lineEnd && end > lineStart && x.text[end-1] == '\r' {
		end--
	}

	return Range{
		Line:        line,
		ColumnStart: dialog.Length(x.text[lineStart:s.Start]),
		ColumnEnd:   dialog.Length(x.text[lineStart:max(end, s.Start)]),
	}
}

// ViolationPointer returns the JSON pointer a violation refers to.
func ViolationPointer(v Violation) string {
	base := "/LocalizationData/" + strconv.Itoa(v.VariantIndex)
	switch v.Field {
	case FieldTitle:
		return base + "/Title"
	case FieldBody:
		return base + "/Body"
	case FieldOptions:
		return base + "/Options"
	case FieldOption:
		return base + "/Options/" + strconv.Itoa(v.OptionIndex)
	}
	return base
}

// SpanLocator positions violations exactly, using the spans of the keys
// and values they refer to. Title, Body and Options violations cover the
// member from its key to the end of its value (cut at the end of the
// line); option violations cover the option string.
//
// Text that cannot be tokenized yields no diagnostics.
type SpanLocator struct{}

// Locate implements Locator.
func (SpanLocator) Locate(text string, violations []Violation) []Diagnostic {
	if len(violations) == 0 {
		return nil
	}
	idx, err := NewSpanIndex(text)
	if err != nil {
		return nil
	}

	var out []Diagnostic
	for _, v := range violations {
		r, ok := idx.Range(ViolationPointer(v))
		if !ok {
			continue
		}
		out = append(out, Diagnostic{
			Violation:   v,
			Line:        r.Line,
			ColumnStart: r.ColumnStart,
			ColumnEnd:   r.ColumnEnd,
			Severity:    SeverityError,
		})
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// TOKEN WALK
// ═══════════════════════════════════════════════════════════════════════════

// spanWalker drives a json.Decoder through one value at a time, using the
// decoder's input offset to recover where each token ended.
type spanWalker struct {
	dec   *json.Decoder
	text  string
	spans map[string]Span
}

// walk consumes the value at the decoder's position and returns its span.
// Members and elements found inside are recorded under pointer.
func (w *spanWalker) walk(pointer string) (Span, error) {
	tok, err := w.dec.Token()
	if err != nil {
		return Span{}, err
	}
	end := int(w.dec.InputOffset())

	switch t := tok.(type) {
	case json.Delim:
		start := end - 1
		switch t {
		case '{':
			if err := w.walkObject(pointer); err != nil {
				return Span{}, err
			}
		case '[':
			if err := w.walkArray(pointer); err != nil {
				return Span{}, err
			}
		default:
			return Span{}, fmt.Errorf("unexpected delimiter %q at offset %d", rune(t), start)
		}
		// Closing delimiter.
		if _, err := w.dec.Token(); err != nil {
			return Span{}, err
		}
		return Span{Start: start, End: int(w.dec.InputOffset())}, nil

	case string:
		return Span{Start: stringStart(w.text, end), End: end}, nil

	default:
		return Span{Start: scalarStart(w.text, end), End: end}, nil
	}
}

func (w *spanWalker) walkObject(pointer string) error {
	for w.dec.More() {
		tok, err := w.dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		keyStart := stringStart(w.text, int(w.dec.InputOffset()))

		child := pointer + "/" + escapePointer(key)
		value, err := w.walk(child)
		if err != nil {
			return err
		}
		w.spans[child] = Span{Start: keyStart, End: value.End}
	}
	return nil
}

func (w *spanWalker) walkArray(pointer string) error {
	for i := 0; w.dec.More(); i++ {
		child := pointer + "/" + strconv.Itoa(i)
		value, err := w.walk(child)
		if err != nil {
			return err
		}
		w.spans[child] = value
	}
	return nil
}

// stringStart finds the opening quote of the string literal whose closing
// quote is at end-1.
func stringStart(text string, end int) int {
	for i := end - 2; i >= 0; i-- {
		if text[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return max(end-1, 0)
}

// scalarStart finds the first byte of the number, boolean or null literal
// ending at end.
func scalarStart(text string, end int) int {
	i := end
	for i > 0 {
		c := text[i-1]
		if isWhitespace(c) || c == ':' || c == ',' || c == '[' {
			break
		}
		i--
	}
	return i
}

// escapePointer escapes a key for use as a JSON pointer reference token.
func escapePointer(key string) string {
	if !strings.ContainsAny(key, "~/") {
		return key
	}
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}

// lineStarts returns the byte offset of the first byte of every line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
