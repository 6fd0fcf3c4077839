package render

import (
	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
)

// Level grades a statistic against its limit.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func grade(value, warn, limit int) Level {
	switch {
	case value > limit:
		return LevelError
	case warn > 0 && value > warn:
		return LevelWarning
	}
	return LevelOK
}

// Stats are the lengths of the selected variant as authored, before token
// substitution. The limits apply to authored text.
type Stats struct {
	TitleLength         int `json:"titleLength"`
	BodyLength          int `json:"bodyLength"`
	OptionCount         int `json:"optionCount"`
	LongestOptionLength int `json:"longestOptionLength"`
}

// StatRow is one statistic with its limit and grade, in display order.
type StatRow struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Limit int    `json:"limit"`
	Level Level  `json:"level"`
}

// MeasureVariant computes Stats for v.
func MeasureVariant(v dialog.Variant) Stats {
	s := Stats{
		TitleLength: dialog.Length(v.Title),
		BodyLength:  dialog.Length(v.Body),
		OptionCount: len(v.Options),
	}
	for _, o := range v.Options {
		s.LongestOptionLength = max(s.LongestOptionLength, dialog.Length(o))
	}
	return s
}

// Rows grades each statistic. Options have no warning threshold.
func (s Stats) Rows() []StatRow {
	return []StatRow{
		{"Title", s.TitleLength, dialog.MaxTitleLength, grade(s.TitleLength, dialog.WarnTitleLength, dialog.MaxTitleLength)},
		{"Body", s.BodyLength, dialog.MaxBodyLength, grade(s.BodyLength, dialog.WarnBodyLength, dialog.MaxBodyLength)},
		{"Options", s.OptionCount, dialog.MaxOptions, grade(s.OptionCount, 0, dialog.MaxOptions)},
		{"Longest Option", s.LongestOptionLength, dialog.MaxOptionLength, grade(s.LongestOptionLength, dialog.WarnOptionLength, dialog.MaxOptionLength)},
	}
}

// Content is a resolved variant ready for a presentation layer. Title,
// Body and Options are already escaped for the pipeline's Target.
type Content struct {
	Language      string `json:"language"`
	LanguageLabel string `json:"languageLabel"`
	Index         int    `json:"index"`
	Reason        Reason `json:"reason"`

	Title string `json:"title"`
	Body  string `json:"body"`
	// Options holds at most dialog.MaxOptions entries. Extra options are
	// reported through Stats and diagnostics, never displayed.
	Options           []string `json:"options"`
	HasFreeTextOption bool     `json:"hasFreeTextOption"`

	// HasTitle and HasBody report whether the authored text was non-empty.
	HasTitle bool `json:"hasTitle"`
	HasBody  bool `json:"hasBody"`

	Stats Stats `json:"stats"`
}

// Pipeline renders templates for one Target with one token vocabulary.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	tokens *Substitutor
	target Target
}

// NewPipeline returns a Pipeline substituting tokens and rendering for
// target. A nil target means HTMLTarget.
func NewPipeline(tokens map[string]string, target Target) *Pipeline {
	if target == nil {
		target = HTMLTarget{}
	}
	return &Pipeline{tokens: NewSubstitutor(tokens), target: target}
}

// Render resolves requested against t and renders the selected variant.
// It fails only when t has no variants (dialog.IsEmpty).
func (p *Pipeline) Render(t *dialog.Template, requested string) (Content, error) {
	sel, ok := Resolve(t, requested)
	if !ok {
		return Content{}, dialog.RequireVariants(t)
	}
	v := sel.Variant

	c := Content{
		Language:          sel.Language,
		LanguageLabel:     languages.Label(sel.Language),
		Index:             sel.Index,
		Reason:            sel.Reason,
		Title:             RenderPlain(p.target, p.tokens.Substitute(v.Title)),
		Body:              RenderMarkup(p.target, p.tokens.Substitute(v.Body)),
		HasFreeTextOption: t.HasFreeTextOption,
		HasTitle:          v.Title != "",
		HasBody:           v.Body != "",
		Stats:             MeasureVariant(v),
	}

	shown := v.Options[:min(len(v.Options), dialog.MaxOptions)]
	c.Options = make([]string, len(shown))
	for i, o := range shown {
		c.Options[i] = RenderPlain(p.target, o)
	}
	return c, nil
}
