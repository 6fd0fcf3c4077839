package render

import (
	"regexp"
	"strings"
)

// Tag is one element of the inline markup allowed in Body text.
type Tag int

const (
	TagBold Tag = iota
	TagUnderline
	TagItalic
	TagLineBreak
)

func (t Tag) String() string {
	switch t {
	case TagBold:
		return "Bold"
	case TagUnderline:
		return "Underline"
	case TagItalic:
		return "Italic"
	case TagLineBreak:
		return "LineBreak"
	}
	return "Unknown"
}

// Target produces the output markup for one display surface.
//
// Rendering always calls Escape on the whole input first. Tag rules are
// then matched against the escaped text, so Escape must encode '<' and '>'
// as "&lt;" and "&gt;". Finish runs once on the final string.
type Target interface {
	Escape(s string) string
	Wrap(tag Tag, inner string) string
	LineBreak() string
	Finish(s string) string
}

// markupRule rewrites one tag form in escaped text.
type markupRule struct {
	tag Tag
	re  *regexp.Regexp
}

// markupRules apply in order. Tag names match case-insensitively and the
// enclosed text non-greedily, so the first closing tag wins and same-type
// tags never nest.
var markupRules = []markupRule{
	{TagBold, regexp.MustCompile(`(?i)&lt;Bold&gt;(.*?)&lt;/Bold&gt;`)},
	{TagUnderline, regexp.MustCompile(`(?i)&lt;Underline&gt;(.*?)&lt;/Underline&gt;`)},
	{TagItalic, regexp.MustCompile(`(?i)&lt;Italic&gt;(.*?)&lt;/Italic&gt;`)},
	{TagLineBreak, regexp.MustCompile(`(?i)&lt;LineBreak\s*/&gt;`)},
	{TagLineBreak, regexp.MustCompile(`(?i)&lt;br\s*/?&gt;`)},
}

// RenderMarkup escapes text for target and converts the markup tags.
func RenderMarkup(target Target, text string) string {
	out := target.Escape(text)
	for _, rule := range markupRules {
		if rule.tag == TagLineBreak {
			out = rule.re.ReplaceAllLiteralString(out, target.LineBreak())
			continue
		}
		out = rule.re.ReplaceAllStringFunc(out, func(m string) string {
			sub := rule.re.FindStringSubmatch(m)
			return target.Wrap(rule.tag, sub[1])
		})
	}
	return target.Finish(out)
}

// RenderPlain escapes text for target without interpreting any markup.
// Title and option text go through here.
func RenderPlain(target Target, text string) string {
	return target.Finish(target.Escape(text))
}

// ── HTML ────────────────────────────────────────────────────────────────

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML encodes the five HTML-sensitive characters.
func EscapeHTML(s string) string { return htmlEscaper.Replace(s) }

// HTMLTarget renders markup as HTML fragments safe to embed in a page.
type HTMLTarget struct{}

var htmlTags = map[Tag]string{
	TagBold:      "strong",
	TagUnderline: "u",
	TagItalic:    "em",
}

func (HTMLTarget) Escape(s string) string { return EscapeHTML(s) }

func (HTMLTarget) Wrap(tag Tag, inner string) string {
	name := htmlTags[tag]
	return "<" + name + ">" + inner + "</" + name + ">"
}

func (HTMLTarget) LineBreak() string { return "<br>" }

func (HTMLTarget) Finish(s string) string { return s }

// RenderBody renders Body text as HTML.
func RenderBody(text string) string { return RenderMarkup(HTMLTarget{}, text) }

// RenderTitle escapes Title text as HTML. No markup is interpreted.
func RenderTitle(text string) string { return RenderPlain(HTMLTarget{}, text) }
