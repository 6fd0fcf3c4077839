package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TerminalTarget renders markup with terminal styles. Output is plain text
// with ANSI sequences; nothing is left HTML-escaped.
type TerminalTarget struct {
	r *lipgloss.Renderer
}

// NewTerminalTarget returns a TerminalTarget drawing with r. A nil r uses
// lipgloss's default renderer, which detects the color profile of stdout.
func NewTerminalTarget(r *lipgloss.Renderer) TerminalTarget {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return TerminalTarget{r: r}
}

func (t TerminalTarget) renderer() *lipgloss.Renderer {
	if t.r == nil {
		return lipgloss.DefaultRenderer()
	}
	return t.r
}

// Escape uses the HTML escaping so that markup rules match; Finish undoes
// it exactly once.
func (TerminalTarget) Escape(s string) string { return EscapeHTML(s) }

func (t TerminalTarget) Wrap(tag Tag, inner string) string {
	style := t.renderer().NewStyle()
	switch tag {
	case TagBold:
		style = style.Bold(true)
	case TagUnderline:
		style = style.Underline(true)
	case TagItalic:
		style = style.Italic(true)
	}
	return style.Render(inner)
}

func (TerminalTarget) LineBreak() string { return "\n" }

func (TerminalTarget) Finish(s string) string { return html.UnescapeString(s) }

// ── View ────────────────────────────────────────────────────────────────

// TerminalView lays out content as a boxed dialog for a terminal. Content
// should come from a Pipeline rendering for a TerminalTarget using the
// same renderer.
type TerminalView struct {
	r *lipgloss.Renderer

	badge   lipgloss.Style
	frame   lipgloss.Style
	title   lipgloss.Style
	empty   lipgloss.Style
	button  lipgloss.Style
	levels  map[Level]lipgloss.Style
	caption string
}

// NewTerminalView returns a view drawing with r (nil for the default
// renderer). width bounds the dialog frame; zero means 60 columns.
func NewTerminalView(r *lipgloss.Renderer, width int) *TerminalView {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if width <= 0 {
		width = 60
	}
	return &TerminalView{
		r:     r,
		badge: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0078d4")),
		frame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#999999")).
			Padding(0, 1).
			Width(width),
		title:  r.NewStyle().Bold(true),
		empty:  r.NewStyle().Faint(true).Italic(true),
		button: r.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()),
		levels: map[Level]lipgloss.Style{
			LevelOK:      r.NewStyle(),
			LevelWarning: r.NewStyle().Foreground(lipgloss.Color("#b36b00")),
			LevelError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#c42b1c")),
		},
		caption: DefaultCaption,
	}
}

// Render draws c.
func (v *TerminalView) Render(c Content) string {
	var stats []string
	for _, row := range c.Stats.Rows() {
		value := v.levels[row.Level].Render(fmt.Sprintf("%d/%d", row.Value, row.Limit))
		stats = append(stats, row.Label+": "+value)
	}

	var body []string
	body = append(body, v.r.NewStyle().Faint(true).Render(v.caption), "")
	if c.HasTitle {
		body = append(body, v.title.Render(c.Title))
	} else {
		body = append(body, v.empty.Render("(No title)"))
	}
	body = append(body, "")
	if c.HasBody {
		body = append(body, c.Body)
	} else {
		body = append(body, v.empty.Render("(No body text)"))
	}

	if len(c.Options) > 0 {
		body = append(body, "", "Select an option:")
		for i, o := range c.Options {
			mark := "( )"
			if i == 0 {
				mark = "(•)"
			}
			body = append(body, mark+" "+o)
		}
	}
	if c.HasFreeTextOption {
		body = append(body, "", "Provide a business justification:", "[                              ]")
	}
	body = append(body, "", lipgloss.JoinHorizontal(lipgloss.Top,
		v.button.Render("Override"), " ", v.button.Render("Cancel")))

	return lipgloss.JoinVertical(lipgloss.Left,
		v.badge.Render("Preview: "+c.LanguageLabel),
		strings.Join(stats, "  "),
		v.frame.Render(strings.Join(body, "\n")),
	)
}
