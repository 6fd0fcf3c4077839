package languages

import "sort"

// Choice is one entry of a preview language picker.
type Choice struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	IsCurrent bool   `json:"isCurrent"`
	IsDefault bool   `json:"isDefault"`
}

// PreviewChoices builds picker entries for the variant codes of a template.
// The current language sorts first, then the default language, then the
// remaining codes in document order. Labels carry a "(Current)",
// "(Default)" or "(Current, Default)" suffix.
func PreviewChoices(codes []string, current, defaultLanguage string) []Choice {
	choices := make([]Choice, 0, len(codes))
	for _, code := range codes {
		c := Choice{
			Code:      code,
			IsCurrent: current != "" && code == current,
			IsDefault: code == defaultLanguage,
		}
		c.Label = Label(code) + suffix(c)
		choices = append(choices, c)
	}

	sort.SliceStable(choices, func(i, j int) bool {
		return rank(choices[i]) < rank(choices[j])
	})
	return choices
}

func suffix(c Choice) string {
	switch {
	case c.IsCurrent && c.IsDefault:
		return " (Current, Default)"
	case c.IsCurrent:
		return " (Current)"
	case c.IsDefault:
		return " (Default)"
	}
	return ""
}

func rank(c Choice) int {
	switch {
	case c.IsCurrent:
		return 0
	case c.IsDefault:
		return 1
	}
	return 2
}
