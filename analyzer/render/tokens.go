package render

import (
	"sort"
	"strings"
)

// TokenDelimiter opens and closes a token: %%Name%%.
const TokenDelimiter = "%%"

// Token describes a placeholder the policy platform fills in when it shows
// the dialog.
type Token struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Default is the sample value used in previews when none is configured.
	Default string `json:"default"`
}

// Placeholder returns the token as it is written in template text.
func (t Token) Placeholder() string { return TokenDelimiter + t.Name + TokenDelimiter }

// KnownTokens lists the tokens the platform documents. Substitution does
// not depend on this list; any name present in the value map is replaced.
var KnownTokens = []Token{
	{
		Name:        "MatchedRecipientsList",
		Description: "Recipients that matched the policy condition",
		Default:     "example@example.com",
	},
	{
		Name:        "MatchedLabelName",
		Description: "Sensitivity label applied to the message",
		Default:     "Confidential",
	},
	{
		Name:        "MatchedAttachmentName",
		Description: "Attachment that matched the policy condition",
		Default:     "Financial_Report.xlsx",
	},
	{
		Name:        "MatchedConditions",
		Description: "Policy conditions that were detected",
		Default:     "Credit Card Number detected",
	},
}

// DefaultTokenValues returns a fresh map of every known token to its
// sample value.
func DefaultTokenValues() map[string]string {
	values := make(map[string]string, len(KnownTokens))
	for _, t := range KnownTokens {
		values[t.Name] = t.Default
	}
	return values
}

// Substitutor replaces %%Name%% tokens with configured values.
//
// Replacement is global, case-sensitive and single-pass: a value that
// itself contains a token is not expanded again. Tokens without a value
// stay verbatim. A Substitutor is immutable and safe for concurrent use.
type Substitutor struct {
	r *strings.Replacer
}

// NewSubstitutor builds a Substitutor for values, keyed by token name
// without delimiters. Empty names are ignored.
func NewSubstitutor(values map[string]string) *Substitutor {
	names := make([]string, 0, len(values))
	for name := range values {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return &Substitutor{}
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, TokenDelimiter+name+TokenDelimiter, values[name])
	}
	return &Substitutor{r: strings.NewReplacer(pairs...)}
}

// Substitute returns text with every known token replaced.
func (s *Substitutor) Substitute(text string) string {
	if s == nil || s.r == nil {
		return text
	}
	return s.r.Replace(text)
}

// Substitute is a convenience for NewSubstitutor(values).Substitute(text).
func Substitute(text string, values map[string]string) string {
	return NewSubstitutor(values).Substitute(text)
}
