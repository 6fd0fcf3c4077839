package dialog

import "unicode/utf16"

// Limits imposed by the downstream policy platform. They are fixed and not
// configurable.
const (
	MaxTitleLength  = 75
	MaxBodyLength   = 800
	MaxOptions      = 3
	MaxOptionLength = 100

	// MaxLanguages bounds the language set of a newly created template.
	MaxLanguages = 10
)

// Warning thresholds shown next to the limits in previews (80% of the limit).
const (
	WarnTitleLength  = 60
	WarnBodyLength   = 640
	WarnOptionLength = 80
)

// Length reports the length of s the way the policy platform counts it:
// in UTF-16 code units. Characters outside the Basic Multilingual Plane
// count as two.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
