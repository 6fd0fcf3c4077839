package dialog

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by this package.
const (
	CodeMalformed               = "TEMPLATE_MALFORMED"
	CodeShape                   = "TEMPLATE_SHAPE"
	CodeMissingLocalizationData = "TEMPLATE_MISSING_LOCALIZATION_DATA"
	CodeEmpty                   = "TEMPLATE_EMPTY"
	CodeInvalidRequest          = "TEMPLATE_REQUEST_INVALID"
)

func wrapMalformed(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "template is not valid JSON").
		WithTextCode(CodeMalformed)
}

func wrapShape(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "template field has the wrong type").
		WithTextCode(CodeShape)
}

func errMissingLocalizationData() error {
	return goerrors.New("LocalizationData array is required", goerrors.CategoryBadInput).
		WithTextCode(CodeMissingLocalizationData)
}

// errEmpty is returned by RequireVariants for templates without variants.
func errEmpty() error {
	return goerrors.New("LocalizationData array is empty", goerrors.CategoryBadInput).
		WithTextCode(CodeEmpty)
}

// IsMalformed reports whether err came from text that is not valid JSON.
func IsMalformed(err error) bool { return hasCode(err, CodeMalformed) }

// IsShape reports whether err came from valid JSON with a field of the
// wrong type. Parse still returns the rest of the template with it.
func IsShape(err error) bool { return hasCode(err, CodeShape) }

// IsMissingLocalizationData reports whether the document parsed but has no
// LocalizationData array.
func IsMissingLocalizationData(err error) bool {
	return hasCode(err, CodeMissingLocalizationData)
}

// IsEmpty reports whether err was produced by RequireVariants.
func IsEmpty(err error) bool { return hasCode(err, CodeEmpty) }

// IsInvalidRequest reports whether err came from CreateRequest validation.
func IsInvalidRequest(err error) bool { return hasCode(err, CodeInvalidRequest) }

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}
