package validator

// Field identifies the part of a variant a Violation refers to.
type Field string

const (
	// FieldTitle is the variant's Title string.
	FieldTitle Field = "Title"
	// FieldBody is the variant's Body string.
	FieldBody Field = "Body"
	// FieldOptions is the Options array as a whole (cardinality).
	FieldOptions Field = "Options"
	// FieldOption is a single entry of the Options array.
	FieldOption Field = "Option"
)

// Diagnostic codes handed to editors alongside each Diagnostic.
const (
	CodeTitleTooLong   = "title-too-long"
	CodeBodyTooLong    = "body-too-long"
	CodeTooManyOptions = "too-many-options"
	CodeOptionTooLong  = "option-too-long"
)

// Code returns the diagnostic code for violations of f.
func (f Field) Code() string {
	switch f {
	case FieldTitle:
		return CodeTitleTooLong
	case FieldBody:
		return CodeBodyTooLong
	case FieldOptions:
		return CodeTooManyOptions
	case FieldOption:
		return CodeOptionTooLong
	}
	return ""
}

// Severity of a Diagnostic. Every limit breach is an error.
type Severity string

// SeverityError is the only severity produced by this package.
const SeverityError Severity = "error"

// Violation is a limit breach found in a parsed template. It carries no
// text position.
type Violation struct {
	// VariantIndex is the index of the variant in LocalizationData.
	VariantIndex int `json:"variantIndex"`
	// Language is the variant's language code, for display only.
	Language string `json:"language"`
	// Field is the part of the variant that breaks a limit.
	Field Field `json:"field"`
	// OptionIndex is the zero-based option index. It is only meaningful
	// when Field is FieldOption and is zero otherwise.
	OptionIndex int `json:"optionIndex"`
	// Text is the offending option text when Field is FieldOption. The line
	// locator uses it to find the option in the document.
	Text string `json:"-"`
	// Actual is the measured length or count.
	Actual int `json:"actualValue"`
	// Limit is the maximum allowed length or count.
	Limit int `json:"limit"`
	// Code is one of the Code* constants.
	Code string `json:"code"`
	// Message is a human-readable description of the breach.
	Message string `json:"message"`
}

// Diagnostic is a Violation positioned in the document text.
//
// Lines and columns are zero-based. Columns count UTF-16 code units, the
// unit editors speaking the Language Server Protocol expect.
type Diagnostic struct {
	Violation
	// Line is the zero-based line of the reported range.
	Line int `json:"line"`
	// ColumnStart is the first column of the reported range.
	ColumnStart int `json:"columnStart"`
	// ColumnEnd is the column just past the reported range.
	ColumnEnd int `json:"columnEnd"`
	// Severity is always SeverityError.
	Severity Severity `json:"severity"`
}

// Locator positions violations in the raw document text they were
// computed from. Violations that cannot be positioned are omitted, so the
// result may be shorter than the input. Output order follows input order.
type Locator interface {
	Locate(text string, violations []Violation) []Diagnostic
}
