package dialog

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
)

// DefaultOptions are the placeholder options of a newly created variant.
var DefaultOptions = []string{"Option 1", "Option 2", "Option 3"}

// CreateRequest describes a template to scaffold.
type CreateRequest struct {
	// Languages lists the variant languages in the order they are written.
	Languages []string
	// DefaultLanguage must be one of Languages. It may be left empty when a
	// single language is requested.
	DefaultLanguage string
}

// Validate checks the request against the platform's template rules.
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Languages,
			validation.Required,
			validation.Length(1, MaxLanguages),
			validation.Each(validation.Required, validation.By(languageCode)),
			validation.By(uniqueCodes),
		),
		validation.Field(&r.DefaultLanguage,
			validation.When(len(r.Languages) > 1, validation.Required),
			validation.In(toAny(r.Languages)...).Error("must be one of the selected languages"),
		),
	)
}

// NewTemplate scaffolds a template with an empty Title and Body and three
// placeholder options for every requested language. Free text is enabled.
func NewTemplate(req CreateRequest) (*Template, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.FromOzzoValidation(err, "invalid template request").
			WithTextCode(CodeInvalidRequest)
	}

	def := req.DefaultLanguage
	if def == "" {
		def = req.Languages[0]
	}

	t := &Template{
		LocalizationData:  make([]Variant, 0, len(req.Languages)),
		HasFreeTextOption: true,
		DefaultLanguage:   def,
	}
	for _, code := range req.Languages {
		t.LocalizationData = append(t.LocalizationData, Variant{
			Language: code,
			Options:  append([]string(nil), DefaultOptions...),
		})
	}
	return t, nil
}

func languageCode(value any) error {
	code, _ := value.(string)
	if !languages.Valid(code) {
		return fmt.Errorf("%q is not a valid language code", code)
	}
	return nil
}

func uniqueCodes(value any) error {
	codes, _ := value.([]string)
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			return errors.New("must not contain duplicate languages")
		}
		seen[c] = struct{}{}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
