package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
)

func variant(lang string, titleLen, bodyLen int, options ...string) dialog.Variant {
	return dialog.Variant{
		Language: lang,
		Title:    strings.Repeat("t", titleLen),
		Body:     strings.Repeat("b", bodyLen),
		Options:  options,
	}
}

func codes(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Code
	}
	return out
}

func TestValidateLimits(t *testing.T) {
	long := strings.Repeat("o", dialog.MaxOptionLength+1)
	exact := strings.Repeat("o", dialog.MaxOptionLength)

	tests := []struct {
		name    string
		variant dialog.Variant
		want    []string
	}{
		{
			name:    "Everything at the limit",
			variant: variant("en-US", 75, 800, exact, exact, exact),
			want:    []string{},
		},
		{
			name:    "Title one over",
			variant: variant("en-US", 76, 10),
			want:    []string{CodeTitleTooLong},
		},
		{
			name:    "Body one over",
			variant: variant("en-US", 10, 801),
			want:    []string{CodeBodyTooLong},
		},
		{
			name:    "Four options",
			variant: variant("en-US", 10, 10, "a", "b", "c", "d"),
			want:    []string{CodeTooManyOptions},
		},
		{
			name:    "Long option past the third is still checked",
			variant: variant("en-US", 10, 10, "a", "b", "c", long),
			want:    []string{CodeTooManyOptions, CodeOptionTooLong},
		},
		{
			name:    "No options",
			variant: variant("en-US", 0, 0),
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(&dialog.Template{LocalizationData: []dialog.Variant{tt.variant}})
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestValidateTitleActualValue(t *testing.T) {
	got := Validate(&dialog.Template{LocalizationData: []dialog.Variant{variant("en-US", 76, 0)}})
	require.Len(t, got, 1)

	assert.Equal(t, FieldTitle, got[0].Field)
	assert.Equal(t, 76, got[0].Actual)
	assert.Equal(t, 75, got[0].Limit)
	assert.Equal(t, "Title exceeds 75 character limit (current: 76 characters)", got[0].Message)
}

func TestValidateOptionsDetails(t *testing.T) {
	long := strings.Repeat("z", 120)
	got := Validate(&dialog.Template{LocalizationData: []dialog.Variant{
		variant("en-US", 0, 0, "a", "b", "c", "d", long),
	}})
	require.Len(t, got, 2)

	assert.Equal(t, FieldOptions, got[0].Field)
	assert.Equal(t, 5, got[0].Actual)
	assert.Equal(t, "Options array exceeds maximum of 3 items (current: 5 options)", got[0].Message)

	assert.Equal(t, FieldOption, got[1].Field)
	assert.Equal(t, 4, got[1].OptionIndex)
	assert.Equal(t, long, got[1].Text)
	assert.Equal(t, "Option 5 exceeds 100 character limit (current: 120 characters)", got[1].Message)
}

func TestValidateDocumentOrder(t *testing.T) {
	long := strings.Repeat("o", 101)
	tmpl := &dialog.Template{LocalizationData: []dialog.Variant{
		variant("en-US", 80, 900, long, "ok", long, "x"),
		variant("fr-FR", 10, 10),
		variant("de-DE", 0, 801, long),
	}}

	got := Validate(tmpl)

	type key struct {
		variant int
		field   Field
		option  int
	}
	keys := make([]key, len(got))
	for i, v := range got {
		keys[i] = key{v.VariantIndex, v.Field, v.OptionIndex}
	}
	assert.Equal(t, []key{
		{0, FieldTitle, 0},
		{0, FieldBody, 0},
		{0, FieldOptions, 0},
		{0, FieldOption, 0},
		{0, FieldOption, 2},
		{2, FieldBody, 0},
		{2, FieldOption, 0},
	}, keys)
	assert.Equal(t, "de-DE", got[len(got)-1].Language)
}

func TestValidateEmpty(t *testing.T) {
	assert.Empty(t, Validate(nil))
	assert.Empty(t, Validate(&dialog.Template{}))
}

func TestValidateCountsUTF16(t *testing.T) {
	// 38 emoji are 76 UTF-16 code units.
	tmpl := &dialog.Template{LocalizationData: []dialog.Variant{{
		Language: "en-US",
		Title:    strings.Repeat("😀", 38),
	}}}

	got := Validate(tmpl)
	require.Len(t, got, 1)
	assert.Equal(t, 76, got[0].Actual)
}

func TestCheckWrongFieldTypeStillValidates(t *testing.T) {
	text := `{
  "LocalizationData": [
    {
      "Language": "en-US",
      "Title": "` + strings.Repeat("x", 80) + `",
      "Body": "Body"
    }
  ],
  "HasFreeTextOption": "yes"
}`

	diags, err := Check(text, nil)
	require.Error(t, err)
	assert.True(t, dialog.IsShape(err))
	require.Len(t, diags, 1)
	assert.Equal(t, CodeTitleTooLong, diags[0].Code)
	assert.Equal(t, 80, diags[0].Actual)
	assert.Equal(t, 4, diags[0].Line)
}

func TestCheckParseErrors(t *testing.T) {
	_, err := Check("{ not json", nil)
	assert.True(t, dialog.IsMalformed(err))

	_, err = Check(`{"DefaultLanguage": "en-US"}`, nil)
	assert.True(t, dialog.IsMissingLocalizationData(err))

	diags, err := Check(`{"LocalizationData": []}`, nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestLocatorByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Locator
		wantErr bool
	}{
		{name: "", want: LineLocator{}},
		{name: "heuristic", want: LineLocator{}},
		{name: "span", want: SpanLocator{}},
		{name: "exact", want: SpanLocator{}},
		{name: "ast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocatorByName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
