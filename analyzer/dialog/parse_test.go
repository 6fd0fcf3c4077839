package dialog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "LocalizationData": [
    {
      "Language": "en-US",
      "Title": "Sensitive content detected",
      "Body": "Sharing <Bold>%%MatchedLabelName%%</Bold> content.",
      "Options": ["Business need", "Manager approved"]
    },
    {
      "Language": "fr-FR",
      "Title": "Contenu sensible",
      "Body": "Partage",
      "Options": []
    }
  ],
  "HasFreeTextOption": true,
  "DefaultLanguage": "en-US"
}`

func TestParse(t *testing.T) {
	tmpl, err := ParseString(sampleDoc)
	require.NoError(t, err)

	require.Len(t, tmpl.LocalizationData, 2)
	assert.Equal(t, "en-US", tmpl.LocalizationData[0].Language)
	assert.Equal(t, []string{"Business need", "Manager approved"}, tmpl.LocalizationData[0].Options)
	assert.True(t, tmpl.HasFreeTextOption)
	assert.Equal(t, "en-US", tmpl.DefaultLanguage)
	assert.Equal(t, []string{"en-US", "fr-FR"}, tmpl.Languages())

	idx, ok := tmpl.Lookup("fr-FR")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = tmpl.Lookup("de-DE")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		malformed bool
		missing   bool
	}{
		{name: "invalid json", input: `{"LocalizationData": [`, malformed: true},
		{name: "empty input", input: ``, malformed: true},
		{name: "top level array", input: `[1, 2]`, malformed: true},
		{name: "missing array", input: `{"DefaultLanguage": "en-US"}`, missing: true},
		{name: "array is an object", input: `{"LocalizationData": {"Language": "en-US"}}`, missing: true},
		{name: "array is null", input: `{"LocalizationData": null}`, missing: true},
		{name: "null document", input: `null`, missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, tmpl)
			assert.Equal(t, tt.malformed, IsMalformed(err), "IsMalformed")
			assert.Equal(t, tt.missing, IsMissingLocalizationData(err), "IsMissingLocalizationData")
		})
	}
}

func TestParseWrongFieldType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Template
	}{
		{
			name:  "variant field",
			input: `{"LocalizationData": [{"Language": "en-US", "Title": 42, "Body": "B"}]}`,
			want:  Template{LocalizationData: []Variant{{Language: "en-US", Body: "B"}}},
		},
		{
			name:  "document field",
			input: `{"LocalizationData": [{"Language": "en-US", "Title": "T"}], "HasFreeTextOption": "yes", "DefaultLanguage": "en-US"}`,
			want:  Template{LocalizationData: []Variant{{Language: "en-US", Title: "T"}}, DefaultLanguage: "en-US"},
		},
		{
			name:  "later variant",
			input: `{"LocalizationData": [{"Language": "en-US", "Title": "T"}, {"Language": "fr-FR", "Options": "Oui"}]}`,
			want:  Template{LocalizationData: []Variant{{Language: "en-US", Title: "T"}, {Language: "fr-FR"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseString(tt.input)
			require.Error(t, err)
			assert.True(t, IsShape(err))
			assert.False(t, IsMalformed(err))
			require.NotNil(t, tmpl)
			assert.Equal(t, tt.want, *tmpl)
		})
	}
}

func TestParseEmptyArray(t *testing.T) {
	tmpl, err := ParseString(`{"LocalizationData": []}`)
	require.NoError(t, err)
	assert.Empty(t, tmpl.LocalizationData)

	err = RequireVariants(tmpl)
	require.Error(t, err)
	assert.True(t, IsEmpty(err))
	assert.True(t, IsEmpty(RequireVariants(nil)))
}

func TestEncodeKeepsMarkupLiteral(t *testing.T) {
	tmpl := &Template{
		LocalizationData: []Variant{{
			Language: "en-US",
			Title:    "T",
			Body:     "<Bold>x</Bold> & more",
			Options:  []string{"A"},
		}},
		DefaultLanguage: "en-US",
	}

	out, err := Encode(tmpl)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `"Body": "<Bold>x</Bold> & more"`)
	assert.True(t, strings.HasPrefix(text, "{\n  \"LocalizationData\": [\n    {\n      \"Language\": \"en-US\","))
	assert.Less(t, strings.Index(text, "HasFreeTextOption"), strings.Index(text, "DefaultLanguage"))

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, tmpl, back)
}

func TestLength(t *testing.T) {
	assert.Equal(t, 0, Length(""))
	assert.Equal(t, 5, Length("hello"))
	assert.Equal(t, 5, Length("héllo"))
	assert.Equal(t, 2, Length("😀"))
	assert.Equal(t, 76, Length(strings.Repeat("a", 76)))
}
