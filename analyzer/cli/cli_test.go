package cli

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/validator"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/workspace"
)

var longTitle = strings.Repeat("T", 76)

var templateText = `{
  "LocalizationData": [
    {
      "Language": "en-US",
      "Title": "` + longTitle + `",
      "Body": "Contains %%MatchedLabelName%% data",
      "Options": ["Continue"]
    },
    {
      "Language": "fr-FR",
      "Title": "Arrêt",
      "Body": "Corps",
      "Options": ["Continuer"]
    }
  ],
  "HasFreeTextOption": true,
  "DefaultLanguage": "en-US"
}
`

const cleanText = `{
  "LocalizationData": [
    {"Language": "en-US", "Title": "Short", "Body": "Fine", "Options": []}
  ],
  "HasFreeTextOption": false,
  "DefaultLanguage": "en-US"
}
`

// isolate keeps configuration files of the host out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func TestValidateText(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "dialog.json", templateText)
	good := writeFile(t, dir, "clean.json", cleanText)

	out, _, err := run(t, "validate", "--no-color", bad, good)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, bad+":5:1: error:")
	assert.Contains(t, out, "[title-too-long]")
	assert.Contains(t, out, "1 problem(s) in 2 file(s)")

	out, _, err = run(t, "validate", "--no-color", good)
	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")
}

func TestValidateNoFail(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "dialog.json", templateText)

	_, _, err := run(t, "validate", "--fail-on-diagnostics=false", bad)
	assert.NoError(t, err)
}

func TestValidateJSON(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "dialog.json", templateText)
	broken := writeFile(t, dir, "broken.json", `{"LocalizationData": [`)

	out, _, err := run(t, "validate", "--json", "--locator", "span", bad, broken)
	assert.Equal(t, 1, exitCode(err))

	var reports []FileReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)

	require.Len(t, reports[0].Diagnostics, 1)
	d := reports[0].Diagnostics[0]
	assert.Equal(t, "title-too-long", d.Code)
	assert.Equal(t, 4, d.Line)
	assert.Equal(t, 76, d.Actual)
	// The span locator starts at the member key.
	assert.Equal(t, 6, d.ColumnStart)

	assert.NotEmpty(t, reports[1].Error)
	assert.Empty(t, reports[1].Diagnostics)
}

func TestValidateCompressed(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "dialog.json", templateText)

	out, _, err := run(t, "validate", "--compress", bad)
	assert.Equal(t, 2, exitCode(err))

	gz, err := gzip.NewReader(strings.NewReader(out))
	require.NoError(t, err)
	var reports []FileReport
	require.NoError(t, json.NewDecoder(gz).Decode(&reports))
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].Diagnostics, 1)
}

func TestValidateSchema(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "extra.json", `{
  "LocalizationData": [{"Language": "en-US", "Title": 42}],
  "Extra": true
}`)

	out, _, err := run(t, "validate", "--json", "--schema", path)
	assert.Equal(t, 1, exitCode(err), "Title is not a string")

	var reports []FileReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].SchemaIssues, 2)
	assert.Contains(t, reports[0].Error, "wrong type")

	out, _, err = run(t, "validate", "--no-color", "--schema", path)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "(schema /LocalizationData/0/Title)")
	assert.Contains(t, out, "(schema /)")
	assert.Contains(t, out, path+": error: ")
	assert.Contains(t, out, "3 problem(s) in 1 file(s)")
	// Located issues come before the error they explain.
	assert.Less(t, strings.Index(out, "(schema /LocalizationData/0/Title)"), strings.Index(out, path+": error: "))
}

func TestValidateWrongFieldTypeReportsLimits(t *testing.T) {
	dir := isolate(t)
	text := strings.Replace(templateText, `"HasFreeTextOption": true`, `"HasFreeTextOption": "yes"`, 1)
	path := writeFile(t, dir, "dialog.json", text)

	out, _, err := run(t, "validate", "--no-color", path)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, path+":5:1: error:")
	assert.Contains(t, out, "[title-too-long]")
	assert.Contains(t, out, "wrong type")
}

func TestValidateUnknownLocator(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "dialog.json", cleanText)

	_, _, err := run(t, "validate", "--locator", "ast", path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestRenderFormats(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "dialog.json", templateText)

	out, _, err := run(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Contains Confidential data")

	out, _, err = run(t, "render", "--format", "json", "--lang", "fr-FR", path)
	require.NoError(t, err)
	var c render.Content
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "fr-FR", c.Language)
	assert.Equal(t, render.ReasonRequested, c.Reason)

	out, _, err = run(t, "render", "--format", "json", "--lang", "zz-ZZ", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "en-US", c.Language)
	assert.Equal(t, render.ReasonDefault, c.Reason)

	out, _, err = run(t, "render", "--format", "terminal", "--lang", "fr-FR", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Arrêt")
	assert.Contains(t, out, "Continuer")

	_, _, err = run(t, "render", "--format", "pdf", path)
	assert.Error(t, err)
}

func TestRenderTokensFromConfig(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "dialog.json", templateText)
	cfg := writeFile(t, dir, "custom.yaml", "tokens:\n  MatchedLabelName: Top Secret\n")

	out, _, err := run(t, "render", "--config", cfg, "-f", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Contains Top Secret data")
}

func TestRenderEmptyTemplate(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "empty.json", `{"LocalizationData": []}`)

	_, _, err := run(t, "render", path)
	require.Error(t, err)
	assert.True(t, dialog.IsEmpty(err))
}

func TestNew(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "new.json")

	_, errOut, err := run(t, "new", "--lang", "en-US,fr-FR", "--default", "fr-FR", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, errOut, "with 2 language(s)")

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	tmpl, err := dialog.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"en-US", "fr-FR"}, tmpl.Languages())
	assert.Equal(t, "fr-FR", tmpl.DefaultLanguage)
	assert.True(t, tmpl.HasFreeTextOption)
	assert.Equal(t, dialog.DefaultOptions, tmpl.LocalizationData[0].Options)

	// An existing file is only replaced with --force.
	_, _, err = run(t, "new", "-o", target)
	require.Error(t, err)
	_, _, err = run(t, "new", "-o", target, "--force")
	require.NoError(t, err)
}

func TestNewInvalid(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "new", "--lang", "en-US,fr-FR")
	require.Error(t, err)
	assert.True(t, dialog.IsInvalidRequest(err))

	_, _, err = run(t, "new", "--lang", "en-US,en-US", "--default", "en-US")
	assert.True(t, dialog.IsInvalidRequest(err))
}

func TestNewToStdout(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "new")
	require.NoError(t, err)
	tmpl, err := dialog.ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "en-US", tmpl.DefaultLanguage)
}

func TestLanguages(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "fr-FR")
	assert.Contains(t, out, "French (France)")

	out, _, err = run(t, "languages", "--json")
	require.NoError(t, err)
	var list []struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, "en-US", list[0].Code)
}

func TestTokens(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "custom.yaml", "tokens:\n  MatchedLabelName: Secret\n  Region: EU\n")

	out, _, err := run(t, "tokens", "--config", cfg, "--json")
	require.NoError(t, err)

	var entries []tokenEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(render.KnownTokens)+1)
	assert.Equal(t, "MatchedRecipientsList", entries[0].Name)
	assert.Equal(t, "Secret", entries[1].Value)
	assert.Equal(t, "%%region%%", entries[4].Placeholder)

	out, _, err = run(t, "tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "%%MatchedLabelName%%")
	assert.Contains(t, out, "Confidential")
}

func TestInvalidConfig(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "bad.yaml", "log:\n  format: xml\n")

	_, _, err := run(t, "languages", "--config", cfg)
	require.Error(t, err)
}

func TestFileWatcherLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dialog.json", templateText)

	session := workspace.NewSession(workspace.SessionConfig{
		URI:      fileURI(path),
		Debounce: 10 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(session.Close)
	docs := workspace.NewDocuments(nil, zerolog.Nop())

	var snaps []workspace.Snapshot
	w := newFileWatcher(path, docs, session, zerolog.Nop())
	w.onSnapshot = func(s workspace.Snapshot) { snaps = append(snaps, s) }

	w.load()
	require.Len(t, snaps, 1)
	assert.Equal(t, workspace.OutcomeReplaced, snaps[0].Outcome)
	assert.Len(t, snaps[0].Diagnostics, 1)

	c, ok := session.Content()
	require.True(t, ok, "the first load renders immediately")
	assert.Equal(t, 76, c.Stats.TitleLength)

	// A broken save keeps the diagnostics and the preview.
	writeFile(t, dir, "dialog.json", `{"LocalizationData": [`)
	w.load()
	assert.Equal(t, workspace.OutcomeKept, snaps[1].Outcome)
	assert.Len(t, snaps[1].Diagnostics, 1)

	writeFile(t, dir, "dialog.json", cleanText)
	w.load()
	assert.Equal(t, 3, snaps[2].Version)
	assert.Empty(t, snaps[2].Diagnostics)

	assert.Eventually(t, func() bool {
		c, _ := session.Content()
		return c.Stats.TitleLength == 5
	}, time.Second, 5*time.Millisecond)
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	printSnapshot(&buf, "d.json", workspace.Snapshot{Outcome: workspace.OutcomeReplaced})
	assert.Equal(t, "d.json: no problems found\n", buf.String())
}

func TestPrintSnapshotWithError(t *testing.T) {
	var buf bytes.Buffer
	printSnapshot(&buf, "d.json", workspace.Snapshot{
		Outcome: workspace.OutcomeReplaced,
		Diagnostics: []validator.Diagnostic{{
			Violation: validator.Violation{Code: validator.CodeTitleTooLong, Message: "Title too long"},
			Line:      4,
		}},
		Err: errors.New("template field has the wrong type"),
	})
	assert.Equal(t, "d.json:5:1: error: Title too long [title-too-long]\nd.json: template field has the wrong type\n", buf.String())
}
