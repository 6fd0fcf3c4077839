// Package schema checks the shape of a template document against a JSON
// Schema: field types, required keys and unknown keys. Length limits are
// the validator package's concern and are not part of the schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/validator"
)

//go:embed dialog.schema.json
var source []byte

const resourceName = "dialog.schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceName, bytes.NewReader(source)); err != nil {
		return nil, err
	}
	return compiler.Compile(resourceName)
})

// Source returns the JSON Schema document.
func Source() []byte { return bytes.Clone(source) }

// Issue is a single schema failure.
type Issue struct {
	// Pointer is the JSON pointer of the offending value ("" for the root).
	Pointer string `json:"pointer"`
	Message string `json:"message"`
	// Range positions the issue in the document text when Located is true.
	Range   validator.Range `json:"range"`
	Located bool            `json:"located"`
}

// Check validates raw against the template schema and returns the issues
// found, sorted by pointer. Text that is not JSON yields an error for which
// dialog.IsMalformed is true.
func Check(raw []byte) ([]Issue, error) {
	sch, err := compiled()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "template is not valid JSON").
			WithTextCode(dialog.CodeMalformed)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	issues := collect(verr)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Pointer < issues[j].Pointer })
	return issues, nil
}

// collect flattens the leaves of a validation error tree.
func collect(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Pointer: strings.TrimPrefix(strings.TrimSpace(node.InstanceLocation), "#"),
				Message: strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)
	return issues
}

// Locate positions issues in text. An issue whose pointer has no span is
// placed on its nearest enclosing value. Issues are returned unchanged when
// text cannot be indexed.
func Locate(text string, issues []Issue) []Issue {
	if len(issues) == 0 {
		return issues
	}
	idx, err := validator.NewSpanIndex(text)
	if err != nil {
		return issues
	}

	out := make([]Issue, len(issues))
	for i, is := range issues {
		for p := is.Pointer; ; p = parent(p) {
			if r, ok := idx.Range(p); ok {
				is.Range = r
				is.Located = true
				break
			}
			if p == "" {
				break
			}
		}
		out[i] = is
	}
	return out
}

func parent(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}
	dir := path.Dir(pointer)
	if dir == "/" || dir == "." {
		return ""
	}
	return dir
}
