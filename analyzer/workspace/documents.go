/*
Package workspace owns the per-document and per-preview state that sits
between an editor host and the pure validation and rendering packages.

State is never global. Documents keys diagnostics by document URI, and
every preview has its own Session holding its selected language, its last
good content and its debounced re-render.
*/
package workspace

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/dialog"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/validator"
)

// TemplateLanguageID is the document language identifier of dialog
// templates. Documents of any other language carry no diagnostics.
const TemplateLanguageID = "dialog-template-json"

// Outcome says what an Update did to a document's diagnostics.
type Outcome string

const (
	// OutcomeReplaced means the diagnostics were recomputed and replaced.
	OutcomeReplaced Outcome = "replaced"
	// OutcomeKept means the text did not parse and the previous
	// diagnostics were kept.
	OutcomeKept Outcome = "kept"
	// OutcomeCleared means the document is not a template and its
	// diagnostics were removed.
	OutcomeCleared Outcome = "cleared"
	// OutcomeStale means a newer version had already been validated.
	OutcomeStale Outcome = "stale"
)

// Snapshot is the diagnostic state of one document after an Update.
type Snapshot struct {
	URI         string                 `json:"uri"`
	Version     int                    `json:"version"`
	Outcome     Outcome                `json:"outcome"`
	Diagnostics []validator.Diagnostic `json:"diagnostics"`
	// Err is the parse error of the latest text, if any.
	Err error `json:"-"`
}

type document struct {
	// mu serializes validation runs of the document and guards the fields.
	mu      sync.Mutex
	version int
	diags   []validator.Diagnostic
}

// Documents stores the diagnostics of every open document.
//
// Validation runs for one document never overlap, and each run replaces
// the previous diagnostic slice as a whole. Slices handed out are never
// modified afterwards. Different documents validate independently.
type Documents struct {
	locator validator.Locator
	log     zerolog.Logger

	mu   sync.Mutex
	docs map[string]*document
}

// NewDocuments returns an empty store positioning diagnostics with loc
// (nil for validator.LineLocator).
func NewDocuments(loc validator.Locator, log zerolog.Logger) *Documents {
	if loc == nil {
		loc = validator.LineLocator{}
	}
	return &Documents{
		locator: loc,
		log:     log.With().Str("component", "documents").Logger(),
		docs:    make(map[string]*document),
	}
}

func (d *Documents) get(uri string) *document {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[uri]
	if !ok {
		doc = &document{version: -1}
		d.docs[uri] = doc
	}
	return doc
}

// Update validates text as version of the document at uri.
//
//   - A languageID other than TemplateLanguageID clears the diagnostics.
//   - Text that is not valid JSON keeps the previous diagnostics, since it
//     is usually a transient state mid-edit.
//   - Valid JSON without a LocalizationData array has nothing to validate
//     and yields no diagnostics.
//   - Valid JSON with a field of the wrong type is validated as far as it
//     decoded; Err carries the type error.
//   - Otherwise the diagnostics are recomputed and replaced.
//
// Versions lower than the last one seen are ignored. Pass 0 when the host
// does not track versions.
func (d *Documents) Update(uri, languageID string, version int, text string) Snapshot {
	doc := d.get(uri)
	doc.mu.Lock()
	defer doc.mu.Unlock()

	snap := Snapshot{URI: uri, Version: version}
	if version < doc.version {
		snap.Outcome = OutcomeStale
		snap.Version = doc.version
		snap.Diagnostics = doc.diags
		return snap
	}
	doc.version = version

	if languageID != TemplateLanguageID {
		doc.diags = nil
		snap.Outcome = OutcomeCleared
		return snap
	}

	diags, err := validator.Check(text, d.locator)
	switch {
	case dialog.IsMalformed(err):
		d.log.Debug().Str("uri", uri).Err(err).Msg("keeping diagnostics of last parsable text")
		snap.Outcome = OutcomeKept
		snap.Diagnostics = doc.diags
		snap.Err = err
		return snap
	case dialog.IsShape(err):
		snap.Err = err
	case err != nil:
		diags = nil
		snap.Err = err
	}

	doc.diags = diags
	snap.Outcome = OutcomeReplaced
	snap.Diagnostics = diags
	d.log.Debug().Str("uri", uri).Int("version", version).Int("diagnostics", len(diags)).Msg("validated")
	return snap
}

// Diagnostics returns the current diagnostics of uri.
func (d *Documents) Diagnostics(uri string) ([]validator.Diagnostic, bool) {
	d.mu.Lock()
	doc, ok := d.docs[uri]
	d.mu.Unlock()
	if !ok {
		return nil, false
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.diags, true
}

// Close forgets the document at uri.
func (d *Documents) Close(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.docs, uri)
}

// URIs returns the URIs of all tracked documents, sorted.
func (d *Documents) URIs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	uris := make([]string, 0, len(d.docs))
	for uri := range d.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
