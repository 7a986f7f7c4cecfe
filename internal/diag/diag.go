// Package diag defines the diagnostics reported when an annotated declaration
// cannot be generated, and a collector for them.
package diag

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Descriptor identifies a class of diagnostics. Format is the English message
// and the catalog key is ID.
type Descriptor struct {
	ID       string
	Title    string
	Format   string
	Severity Severity
}

var (
	SourceUnresolved = Descriptor{
		ID:       "ACTGEN0001",
		Title:    "Activity source cannot be resolved",
		Format:   "Failed to resolve activity source for declaration '%s'",
		Severity: Error,
	}
	KindUnspecified = Descriptor{
		ID:       "ACTGEN0002",
		Title:    "Activity kind is not specified",
		Format:   "Activity kind is not specified for declaration '%s'",
		Severity: Error,
	}
)

// Descriptors lists every known descriptor.
var Descriptors = []Descriptor{SourceUnresolved, KindUnspecified}

// Language is the default language of rendered messages.
var Language = language.English

var messages = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	// Und catches every language without its own translation.
	for _, tag := range []language.Tag{language.English, language.Und} {
		for _, d := range Descriptors {
			if err := messages.SetString(tag, d.ID, d.Format); err != nil {
				panic(err)
			}
		}
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Descriptor
	At   decl.Span
	Args []interface{}
}

// New creates a diagnostic of descriptor d.
func New(d Descriptor, at decl.Span, args ...interface{}) Diagnostic {
	return Diagnostic{Descriptor: d, At: at, Args: args}
}

// Message renders the diagnostic text in the language closest to tag.
func (d Diagnostic) Message(tag language.Tag) string {
	p := message.NewPrinter(tag, message.Catalog(messages))
	return p.Sprintf(d.ID, d.Args...)
}

func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s: %s", d.ID, d.Message(Language))
	if !d.At.Start.IsValid() {
		return msg
	}
	return d.At.Start.String() + ": " + msg
}

// Sink receives diagnostics.
type Sink interface {
	Report(Diagnostic)
}

// Reporter is a Sink collecting diagnostics. It is safe for concurrent use.
type Reporter struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (r *Reporter) Report(d Diagnostic) {
	r.mu.Lock()
	r.diags = append(r.diags, d)
	r.mu.Unlock()
}

// Len returns the number of collected diagnostics.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// HasErrors reports whether an error-severity diagnostic was collected.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns a copy of the collected diagnostics sorted by position.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].At.Start, out[j].At.Start
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Fprint writes every diagnostic of r on its own line.
func (r *Reporter) Fprint(w io.Writer) error {
	for _, d := range r.Diagnostics() {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}
