// Package emit renders the body of an activity-starting declaration from a
// resolved plan.
package emit

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
	"github.com/tuanvm-tyson/activitygen/internal/diag"
	"github.com/tuanvm-tyson/activitygen/internal/resolve"
)

const (
	DefaultRuntime     = "activity"
	DefaultContextType = "context.Context"
)

// Options control the identifiers used in generated code.
type Options struct {
	// Runtime is the package qualifier of the activity runtime.
	Runtime string

	// ContextType is the printed type of a context carrier parameter.
	ContextType string

	// Constructor creates a handle from an activity name. Defaults to
	// NewSource of the runtime.
	Constructor string
}

func (o Options) withDefaults() Options {
	if o.Runtime == "" {
		o.Runtime = DefaultRuntime
	}
	if o.ContextType == "" {
		o.ContextType = DefaultContextType
	}
	if o.Constructor == "" {
		o.Constructor = o.Runtime + ".NewSource"
	}
	return o
}

// Failure is returned when a plan cannot be rendered.
type Failure struct {
	Descriptor diag.Descriptor
	Anchor     decl.Span
	Args       []interface{}
}

func (f *Failure) Error() string {
	return f.Diagnostic().Message(language.English)
}

// Diagnostic converts f into a reportable diagnostic.
func (f *Failure) Diagnostic() diag.Diagnostic {
	return diag.New(f.Descriptor, f.Anchor, f.Args...)
}

// Emit renders the declaration described by d with the behavior of p.
func Emit(p resolve.Plan, d decl.Declaration, o Options) (Body, error) {
	o = o.withDefaults()

	if p.Kind == decl.KindUnspecified {
		return Body{}, &Failure{Descriptor: diag.KindUnspecified, Anchor: p.Anchor, Args: []interface{}{d.Name}}
	}
	if p.HandleExpression == "" {
		return Body{}, &Failure{Descriptor: diag.SourceUnresolved, Anchor: p.Anchor, Args: []interface{}{d.Name}}
	}

	carrier, tags := classify(d.Params, o.ContextType)

	var w lineWriter
	if p.CreateHandle {
		w.line(0, "var %s = %s(%s)", p.HandleExpression, o.Constructor, strconv.Quote(p.Name))
		w.line(0, "")
	}

	w.lines(docLines(p, d))
	w.signature(d)

	call := p.HandleExpression + ".StartActivity("
	if len(d.Results) > 0 {
		call = "return " + call
	}
	w.line(1, "%s", call)
	w.line(2, "%s,", strconv.Quote(p.Name))
	w.line(2, "%s.Kind%s,", o.Runtime, p.Kind)

	if len(d.Params) > 0 || p.IsRoot {
		w.line(2, "%s.WithParent(%s),", o.Runtime, parentExpression(carrier, p.IsRoot, o.Runtime))
		if len(tags) > 0 {
			w.line(2, "%s.WithTags(", o.Runtime)
			for _, t := range tags {
				w.line(3, "%s.Tag(%s, %s),", o.Runtime, strconv.Quote(t), t)
			}
			w.line(2, "),")
		}
	}

	w.line(1, ")")
	w.line(0, "}")

	return Body{
		Key:   ArtifactKey(d.Scope, p.Name),
		Name:  d.Name,
		File:  d.File,
		Lines: w.out,
	}, nil
}

// classify picks the first parameter of the context type as the carrier and
// returns the remaining parameter references as tags, in order.
func classify(params []decl.Parameter, contextType string) (carrier string, tags []string) {
	found := false
	for i, p := range params {
		if !found && p.Type == contextType {
			carrier = p.Ref(i)
			found = true
			continue
		}
		tags = append(tags, p.Ref(i))
	}
	return carrier, tags
}

func parentExpression(carrier string, root bool, rt string) string {
	switch {
	case carrier != "":
		return carrier
	case root:
		return rt + ".NewRootContext()"
	default:
		return rt + ".NoParent"
	}
}

func docLines(p resolve.Plan, d decl.Declaration) []string {
	if len(d.Doc) > 0 {
		return d.Doc
	}
	if d.Accessibility() != decl.Exported {
		return nil
	}
	return []string{"// " + d.Name + " starts the " + strconv.Quote(p.Name) + " activity."}
}

// ArtifactKey identifies the generated body of activity name inside scope.
func ArtifactKey(scope, name string) string {
	return keyReplacer.Replace(scope) + "." + name
}

var keyReplacer = strings.NewReplacer("[", "_", "]", "_", ",", "_", " ", "_")
