package decl

import "go/token"

// Span is the source range an annotation was read from.
type Span struct {
	Pos   token.Pos
	End   token.Pos
	Start token.Position
}

// Annotation is one recognized directive. The set of implementations is closed:
// ActivityAnnotation and SourceReference.
type Annotation interface {
	Span() Span
	isAnnotation()
}

// Form tells which directive an ActivityAnnotation came from.
type Form int

const (
	FormGeneric Form = iota
	FormInternal
	FormServer
	FormClient
	FormProducer
	FormConsumer
)

var formKinds = map[Form]Kind{
	FormInternal: KindInternal,
	FormServer:   KindServer,
	FormClient:   KindClient,
	FormProducer: KindProducer,
	FormConsumer: KindConsumer,
}

// ActivityAnnotation is a kind-bearing directive such as //activity:server.
// Optional arguments are nil when they were not written.
type ActivityAnnotation struct {
	Form Form

	// Kind is only read for FormGeneric; the specific forms imply their kind.
	Kind Kind

	Name         *string
	IsRoot       *bool
	CreateSource *bool

	At Span
}

// ResolvedKind returns the kind the annotation stands for.
func (a ActivityAnnotation) ResolvedKind() Kind {
	if k, ok := formKinds[a.Form]; ok {
		return k
	}
	return a.Kind
}

func (a ActivityAnnotation) Span() Span { return a.At }

func (ActivityAnnotation) isAnnotation() {}

// SourceReference names an existing handle by expression, e.g. telemetry.Source.
type SourceReference struct {
	Path string
	At   Span
}

func (r SourceReference) Span() Span { return r.At }

func (SourceReference) isAnnotation() {}
