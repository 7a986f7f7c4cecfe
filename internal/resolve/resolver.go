// Package resolve turns the annotations of a declaration into a generation
// plan and finds the handle the generated code should call.
package resolve

import (
	"strings"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

const (
	namePrefix = "Start"
	nameSuffix = "Activity"
)

// Plan is the resolved intent for one declaration.
type Plan struct {
	Kind   decl.Kind
	Name   string
	IsRoot bool

	// HandleExpression is the code that reaches the handle. Empty means it was
	// not resolved yet.
	HandleExpression string

	// CreateHandle asks the emitter to declare a new handle next to the body.
	CreateHandle bool

	// Anchor is the span of the kind-bearing annotation the plan came from.
	Anchor decl.Span
}

// Resolve builds the plan for d. It returns false when d carries no
// kind-bearing annotation. Only the first one counts; later ones are ignored.
func Resolve(d decl.Declaration, s decl.Scope, m decl.Module) (Plan, bool) {
	a, ok := firstActivity(d.Annotations)
	if !ok {
		return Plan{}, false
	}

	p := Plan{
		Kind:   a.ResolvedKind(),
		Name:   DeriveName(d.Name),
		Anchor: a.At,
	}

	if a.Name != nil && *a.Name != "" {
		p.Name = *a.Name
	}
	if a.IsRoot != nil {
		p.IsRoot = *a.IsRoot
	}
	if a.CreateSource != nil {
		p.CreateHandle = *a.CreateSource
	}

	if !p.CreateHandle {
		p.HandleExpression = Reference(d.Annotations, s.Annotations, m.Annotations)
	}

	return p, true
}

// DeriveName strips the conventional Start prefix and Activity suffix.
func DeriveName(name string) string {
	name = strings.TrimPrefix(name, namePrefix)
	return strings.TrimSuffix(name, nameSuffix)
}

// Reference returns the first non-blank source reference, searching the given
// levels from the nearest to the farthest.
func Reference(levels ...[]decl.Annotation) string {
	for _, annotations := range levels {
		for _, a := range annotations {
			ref, ok := a.(decl.SourceReference)
			if !ok {
				continue
			}
			if path := strings.TrimSpace(ref.Path); path != "" {
				return path
			}
		}
	}
	return ""
}

func firstActivity(annotations []decl.Annotation) (decl.ActivityAnnotation, bool) {
	for _, a := range annotations {
		if act, ok := a.(decl.ActivityAnnotation); ok {
			return act, true
		}
	}
	return decl.ActivityAnnotation{}, false
}
