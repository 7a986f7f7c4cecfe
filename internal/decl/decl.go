// Package decl holds the read-only view of annotated declarations and their
// enclosing scopes that the resolver, locator and emitter work on.
package decl

import (
	"go/ast"
	"strconv"
)

// DefaultReceiverName is used when a method stub leaves its receiver unnamed.
const DefaultReceiverName = "recv"

// Accessibility of a declaration, derived from its identifier.
type Accessibility int

const (
	Unexported Accessibility = iota
	Exported
)

func (a Accessibility) String() string {
	if a == Exported {
		return "exported"
	}
	return "unexported"
}

// Parameter is a named, typed entry of a parameter or result list.
// Type is the printed type expression.
type Parameter struct {
	Name string
	Type string
}

// Ref returns the identifier used to reference the i-th parameter in generated
// code: blank and missing names become argN.
func (p Parameter) Ref(i int) string {
	if p.Name == "" || p.Name == "_" {
		return "arg" + strconv.Itoa(i)
	}
	return p.Name
}

// Receiver of a method declaration.
type Receiver struct {
	Name string
	Type string
}

// Declaration is one candidate stub.
type Declaration struct {
	Name       string
	Receiver   *Receiver
	TypeParams string
	Params     []Parameter
	Results    []Parameter

	// Doc holds the doc comment lines that are not directives, with their
	// comment markers.
	Doc []string

	// Scope is the name of the owning scope: the receiver type name or the
	// package name.
	Scope string
	File  string

	Annotations []Annotation
	At          Span
}

// Static reports whether the declaration is package-level.
func (d Declaration) Static() bool {
	return d.Receiver == nil
}

// Accessibility of the declared identifier.
func (d Declaration) Accessibility() Accessibility {
	if ast.IsExported(d.Name) {
		return Exported
	}
	return Unexported
}

// ReceiverName is the receiver identifier used in generated code.
func (d Declaration) ReceiverName() string {
	if d.Receiver == nil || d.Receiver.Name == "" || d.Receiver.Name == "_" {
		return DefaultReceiverName
	}
	return d.Receiver.Name
}
