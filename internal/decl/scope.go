package decl

// MemberKind separates plain fields from getter-style members.
type MemberKind int

const (
	Field MemberKind = iota
	Property
)

// Member is a field or property of a scope that may hold a handle.
// Package-level variables and functions are static members.
type Member struct {
	Name   string
	Kind   MemberKind
	Type   string
	Static bool
}

// Reference returns the expression that reaches m from inside d.
func (m Member) Reference(d Declaration) string {
	ref := m.Name
	if m.Kind == Property {
		ref += "()"
	}
	if m.Static {
		return ref
	}
	return d.ReceiverName() + "." + ref
}

// Scope is the enclosing scope of a declaration.
type Scope struct {
	Name        string
	Annotations []Annotation
	Members     []Member
}

// Module holds the annotations that apply to every scope of a package.
type Module struct {
	Annotations []Annotation
}

// Candidate is one unit of work for the generator.
type Candidate struct {
	Decl   Declaration
	Scope  Scope
	Module Module
}
