package resolve

import (
	"strings"
	"unicode"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

// HandleSuffix is appended to the activity name to form the identifier of a
// generated handle.
const HandleSuffix = "ActivitySource"

// Locate fills in p.HandleExpression. A plan that asks for a new handle gets
// the synthesized identifier, qualified by the receiver type for methods so
// that handles of different types never share a name; an unresolved plan gets the first compatible
// member of s. When nothing matches the expression stays empty.
func Locate(p Plan, d decl.Declaration, s decl.Scope, handleType string) Plan {
	if p.CreateHandle {
		scope := ""
		if d.Receiver != nil {
			scope = receiverTypeName(d.Receiver.Type)
		}
		p.HandleExpression = HandleIdentifier(scope, p.Name)
		return p
	}
	if p.HandleExpression != "" {
		return p
	}

	static := d.Static()
	for _, m := range s.Members {
		if Compatible(m, static, handleType) {
			p.HandleExpression = m.Reference(d)
			break
		}
	}
	return p
}

// Compatible reports whether m can serve as the handle for a declaration.
// Static declarations can only reach static members.
func Compatible(m decl.Member, static bool, handleType string) bool {
	return m.Type == handleType && (!static || m.Static)
}

// HandleIdentifier builds the unexported identifier of a generated handle.
// A non-empty scope is prepended to the name.
func HandleIdentifier(scope, name string) string {
	if scope == "" {
		return downFirst(sanitizeIdent(name)) + HandleSuffix
	}
	return downFirst(sanitizeIdent(scope)) + upFirst(sanitizeIdent(name)) + HandleSuffix
}

// receiverTypeName turns "*Cache[K, V]" into "Cache".
func receiverTypeName(typ string) string {
	typ = strings.TrimPrefix(typ, "*")
	if i := strings.IndexByte(typ, '['); i >= 0 {
		typ = typ[:i]
	}
	return typ
}

func sanitizeIdent(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		out[i] = '_'
	}
	return string(out)
}

func upFirst(s string) string {
	for _, v := range s {
		return string(unicode.ToUpper(v)) + s[len(string(v)):]
	}
	return ""
}

func downFirst(s string) string {
	for _, v := range s {
		return string(unicode.ToLower(v)) + s[len(string(v)):]
	}
	return ""
}
