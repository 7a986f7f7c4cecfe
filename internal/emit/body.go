package emit

import (
	"fmt"
	"strings"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

// Body is the rendered code of one declaration.
type Body struct {
	// Key identifies the artifact; see ArtifactKey.
	Key string

	// Name of the generated function or method.
	Name string

	// File is the stub file the declaration was read from.
	File string

	Lines []string
}

func (b Body) String() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return strings.Join(b.Lines, "\n") + "\n"
}

type lineWriter struct {
	out []string
}

func (w *lineWriter) line(indent int, format string, args ...interface{}) {
	s := fmt.Sprintf(format, args...)
	if s == "" {
		w.out = append(w.out, "")
		return
	}
	w.out = append(w.out, strings.Repeat("\t", indent)+s)
}

func (w *lineWriter) lines(ls []string) {
	w.out = append(w.out, ls...)
}

func (w *lineWriter) signature(d decl.Declaration) {
	head := "func "
	if d.Receiver != nil {
		head += "(" + d.ReceiverName() + " " + d.Receiver.Type + ") "
	}
	head += d.Name + d.TypeParams

	results := resultList(d.Results)
	if len(d.Params) == 0 {
		w.line(0, "%s()%s {", head, results)
		return
	}

	w.line(0, "%s(", head)
	for i, p := range d.Params {
		w.line(1, "%s %s,", p.Ref(i), p.Type)
	}
	w.line(0, ")%s {", results)
}

// resultList renders " T" for a single unnamed result and a parenthesized
// list otherwise.
func resultList(results []decl.Parameter) string {
	switch {
	case len(results) == 0:
		return ""
	case len(results) == 1 && results[0].Name == "":
		return " " + results[0].Type
	}

	named := false
	for _, r := range results {
		if r.Name != "" {
			named = true
			break
		}
	}

	parts := make([]string, len(results))
	for i, r := range results {
		if named {
			parts[i] = r.Name + " " + r.Type
		} else {
			parts[i] = r.Type
		}
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
