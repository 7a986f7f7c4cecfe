package codegen

import (
	"bytes"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/tuanvm-tyson/activitygen/internal/emit"
)

// DefaultRuntimeImport is the import path of the activity runtime.
const DefaultRuntimeImport = "github.com/tuanvm-tyson/activitygen/activity"

const headerTemplate = `// Code generated by activitygen. DO NOT EDIT.
// source: {{.Source}}
// activitygen: http://github.com/tuanvm-tyson/activitygen

//go:build !{{.BuildTag}}

package {{.Package}}
{{if .Generate}}
//go:generate {{.Generate}}
{{end}}
import (
{{- range .Imports | uniq}}
	{{.}}
{{- end}}
)

`

var header = template.Must(template.New("header").Funcs(sprig.TxtFuncMap()).Parse(headerTemplate))

// FileSpec describes one generated file.
type FileSpec struct {
	// Path is the destination of the file; it drives import grouping.
	Path string

	Package string

	// Source is the stub file name the bodies were generated from.
	Source   string
	BuildTag string

	// Generate is the go:generate command. Empty omits the directive.
	Generate string

	// Imports are import specs copied from the stub file.
	Imports []string

	// RuntimeImport is added to Imports; empty means DefaultRuntimeImport.
	RuntimeImport string

	Bodies []emit.Body
}

// Collision records two bodies with the same artifact key. The later one
// replaces the earlier one.
type Collision struct {
	Key      string
	Replaced string
	Winner   string
}

// AssembleFile renders the file described by spec and formats it. Unused
// imports are dropped.
func AssembleFile(spec FileSpec) ([]byte, []Collision, error) {
	runtimeImport := spec.RuntimeImport
	if runtimeImport == "" {
		runtimeImport = DefaultRuntimeImport
	}

	var buf bytes.Buffer
	err := header.Execute(&buf, struct {
		FileSpec
		Imports []string
	}{
		FileSpec: spec,
		Imports:  append(append([]string{}, spec.Imports...), strconv.Quote(runtimeImport)),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to execute header template")
	}

	bodies, collisions := dedupe(spec.Bodies)
	for i, b := range bodies {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(b.String())
	}

	processed, err := imports.Process(spec.Path, buf.Bytes(), nil)
	if err != nil {
		return nil, collisions, errors.Wrapf(err, "failed to format generated code:\n%s", buf.String())
	}
	return processed, collisions, nil
}

// dedupe keeps one body per artifact key. A repeated key overwrites the
// earlier body in place.
func dedupe(bodies []emit.Body) ([]emit.Body, []Collision) {
	var (
		out        []emit.Body
		collisions []Collision
		seen       = make(map[string]int, len(bodies))
	)
	for _, b := range bodies {
		if i, ok := seen[b.Key]; ok {
			collisions = append(collisions, Collision{Key: b.Key, Replaced: out[i].Name, Winner: b.Name})
			out[i] = b
			continue
		}
		seen[b.Key] = len(out)
		out = append(out, b)
	}
	return out, collisions
}
