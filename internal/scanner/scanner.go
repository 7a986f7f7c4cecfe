// Package scanner loads source packages and enumerates the annotated
// declarations together with their enclosing scopes.
package scanner

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

const (
	DefaultBuildTag    = "activitygen"
	DefaultHandleType  = "*activity.Source"
	DefaultConstructor = "activity.NewSource"

	testSuffix = "_test.go"
)

// Options control how declarations and members are recognized.
type Options struct {
	// HandleType is the printed type of a tracing source handle.
	HandleType string

	// Constructor is the function whose result is a handle. Used to infer the
	// type of variables declared without one.
	Constructor string

	// ModuleSource is the lowest-precedence handle reference.
	ModuleSource string

	BuildTag string

	// Ignore holds declarations to skip, keyed by "Name" for functions and
	// "Type.Name" for methods.
	Ignore map[string]bool
}

func (o Options) withDefaults() Options {
	if o.HandleType == "" {
		o.HandleType = DefaultHandleType
	}
	if o.Constructor == "" {
		o.Constructor = DefaultConstructor
	}
	if o.BuildTag == "" {
		o.BuildTag = DefaultBuildTag
	}
	return o
}

// FileCandidates represents all annotated declarations found in a single
// source file.
type FileCandidates struct {
	FileName string
	Path     string

	// Imports are the import specs of the file as written, e.g. `"context"`
	// or `tel "example.com/telemetry"`.
	Imports []string

	// Constrained reports whether the file is excluded from normal builds by
	// the build tag.
	Constrained bool

	Candidates []decl.Candidate
	Warnings   []string
}

// ScanPackage scans all files in a package and returns annotated
// declarations grouped by file. Files ending in _test.go or the generated
// suffix are skipped, as are files marked as generated.
func ScanPackage(p *Package, o Options) ([]FileCandidates, error) {
	o = o.withDefaults()

	fileNames := sourceFiles(p)
	idx := buildIndex(p, fileNames, o)

	var result []FileCandidates
	for _, fullPath := range fileNames {
		f := p.Files[fullPath]

		fc := FileCandidates{
			FileName:    filepath.Base(fullPath),
			Path:        fullPath,
			Imports:     importSpecs(f),
			Constrained: constrained(f, o.BuildTag),
		}
		fc.Warnings = append(fc.Warnings, idx.warnings[fullPath]...)

		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Doc == nil || hasIgnoreDirective(fd.Doc) || o.Ignore[ignoreKey(fd)] {
				continue
			}

			annotations, warnings := parseAnnotations(p.Fset, fd.Doc)
			fc.Warnings = append(fc.Warnings, warnings...)
			if !hasActivity(annotations) {
				continue
			}

			fc.Candidates = append(fc.Candidates, idx.candidate(fd, annotations, fc.FileName, o))
		}

		if len(fc.Candidates) == 0 {
			continue
		}
		if !fc.Constrained {
			fc.Warnings = append(fc.Warnings, fmt.Sprintf(
				"%s: declarations are not guarded by //go:build %s; the generated file will redeclare them",
				fc.FileName, o.BuildTag))
		}
		result = append(result, fc)
	}

	return result, nil
}

// sourceFiles lists the files that may hold stubs. Outputs are recognized by
// their generated-code header, not by name.
func sourceFiles(p *Package) []string {
	fileNames := make([]string, 0, len(p.Files))
	for name, f := range p.Files {
		base := filepath.Base(name)
		if f == nil || strings.HasSuffix(base, testSuffix) || ast.IsGenerated(f) {
			continue
		}
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)
	return fileNames
}

// index holds the package-wide facts needed to build scopes.
type index struct {
	pkgName string
	fset    *token.FileSet

	packageAnnotations []decl.Annotation
	vars               []decl.Member
	funcs              []decl.Member

	types   map[string]*typeInfo
	methods map[string][]decl.Member

	warnings map[string][]string
}

type typeInfo struct {
	annotations []decl.Annotation
	fields      []decl.Member
}

func buildIndex(p *Package, fileNames []string, o Options) *index {
	idx := &index{
		pkgName:  p.Name,
		fset:     p.Fset,
		types:    make(map[string]*typeInfo),
		methods:  make(map[string][]decl.Member),
		warnings: make(map[string][]string),
	}

	for _, name := range fileNames {
		f := p.Files[name]

		if f.Doc != nil {
			annotations, warnings := parseAnnotations(p.Fset, f.Doc)
			idx.packageAnnotations = append(idx.packageAnnotations, annotations...)
			idx.warnings[name] = append(idx.warnings[name], warnings...)
		}

		for _, d := range f.Decls {
			switch d := d.(type) {
			case *ast.GenDecl:
				idx.addGenDecl(d, name, o)
			case *ast.FuncDecl:
				idx.addGetter(d)
			}
		}
	}

	return idx
}

func (idx *index) addGenDecl(gd *ast.GenDecl, file string, o Options) {
	switch gd.Tok {
	case token.VAR:
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, n := range vs.Names {
				if n.Name == "_" {
					continue
				}
				idx.vars = append(idx.vars, decl.Member{
					Name:   n.Name,
					Kind:   decl.Field,
					Type:   valueType(vs, i, o),
					Static: true,
				})
			}
		}

	case token.TYPE:
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			info := &typeInfo{}
			for _, cg := range []*ast.CommentGroup{gd.Doc, ts.Doc} {
				if cg == nil {
					continue
				}
				annotations, warnings := parseAnnotations(idx.fset, cg)
				info.annotations = append(info.annotations, annotations...)
				idx.warnings[file] = append(idx.warnings[file], warnings...)
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				info.fields = structFields(st)
			}
			idx.types[ts.Name.Name] = info
		}
	}
}

// addGetter records zero-argument functions and methods with one result as
// properties.
func (idx *index) addGetter(fd *ast.FuncDecl) {
	ft := fd.Type
	if ft.TypeParams != nil || ft.Params.NumFields() != 0 || ft.Results.NumFields() != 1 {
		return
	}

	m := decl.Member{
		Name: fd.Name.Name,
		Kind: decl.Property,
		Type: types.ExprString(ft.Results.List[0].Type),
	}

	if fd.Recv == nil {
		m.Static = true
		idx.funcs = append(idx.funcs, m)
		return
	}

	recv := receiverBase(fd.Recv.List[0].Type)
	idx.methods[recv] = append(idx.methods[recv], m)
}

func (idx *index) candidate(fd *ast.FuncDecl, annotations []decl.Annotation, fileName string, o Options) decl.Candidate {
	d := decl.Declaration{
		Name:        fd.Name.Name,
		TypeParams:  typeParams(fd.Type.TypeParams),
		Params:      fieldList(fd.Type.Params),
		Results:     fieldList(fd.Type.Results),
		Doc:         docLines(fd.Doc),
		File:        fileName,
		Annotations: annotations,
		At:          span(idx.fset, fd.Name),
	}

	var module []decl.Annotation
	if o.ModuleSource != "" {
		module = append(module, decl.SourceReference{Path: o.ModuleSource})
	}

	if fd.Recv == nil {
		d.Scope = idx.pkgName
		members := append(append([]decl.Member{}, idx.vars...), idx.funcs...)
		return decl.Candidate{
			Decl:   d,
			Scope:  decl.Scope{Name: idx.pkgName, Annotations: idx.packageAnnotations, Members: members},
			Module: decl.Module{Annotations: module},
		}
	}

	recv := fd.Recv.List[0]
	d.Receiver = &decl.Receiver{Type: types.ExprString(recv.Type)}
	if len(recv.Names) > 0 {
		d.Receiver.Name = recv.Names[0].Name
	}
	d.Scope = scopeName(recv.Type)

	base := receiverBase(recv.Type)
	s := decl.Scope{Name: d.Scope}
	if info, ok := idx.types[base]; ok {
		s.Annotations = info.annotations
		s.Members = append(s.Members, info.fields...)
	}
	s.Members = append(s.Members, idx.vars...)
	s.Members = append(s.Members, idx.methods[base]...)
	s.Members = append(s.Members, idx.funcs...)

	return decl.Candidate{
		Decl:   d,
		Scope:  s,
		Module: decl.Module{Annotations: append(append([]decl.Annotation{}, idx.packageAnnotations...), module...)},
	}
}

func structFields(st *ast.StructType) []decl.Member {
	var members []decl.Member
	for _, field := range st.Fields.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			members = append(members, decl.Member{Name: embeddedName(field.Type), Kind: decl.Field, Type: typ})
			continue
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				continue
			}
			members = append(members, decl.Member{Name: n.Name, Kind: decl.Field, Type: typ})
		}
	}
	return members
}

// valueType returns the declared type of the i-th name of vs, or infers it
// from the initializer.
func valueType(vs *ast.ValueSpec, i int, o Options) string {
	if vs.Type != nil {
		return types.ExprString(vs.Type)
	}
	if i >= len(vs.Values) {
		return ""
	}

	switch v := vs.Values[i].(type) {
	case *ast.UnaryExpr:
		if lit, ok := v.X.(*ast.CompositeLit); ok && v.Op == token.AND && lit.Type != nil {
			return "*" + types.ExprString(lit.Type)
		}
	case *ast.CompositeLit:
		if v.Type != nil {
			return types.ExprString(v.Type)
		}
	case *ast.CallExpr:
		if types.ExprString(v.Fun) == o.Constructor {
			return o.HandleType
		}
	}
	return ""
}

func fieldList(fl *ast.FieldList) []decl.Parameter {
	if fl == nil {
		return nil
	}
	var params []decl.Parameter
	for _, field := range fl.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			params = append(params, decl.Parameter{Type: typ})
			continue
		}
		for _, n := range field.Names {
			params = append(params, decl.Parameter{Name: n.Name, Type: typ})
		}
	}
	return params
}

func typeParams(fl *ast.FieldList) string {
	if fl == nil || len(fl.List) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fl.List))
	for _, field := range fl.List {
		names := make([]string, len(field.Names))
		for i, n := range field.Names {
			names[i] = n.Name
		}
		parts = append(parts, strings.Join(names, ", ")+" "+types.ExprString(field.Type))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// scopeName is the receiver type without pointer, e.g. Cache[K, V].
func scopeName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	return types.ExprString(expr)
}

func receiverBase(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return types.ExprString(expr)
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return types.ExprString(expr)
}

func ignoreKey(fd *ast.FuncDecl) string {
	if fd.Recv == nil {
		return fd.Name.Name
	}
	return receiverBase(fd.Recv.List[0].Type) + "." + fd.Name.Name
}

func parseAnnotations(fset *token.FileSet, cg *ast.CommentGroup) ([]decl.Annotation, []string) {
	var (
		annotations []decl.Annotation
		warnings    []string
	)
	for _, c := range cg.List {
		at := span(fset, c)
		a, ok, err := ParseDirective(strings.TrimSpace(c.Text), at)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", at.Start, err))
			continue
		}
		if ok {
			annotations = append(annotations, a)
		}
	}
	return annotations, warnings
}

func hasActivity(annotations []decl.Annotation) bool {
	for _, a := range annotations {
		if _, ok := a.(decl.ActivityAnnotation); ok {
			return true
		}
	}
	return false
}

func hasIgnoreDirective(cg *ast.CommentGroup) bool {
	for _, c := range cg.List {
		if strings.TrimSpace(c.Text) == DirectivePrefix+ignoreVerb {
			return true
		}
	}
	return false
}

// docLines returns the doc comment without directives and without the
// trailing empty lines they leave behind.
func docLines(cg *ast.CommentGroup) []string {
	var lines []string
	for _, c := range cg.List {
		if IsDirective(strings.TrimSpace(c.Text)) {
			continue
		}
		lines = append(lines, c.Text)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "//" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func importSpecs(f *ast.File) []string {
	specs := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		spec := imp.Path.Value
		if imp.Name != nil {
			spec = imp.Name.Name + " " + spec
		}
		specs = append(specs, spec)
	}
	return specs
}

// constrained reports whether f is left out of builds that do not set tag.
func constrained(f *ast.File, tag string) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return false
			}
			without := expr.Eval(func(t string) bool { return t != tag })
			with := expr.Eval(func(t string) bool { return true })
			return with && !without
		}
	}
	return false
}

func span(fset *token.FileSet, n ast.Node) decl.Span {
	s := decl.Span{Pos: n.Pos(), End: n.End()}
	if fset != nil {
		s.Start = fset.Position(n.Pos())
	}
	return s
}
