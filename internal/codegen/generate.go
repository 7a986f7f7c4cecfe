// Package codegen runs the resolve, locate and emit pipeline over candidate
// declarations and assembles the generated files.
package codegen

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
	"github.com/tuanvm-tyson/activitygen/internal/diag"
	"github.com/tuanvm-tyson/activitygen/internal/emit"
	"github.com/tuanvm-tyson/activitygen/internal/resolve"
	"github.com/tuanvm-tyson/activitygen/internal/scanner"
)

// Options for a generation run.
type Options struct {
	Emit emit.Options

	// HandleType is the printed type of a tracing source handle.
	HandleType string

	// Workers limits the number of declarations processed at once. Zero means
	// one per CPU.
	Workers int
}

func (o Options) handleType() string {
	if o.HandleType == "" {
		return scanner.DefaultHandleType
	}
	return o.HandleType
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Result is the outcome for one candidate. Applicable is false when the
// declaration carries no kind-bearing annotation; otherwise exactly one of
// Body and Diagnostic is set.
type Result struct {
	Candidate  decl.Candidate
	Applicable bool
	Body       *emit.Body
	Diagnostic *diag.Diagnostic
}

// Generate processes a single candidate.
func Generate(c decl.Candidate, o Options) Result {
	r := Result{Candidate: c}

	p, ok := resolve.Resolve(c.Decl, c.Scope, c.Module)
	if !ok {
		return r
	}
	r.Applicable = true

	p = resolve.Locate(p, c.Decl, c.Scope, o.handleType())
	body, err := emit.Emit(p, c.Decl, o.Emit)
	if err != nil {
		var f *emit.Failure
		if !errors.As(err, &f) {
			f = &emit.Failure{Descriptor: diag.SourceUnresolved, Anchor: p.Anchor, Args: []interface{}{c.Decl.Name}}
		}
		d := f.Diagnostic()
		r.Diagnostic = &d
		return r
	}

	r.Body = &body
	return r
}

// GenerateAll processes candidates in parallel. Results keep the order of
// cands. ctx is checked before each declaration; a cancelled run returns the
// context error and no results.
func GenerateAll(ctx context.Context, cands []decl.Candidate, o Options) ([]Result, error) {
	results := make([]Result, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())

	for i, c := range cands {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Generate(c, o)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Report forwards the diagnostics of results to sink and returns their
// number.
func Report(results []Result, sink diag.Sink) int {
	n := 0
	for _, r := range results {
		if r.Diagnostic != nil {
			sink.Report(*r.Diagnostic)
			n++
		}
	}
	return n
}

// Bodies returns the generated bodies of results in order.
func Bodies(results []Result) []emit.Body {
	var bodies []emit.Body
	for _, r := range results {
		if r.Body != nil {
			bodies = append(bodies, *r.Body)
		}
	}
	return bodies
}
