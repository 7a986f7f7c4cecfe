package codegen

import (
	"context"
	"fmt"
	"go/token"
	"testing"

	"github.com/gojuno/minimock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
	"github.com/tuanvm-tyson/activitygen/internal/diag"
)

func boolPtr(b bool) *bool { return &b }

func positionAt(line int) token.Position {
	return token.Position{Filename: "stubs.go", Line: line, Column: 1}
}

func activityAt(form decl.Form, line int) decl.ActivityAnnotation {
	return decl.ActivityAnnotation{Form: form, At: decl.Span{Start: positionAt(line)}}
}

func methodCandidate(name string, annotations ...decl.Annotation) decl.Candidate {
	return decl.Candidate{
		Decl: decl.Declaration{
			Name:        name,
			Receiver:    &decl.Receiver{Name: "c", Type: "*Client"},
			Params:      []decl.Parameter{{Name: "ctx", Type: "context.Context"}, {Name: "id", Type: "string"}},
			Results:     []decl.Parameter{{Type: "*activity.Activity"}},
			Scope:       "Client",
			File:        "stubs.go",
			Annotations: annotations,
		},
		Scope: decl.Scope{
			Name: "Client",
			Members: []decl.Member{
				{Name: "name", Kind: decl.Field, Type: "string"},
				{Name: "source", Kind: decl.Field, Type: "*activity.Source"},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("not applicable", func(t *testing.T) {
		r := Generate(methodCandidate("StartFoo", decl.SourceReference{Path: "x"}), Options{})
		assert.False(t, r.Applicable)
		assert.Nil(t, r.Body)
		assert.Nil(t, r.Diagnostic)
	})

	t.Run("structural handle", func(t *testing.T) {
		r := Generate(methodCandidate("StartFetchActivity", activityAt(decl.FormClient, 3)), Options{})
		require.True(t, r.Applicable)
		require.Nil(t, r.Diagnostic)
		require.NotNil(t, r.Body)
		assert.Equal(t, "Client.Fetch", r.Body.Key)
		assert.Contains(t, r.Body.String(), "return c.source.StartActivity(\n")
		assert.Contains(t, r.Body.String(), "\t\tactivity.WithParent(ctx),\n")
		assert.Contains(t, r.Body.String(), "\t\t\tactivity.Tag(\"id\", id),\n")
	})

	t.Run("create beats references", func(t *testing.T) {
		c := methodCandidate("StartMy",
			decl.SourceReference{Path: "decl.Source"},
			decl.ActivityAnnotation{Form: decl.FormInternal, CreateSource: boolPtr(true)},
		)
		c.Scope.Annotations = []decl.Annotation{decl.SourceReference{Path: "scope.Source"}}

		r := Generate(c, Options{})
		require.NotNil(t, r.Body)
		assert.Equal(t, `var clientMyActivitySource = activity.NewSource("My")`, r.Body.Lines[0])
		assert.Contains(t, r.Body.String(), "return clientMyActivitySource.StartActivity(\n")
	})

	t.Run("static declaration cannot reach instance field", func(t *testing.T) {
		c := methodCandidate("StartFoo", activityAt(decl.FormServer, 7))
		c.Decl.Receiver = nil

		r := Generate(c, Options{})
		require.True(t, r.Applicable)
		assert.Nil(t, r.Body)
		require.NotNil(t, r.Diagnostic)
		assert.Equal(t, diag.SourceUnresolved.ID, r.Diagnostic.ID)
		assert.Equal(t, 7, r.Diagnostic.At.Start.Line)
		assert.Equal(t, []interface{}{"StartFoo"}, r.Diagnostic.Args)
	})

	t.Run("custom handle type", func(t *testing.T) {
		c := methodCandidate("StartFoo", activityAt(decl.FormServer, 1))
		c.Scope.Members = append(c.Scope.Members, decl.Member{Name: "tel", Kind: decl.Field, Type: "*otel.Tracer"})

		r := Generate(c, Options{HandleType: "*otel.Tracer"})
		require.NotNil(t, r.Body)
		assert.Contains(t, r.Body.String(), "return c.tel.StartActivity(\n")
	})

	t.Run("unspecified kind", func(t *testing.T) {
		r := Generate(methodCandidate("StartFoo", decl.ActivityAnnotation{Form: decl.FormGeneric}), Options{})
		require.NotNil(t, r.Diagnostic)
		assert.Equal(t, diag.KindUnspecified.ID, r.Diagnostic.ID)
	})
}

func TestGenerateAll(t *testing.T) {
	var cands []decl.Candidate
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("StartOp%d", i)
		c := methodCandidate(name, activityAt(decl.FormInternal, i+1))
		if i%5 == 0 {
			c.Scope.Members = nil
		}
		cands = append(cands, c)
	}

	results, err := GenerateAll(context.Background(), cands, Options{Workers: 4})
	require.NoError(t, err)
	require.Len(t, results, len(cands))

	for i, r := range results {
		assert.Equal(t, cands[i].Decl.Name, r.Candidate.Decl.Name)
		if i%5 == 0 {
			assert.NotNil(t, r.Diagnostic, "result %d", i)
			assert.Nil(t, r.Body, "result %d", i)
			continue
		}
		require.NotNil(t, r.Body, "result %d", i)
		assert.Equal(t, fmt.Sprintf("Client.Op%d", i), r.Body.Key)
	}

	bodies := Bodies(results)
	assert.Len(t, bodies, 40)
	assert.Equal(t, "Client.Op1", bodies[0].Key)
}

func TestGenerateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := GenerateAll(ctx, []decl.Candidate{methodCandidate("StartFoo", activityAt(decl.FormInternal, 1))}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestGenerateAll_Empty(t *testing.T) {
	results, err := GenerateAll(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReport(t *testing.T) {
	mc := minimock.NewController(t)
	defer mc.Finish()

	results := []Result{
		Generate(methodCandidate("StartA", activityAt(decl.FormInternal, 1)), Options{}),
		Generate(methodCandidate("StartB", decl.ActivityAnnotation{Form: decl.FormGeneric}), Options{}),
		{Candidate: methodCandidate("StartC")},
	}

	var reported []diag.Diagnostic
	sink := NewSinkMock(mc).ReportMock.Set(func(d diag.Diagnostic) {
		reported = append(reported, d)
	})

	assert.Equal(t, 1, Report(results, sink))
	require.Len(t, reported, 1)
	assert.Equal(t, diag.KindUnspecified.ID, reported[0].ID)
	assert.Equal(t, uint64(1), sink.ReportAfterCounter())
}

func TestReport_Expect(t *testing.T) {
	mc := minimock.NewController(t)
	defer mc.Finish()

	c := methodCandidate("StartA", activityAt(decl.FormInternal, 4))
	c.Scope.Members = nil
	r := Generate(c, Options{})
	require.NotNil(t, r.Diagnostic)

	sink := NewSinkMock(mc)
	sink.ReportMock.Expect(*r.Diagnostic).Return()

	assert.Equal(t, 1, Report([]Result{r}, sink))
}
