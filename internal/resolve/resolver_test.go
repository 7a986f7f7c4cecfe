package resolve

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvm-tyson/activitygen/internal/decl"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func span(pos int) decl.Span {
	return decl.Span{Pos: token.Pos(pos), End: token.Pos(pos + 10)}
}

func TestResolve_NotApplicable(t *testing.T) {
	d := decl.Declaration{
		Name:        "StartFooActivity",
		Annotations: []decl.Annotation{decl.SourceReference{Path: "telemetry.Source"}},
	}

	_, ok := Resolve(d, decl.Scope{}, decl.Module{})
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		decl   decl.Declaration
		scope  decl.Scope
		module decl.Module
		want   Plan
	}{
		{
			name: "derived name and kind",
			decl: decl.Declaration{
				Name:        "StartFooActivity",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{Form: decl.FormServer, At: span(1)}},
			},
			want: Plan{Kind: decl.KindServer, Name: "Foo", Anchor: span(1)},
		},
		{
			name: "explicit name overrides derivation",
			decl: decl.Declaration{
				Name: "StartFooActivity",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{
					Form: decl.FormClient,
					Name: strPtr("weird name"),
				}},
			},
			want: Plan{Kind: decl.KindClient, Name: "weird name"},
		},
		{
			name: "explicit name when derivation is empty",
			decl: decl.Declaration{
				Name: "StartActivity",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{
					Form: decl.FormInternal,
					Name: strPtr("Bootstrap"),
				}},
			},
			want: Plan{Kind: decl.KindInternal, Name: "Bootstrap"},
		},
		{
			name: "empty explicit name keeps derivation",
			decl: decl.Declaration{
				Name: "StartFooActivity",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{
					Form: decl.FormInternal,
					Name: strPtr(""),
				}},
			},
			want: Plan{Kind: decl.KindInternal, Name: "Foo"},
		},
		{
			name: "generic form with explicit kind",
			decl: decl.Declaration{
				Name: "Consume",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{
					Form: decl.FormGeneric,
					Kind: decl.KindConsumer,
				}},
			},
			want: Plan{Kind: decl.KindConsumer, Name: "Consume"},
		},
		{
			name: "generic form with unknown kind",
			decl: decl.Declaration{
				Name:        "StartFoo",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{Form: decl.FormGeneric, Kind: decl.KindFromValue(7)}},
			},
			want: Plan{Kind: decl.KindUnspecified, Name: "Foo"},
		},
		{
			name: "first kind annotation wins",
			decl: decl.Declaration{
				Name: "StartFoo",
				Annotations: []decl.Annotation{
					decl.ActivityAnnotation{Form: decl.FormProducer, IsRoot: boolPtr(true), At: span(1)},
					decl.ActivityAnnotation{Form: decl.FormConsumer, Name: strPtr("Other"), At: span(20)},
				},
			},
			want: Plan{Kind: decl.KindProducer, Name: "Foo", IsRoot: true, Anchor: span(1)},
		},
		{
			name: "declaration reference beats scope and module",
			decl: decl.Declaration{
				Name: "StartFoo",
				Annotations: []decl.Annotation{
					decl.ActivityAnnotation{Form: decl.FormInternal},
					decl.SourceReference{Path: "decl.Source"},
				},
			},
			scope:  decl.Scope{Annotations: []decl.Annotation{decl.SourceReference{Path: "scope.Source"}}},
			module: decl.Module{Annotations: []decl.Annotation{decl.SourceReference{Path: "module.Source"}}},
			want:   Plan{Kind: decl.KindInternal, Name: "Foo", HandleExpression: "decl.Source"},
		},
		{
			name: "scope reference beats module",
			decl: decl.Declaration{
				Name:        "StartFoo",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{Form: decl.FormInternal}},
			},
			scope:  decl.Scope{Annotations: []decl.Annotation{decl.SourceReference{Path: "scope.Source"}}},
			module: decl.Module{Annotations: []decl.Annotation{decl.SourceReference{Path: "module.Source"}}},
			want:   Plan{Kind: decl.KindInternal, Name: "Foo", HandleExpression: "scope.Source"},
		},
		{
			name: "module reference as last resort",
			decl: decl.Declaration{
				Name:        "StartFoo",
				Annotations: []decl.Annotation{decl.ActivityAnnotation{Form: decl.FormInternal}},
			},
			module: decl.Module{Annotations: []decl.Annotation{decl.SourceReference{Path: "module.Source"}}},
			want:   Plan{Kind: decl.KindInternal, Name: "Foo", HandleExpression: "module.Source"},
		},
		{
			name: "blank reference falls through",
			decl: decl.Declaration{
				Name: "StartFoo",
				Annotations: []decl.Annotation{
					decl.ActivityAnnotation{Form: decl.FormInternal},
					decl.SourceReference{Path: "  "},
				},
			},
			scope: decl.Scope{Annotations: []decl.Annotation{decl.SourceReference{Path: "scope.Source"}}},
			want:  Plan{Kind: decl.KindInternal, Name: "Foo", HandleExpression: "scope.Source"},
		},
		{
			name: "create beats every reference",
			decl: decl.Declaration{
				Name: "StartFoo",
				Annotations: []decl.Annotation{
					decl.SourceReference{Path: "decl.Source"},
					decl.ActivityAnnotation{Form: decl.FormInternal, CreateSource: boolPtr(true)},
				},
			},
			scope: decl.Scope{Annotations: []decl.Annotation{decl.SourceReference{Path: "scope.Source"}}},
			want:  Plan{Kind: decl.KindInternal, Name: "Foo", CreateHandle: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.decl, tt.scope, tt.module)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"StartFooActivity", "Foo"},
		{"StartFoo", "Foo"},
		{"FooActivity", "Foo"},
		{"Foo", "Foo"},
		{"StartActivity", ""},
		{"startFooActivity", "startFoo"},
		{"StartFooActivityX", "FooActivityX"},
		{"StartStartFoo", "StartFoo"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.in))
		})
	}
}
