package activity

import (
	"context"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// SourceTag is the span tag holding the name of the Source that started it.
const SourceTag = "activity.source"

// Source starts activities on behalf of a component. Generated code calls
// StartActivity on a Source found next to the annotated declaration or
// created for it.
type Source struct {
	name             string
	service          string
	contextDecorator func(ctx context.Context, span ddtrace.Span)
	spanOpts         []tracer.StartSpanOption
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// NewSource creates a Source. An empty name is replaced by the name of the
// calling function, qualified by its receiver type.
func NewSource(name string, opts ...SourceOption) *Source {
	if name == "" {
		name = callerFrame(1).String()
	}
	s := &Source{name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithService sets the Datadog service name of every span started by the Source.
func WithService(service string) SourceOption {
	return func(s *Source) {
		s.service = service
	}
}

// WithContextDecorator sets a per-source context decorator that runs after the global
// context decorator (if set). Use this for source-specific span tags.
func WithContextDecorator(f func(ctx context.Context, span ddtrace.Span)) SourceOption {
	return func(s *Source) {
		s.contextDecorator = f
	}
}

// WithSpanOptions sets additional tracer.StartSpanOption to be applied
// to every span started by the Source.
func WithSpanOptions(opts ...tracer.StartSpanOption) SourceOption {
	return func(s *Source) {
		s.spanOpts = append(s.spanOpts, opts...)
	}
}

// Name returns the name of the Source.
func (s *Source) Name() string {
	return s.name
}

// StartActivity starts a span named name. Without WithParent the span has
// no parent. An empty name is derived from the caller the way generated
// starters are named, so StartCheckoutActivity starts "Checkout". Default
// span options come first and options of the Source take precedence.
func (s *Source) StartActivity(name string, kind Kind, opts ...StartOption) *Activity {
	cfg := startConfig{parent: NoParent}
	for _, opt := range opts {
		opt(&cfg)
	}
	if name == "" {
		name = callerFrame(1).activityName()
	}

	d := loadDefaults()
	spanOpts := make([]tracer.StartSpanOption, 0, len(d.spanOpts)+len(s.spanOpts)+4)
	spanOpts = append(spanOpts, d.spanOpts...)
	spanOpts = append(spanOpts,
		tracer.Tag(ext.SpanKind, kind.String()),
		tracer.Tag(SourceTag, s.name),
	)
	if s.service != "" {
		spanOpts = append(spanOpts, tracer.ServiceName(s.service))
	}
	spanOpts = append(spanOpts, s.spanOpts...)

	var (
		span ddtrace.Span
		ctx  context.Context
	)
	if id, ok := rootID(cfg.parent); ok {
		span = tracer.StartSpan(name, append(spanOpts, tracer.WithSpanID(id))...)
		ctx = tracer.ContextWithSpan(context.Background(), span)
	} else {
		span, ctx = tracer.StartSpanFromContext(cfg.parent, name, spanOpts...)
	}

	for _, t := range d.tags {
		span.SetTag(t.Key, t.Value)
	}
	for _, t := range cfg.tags {
		span.SetTag(t.Key, t.Value)
	}
	if d.decorator != nil {
		d.decorator(ctx, span)
	}
	if s.contextDecorator != nil {
		s.contextDecorator(ctx, span)
	}

	return &Activity{span: span, ctx: ctx}
}
