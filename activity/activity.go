package activity

import (
	"context"
	"fmt"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Activity is a started span together with the context that carries it.
// A nil *Activity is valid and does nothing.
type Activity struct {
	span ddtrace.Span
	ctx  context.Context
}

// Context returns the context carrying the activity's span. Pass it to the
// next generated call to make that activity a child of this one.
func (a *Activity) Context() context.Context {
	if a == nil {
		return context.Background()
	}
	return a.ctx
}

// Span returns the underlying Datadog span.
func (a *Activity) Span() ddtrace.Span {
	if a == nil {
		return nil
	}
	return a.span
}

// SetTag sets a tag on the activity's span.
func (a *Activity) SetTag(key string, value interface{}) *Activity {
	if a != nil {
		a.span.SetTag(key, value)
	}
	return a
}

// End finishes the activity. A non-nil err marks the span as failed with
// the error message and its dynamic type.
//
// Example:
//
//	func (s *service) Fetch(ctx context.Context, id string) (err error) {
//	    act := s.startFetch(ctx, id)
//	    defer func() { act.End(err) }()
//	    return s.store.Get(act.Context(), id)
//	}
func (a *Activity) End(err error) {
	if a == nil {
		return
	}
	if err == nil {
		a.span.Finish()
		return
	}
	a.span.SetTag(ext.ErrorMsg, err.Error())
	a.span.SetTag(ext.ErrorType, fmt.Sprintf("%T", err))
	a.span.Finish(tracer.WithError(err))
}
