package activity

import (
	"context"
	"sync/atomic"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// defaults apply to every activity, whatever Source starts it.
type defaults struct {
	decorator func(ctx context.Context, span ddtrace.Span)
	spanOpts  []tracer.StartSpanOption
	tags      []KeyValue
}

var current atomic.Pointer[defaults]

func init() {
	current.Store(&defaults{})
}

func loadDefaults() *defaults {
	return current.Load()
}

func updateDefaults(f func(d *defaults)) {
	for {
		old := current.Load()
		d := *old
		f(&d)
		if current.CompareAndSwap(old, &d) {
			return
		}
	}
}

// SetDefaultContextDecorator sets a function run on every started activity
// before the decorator of its Source. It typically copies request-scoped
// values such as the tenant from ctx onto the span.
func SetDefaultContextDecorator(f func(ctx context.Context, span ddtrace.Span)) {
	updateDefaults(func(d *defaults) { d.decorator = f })
}

// SetDefaultSpanOptions sets span options placed before those of the Source.
func SetDefaultSpanOptions(opts ...tracer.StartSpanOption) {
	updateDefaults(func(d *defaults) { d.spanOpts = opts })
}

// SetDefaultTags sets tags added to every activity before the tags passed
// with WithTags, which win on conflict.
func SetDefaultTags(tags ...KeyValue) {
	updateDefaults(func(d *defaults) { d.tags = tags })
}
