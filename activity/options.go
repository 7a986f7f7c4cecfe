package activity

import (
	"context"
	"math/rand/v2"
)

// StartOption configures StartActivity.
type StartOption func(*startConfig)

type startConfig struct {
	parent context.Context
	tags   []KeyValue
}

// KeyValue is a span tag.
type KeyValue struct {
	Key   string
	Value interface{}
}

// Tag builds a KeyValue.
func Tag(key string, value interface{}) KeyValue {
	return KeyValue{Key: key, Value: value}
}

// WithParent makes the span stored in ctx the parent of the activity. A
// context without a span starts a new trace.
func WithParent(ctx context.Context) StartOption {
	return func(c *startConfig) {
		if ctx != nil {
			c.parent = ctx
		}
	}
}

// WithTags adds tags to the activity.
func WithTags(tags ...KeyValue) StartOption {
	return func(c *startConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// NoParent is the parent of activities started without one.
var NoParent = context.Background()

// TraceIDGenerator produces the trace identity of root activities. When nil
// a random identifier is used.
var TraceIDGenerator func() uint64

type rootKey struct{}

// NewRootContext returns a parent context that starts a new trace whose
// identifier comes from TraceIDGenerator.
func NewRootContext() context.Context {
	var id uint64
	if TraceIDGenerator != nil {
		id = TraceIDGenerator()
	}
	for id == 0 {
		id = rand.Uint64()
	}
	return context.WithValue(context.Background(), rootKey{}, id)
}

func rootID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(rootKey{}).(uint64)
	return id, ok
}
