// Package activity is the runtime used by code generated with activitygen.
// An Activity is a Datadog span started from a named Source with a kind,
// an optional parent context and a set of tags.
package activity

import (
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
)

// Kind describes the relationship between an activity and its peers.
type Kind int

const (
	KindInternal Kind = iota
	KindServer
	KindClient
	KindProducer
	KindConsumer
)

// String returns the Datadog span.kind value of k.
func (k Kind) String() string {
	switch k {
	case KindServer:
		return ext.SpanKindServer
	case KindClient:
		return ext.SpanKindClient
	case KindProducer:
		return ext.SpanKindProducer
	case KindConsumer:
		return ext.SpanKindConsumer
	default:
		return ext.SpanKindInternal
	}
}
