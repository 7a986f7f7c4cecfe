package decl

import (
	"strconv"
	"strings"
)

// Kind is the role of the produced activity in a trace.
type Kind string

const (
	KindInternal Kind = "Internal"
	KindServer   Kind = "Server"
	KindClient   Kind = "Client"
	KindProducer Kind = "Producer"
	KindConsumer Kind = "Consumer"

	// KindUnspecified is produced by the generic form for values outside 0..4.
	// No code can be generated for it.
	KindUnspecified Kind = ""
)

var kindsByValue = [...]Kind{KindInternal, KindServer, KindClient, KindProducer, KindConsumer}

// KindFromValue maps the numeric argument of the generic form.
func KindFromValue(v int) Kind {
	if v < 0 || v >= len(kindsByValue) {
		return KindUnspecified
	}
	return kindsByValue[v]
}

// ParseKind accepts either the numeric value or the case-insensitive kind name.
func ParseKind(s string) Kind {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return KindFromValue(v)
	}
	for _, k := range kindsByValue {
		if strings.EqualFold(s, string(k)) {
			return k
		}
	}
	return KindUnspecified
}

// Valid reports whether k is one of the five kinds.
func (k Kind) Valid() bool {
	for _, v := range kindsByValue {
		if k == v {
			return true
		}
	}
	return false
}
