package activity

import (
	"runtime"
	"strings"
)

// frame is a calling function split into its receiver type and name.
type frame struct {
	receiver string
	function string
}

// callerFrame describes the function skip frames above its caller. Closures
// are reported as the function that declares them.
func callerFrame(skip int) frame {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+2, pcs) == 0 {
		return frame{function: "unknown"}
	}
	f, _ := runtime.CallersFrames(pcs).Next()
	if f.Function == "" {
		return frame{function: "unknown"}
	}
	return parseFrame(f.Function)
}

// parseFrame splits a symbol such as "example.com/shop.(*Cart).StartCheckout.func1".
func parseFrame(symbol string) frame {
	symbol = strings.ReplaceAll(symbol, "[...]", "")
	if i := strings.LastIndex(symbol, "/"); i >= 0 {
		symbol = symbol[i+1:]
	}
	if i := strings.Index(symbol, "."); i >= 0 {
		symbol = symbol[i+1:]
	}

	parts := strings.Split(symbol, ".")
	for len(parts) > 1 && isClosure(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 1 {
		return frame{function: parts[0]}
	}
	recv := strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
	return frame{receiver: recv, function: parts[len(parts)-1]}
}

func isClosure(s string) bool {
	s = strings.TrimPrefix(s, "func")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns "Type.Method" for methods and the bare name otherwise.
func (f frame) String() string {
	if f.receiver == "" {
		return f.function
	}
	return f.receiver + "." + f.function
}

// activityName names an activity after a generated starter: the Start
// prefix and Activity suffix are dropped and the receiver is ignored.
func (f frame) activityName() string {
	name := strings.TrimPrefix(f.function, "Start")
	return strings.TrimSuffix(name, "Activity")
}
