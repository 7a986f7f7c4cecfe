//go:build tools

// Package tools pins the code generation and lint tools used by the module.
package tools

import (
	_ "github.com/gojuno/minimock/v3/cmd/minimock"
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
