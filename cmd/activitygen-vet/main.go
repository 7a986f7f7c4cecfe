// Command activitygen-vet reports activity stubs that cannot be generated.
//
//	activitygen-vet -tags activitygen ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/tuanvm-tyson/activitygen/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
