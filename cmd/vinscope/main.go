// vinscope enriches a VIN or license plate into an intelligence report:
// decoded registry facts, web evidence, risk flags, quality markers and an
// LLM-written summary.
//
// Usage:
//
//	vinscope lookup <identifier> [--json]
//	vinscope mcp
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vinscope/vinscope/pkg/pipeline"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var usageErr *pipeline.UsageError
	var cfgErr *pipeline.ConfigError
	switch {
	case errors.As(err, &usageErr):
		return 2
	case errors.As(err, &cfgErr):
		return 3
	default:
		return 1
	}
}
