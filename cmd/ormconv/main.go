// Package main provides the CLI entrypoint for ormconv.
//
// ormconv translates table definitions between Go ORM frameworks:
//   - Reads GORM models or ent schemas from a Go file or package directory
//   - Extracts them into a framework-neutral table description
//   - Writes the same tables as models of the destination framework
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
