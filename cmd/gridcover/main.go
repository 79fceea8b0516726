// Command gridcover runs a single lawn-cutting coverage simulation.
//
// Usage
//
//	gridcover [flags]
//	gridcover --args-file run.toml
//
// Every simulation parameter is available as both a flag and a field
// of the TOML arguments document read with --args-file; flags given on
// the command line override values loaded from that file (§10
// "Configuration").
package main

import (
	"fmt"
	"os"
)

// Fatal prints an error to stderr and exits nonzero.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

func createFile(path string) (*os.File, error) {
	return os.Create(path)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		Fatal(err)
	}
}
