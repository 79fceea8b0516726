package main

import (
	"fmt"
	"os"

	"github.com/gridcover/gridcover"
)

// cliLogger builds the logging capability injected into the
// simulation core (§9 "injected as a capability with methods {info,
// warn, error}"). Verbosity gates Info; Warn and Error always print.
func cliLogger(verbosity string) gridcover.Logger {
	quiet := verbosity == "quiet"
	return gridcover.Logger{
		Info: func(format string, args ...interface{}) {
			if quiet {
				return
			}
			fmt.Fprintf(os.Stderr, "info: "+format+"\n", args...)
		},
		Warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "warn: "+format+"\n", args...)
		},
		Error: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
		},
	}
}
