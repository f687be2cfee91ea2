// Command tagrader works with rubric files offline: it parses model output,
// prints rubric prompt text and builds the class confidence report.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
