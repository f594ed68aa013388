// cefrtag tags text with CEFR vocabulary levels.
// Single binary: one-shot CLI queries or a long-running HTTP service.
package main

import (
	"os"

	"github.com/corey/cefrtag/cmd/cefrtag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
