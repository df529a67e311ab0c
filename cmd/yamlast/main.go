// Command yamlast parses JSON and YAML files into the shared syntax tree and
// prints the tree, the diagnostics or the JSON form of each file.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintf(os.Stderr, "yamlast: %v\n", err)
		}
		os.Exit(1)
	}
}
