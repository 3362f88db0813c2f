// floorcheck serves the floor inspection dashboard and exposes its data and
// alert operations on the command line.
//
// Usage:
//
//	floorcheck serve [--config=<file>]
//	floorcheck summary [--json]
//	floorcheck recipients list|add <email>|reset
//	floorcheck alert send <floor>
//	floorcheck export --format=csv|xlsx -o <file>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
