// Command node runs one node of a privacy-preserving election ledger:
// it accepts votes over HTTP, batches and hash-chains them (spec.md §4.4,
// §4.8), and serves the election config it was started with.
package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-voting-chain/cmd/node/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
