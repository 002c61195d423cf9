// Command authority runs a blind-signing authority: it issues access
// tokens to eligible voters without learning which candidate they'll vote
// for (spec.md §4.5).
package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-voting-chain/cmd/authority/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
