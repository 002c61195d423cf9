package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// VoterFlags holds knobs specific to the voter CLI: where its encrypted
// key store lives. The node is chosen inside the shell, not by a flag.
func VoterFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "store",
			Usage: "Override path to the voter's encrypted key store (defaults to <datadir>/voter.db)",
		},
	}
}
