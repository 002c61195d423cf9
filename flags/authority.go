package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// AuthorityFlags holds knobs specific to a blind-signing authority: its
// HTTP listener and key-pair lifecycle.
func AuthorityFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "http.addr",
			Usage: "HTTP API listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "http.port",
			Usage: "HTTP API listening port",
			Value: 9100,
		},
		cli.StringFlag{
			Name:  "keyfile",
			Usage: "Override path to the authority's key pair file (defaults to <datadir>/authority.json)",
		},
		cli.BoolFlag{
			Name:  "generate-new",
			Usage: "Discard any existing key pair on disk and generate a fresh one at startup",
		},
	}
}
