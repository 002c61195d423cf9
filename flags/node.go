package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NodeFlags holds knobs specific to a ledger node: its HTTP listener, the
// election config it serves, and how aggressively it batches votes.
func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "election",
			Usage: "Path to the election config JSON this node serves",
		},
		cli.StringFlag{
			Name:  "http.addr",
			Usage: "HTTP API listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "http.port",
			Usage: "HTTP API listening port",
			Value: 9000,
		},
		cli.StringFlag{
			Name:  "ledger",
			Usage: "Override path to the ledger's bbolt file (defaults to <datadir>/ledger.db)",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Ledger/batcher tuning preset (lite|durable)",
			Value: "lite",
		},
		cli.IntFlag{
			Name:  "batch.size",
			Usage: "Maximum votes per appended block",
		},
		cli.DurationFlag{
			Name:  "batch.interval",
			Usage: "Maximum time a vote waits before its batch is flushed",
		},
	}
}
