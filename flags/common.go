package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the flags every binary (node, authority, voter)
// accepts: where to keep its data, where to read an optional config file
// from, and how to log.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for this process's on-disk state",
			Value: "~/.go-voting-chain",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to an optional JSON config file overriding compiled-in defaults",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN for crash reporting; leave unset to disable",
		},
	}
}
