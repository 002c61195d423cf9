package launcher

import (
	"fmt"
	"net/http"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-voting-chain/api"
	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/flags"
	"github.com/rony4d/go-voting-chain/logging"
)

var app = flags.NewApp("vote-authority", "runs a blind-signing authority for a privacy-preserving election")

// Launch parses args and runs the authority until its HTTP server exits.
func Launch(args []string) error {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.AuthorityFlags()...)
	app.Action = run
	return app.Run(args)
}

func run(ctx *cli.Context) error {
	cfg, err := MakeConfig(ctx)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Format:    cfg.Logging.Format,
		Verbosity: cfg.Logging.Verbosity,
		Color:     cfg.Logging.Color,
		SentryDSN: cfg.Logging.SentryDSN,
	})
	entry := log.WithField("component", "authority")

	svc, err := authority.Open(cfg.KeyFilePath(), cfg.KeyFile.GenerateNew, entry)
	if err != nil {
		return fmt.Errorf("launcher: opening authority key pair: %w", err)
	}

	server := api.NewAuthorityServer(svc)
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Addr, cfg.HTTP.Port)
	entry.WithField("addr", addr).Info("authority: listening")
	return http.ListenAndServe(addr, server.Router())
}
