package launcher

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-voting-chain/api"
	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/chain"
	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/flags"
	"github.com/rony4d/go-voting-chain/logging"
	"github.com/rony4d/go-voting-chain/vote"
)

var app = flags.NewApp("vote-node", "runs one node of a privacy-preserving election ledger")

// Launch parses args and runs the node until its HTTP server exits.
func Launch(args []string) error {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
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
	entry := log.WithField("component", "node")

	if cfg.Election.Path == "" {
		return fmt.Errorf("launcher: --election is required")
	}
	electionData, err := os.ReadFile(cfg.Election.Path)
	if err != nil {
		return fmt.Errorf("launcher: reading election config: %w", err)
	}
	election, err := config.Parse(electionData)
	if err != nil {
		return err
	}

	verifiers, err := buildVerifiers(election)
	if err != nil {
		return err
	}

	ledger, err := chain.Open(cfg.LedgerPath())
	if err != nil {
		return fmt.Errorf("launcher: opening ledger: %w", err)
	}
	defer ledger.Close()

	preset, err := cfg.ResolvedPreset()
	if err != nil {
		return err
	}
	ledger.SetNoSync(preset.NoSync)
	batchInterval, err := BatchIntervalDuration(preset)
	if err != nil {
		return err
	}

	server := api.NewNodeServer(ledger, election, verifiers, preset.BatchSize, batchInterval, entry)
	go server.Run()

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Addr, cfg.HTTP.Port)
	entry.WithFields(map[string]interface{}{
		"addr":   addr,
		"preset": preset.Name,
	}).Info("node: listening")
	return http.ListenAndServe(addr, server.Router())
}

func buildVerifiers(election config.ElectionConfig) ([]vote.BlindSigVerifier, error) {
	verifiers := make([]vote.BlindSigVerifier, len(election.Authorities))
	for i, a := range election.Authorities {
		raw, err := cryptobytes.FromString(a.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("launcher: decoding public key for authority %q: %w", a.Name, err)
		}
		pub, err := crypto.DecodePublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("launcher: parsing public key for authority %q: %w", a.Name, err)
		}
		verifiers[i] = authority.RemoteVerifier{PublicKey: pub}
	}
	return verifiers, nil
}
