// Command voter is an interactive shell over the voter protocol driver
// (spec.md §4.7): register or log in, select an election, collect one
// access token per authority, then cast a vote. The read-a-line,
// dispatch-a-command, print-the-result loop follows the same shape the
// original implementation's mock-authority CLI uses.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-voting-chain/api"
	"github.com/rony4d/go-voting-chain/cmd/internal/cfgutil"
	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/flags"
	"github.com/rony4d/go-voting-chain/logging"
	"github.com/rony4d/go-voting-chain/voter"
	"github.com/rony4d/go-voting-chain/voterstore"
)

func main() {
	app := flags.NewApp("vote-client", "interactive shell for registering, authenticating, and casting a vote")
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.VoterFlags()...)
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log := logging.New(logging.Config{
		Format:    ctx.String("log.format"),
		Verbosity: ctx.Int("log.verbosity"),
		Color:     ctx.Bool("log.color"),
		SentryDSN: ctx.String("sentry.dsn"),
	})
	entry := log.WithField("component", "voter")

	dataDir := cfgutil.ResolvePath(ctx.String("datadir"))
	if dataDir == "" {
		dataDir = filepath.Join(cfgutil.GuessHomeDir(), ".go-voting-chain", "voter")
	}
	if err := cfgutil.EnsureDir(dataDir); err != nil {
		return err
	}

	storePath := ctx.String("store")
	if storePath == "" {
		storePath = filepath.Join(dataDir, "voter.db")
	} else {
		storePath = cfgutil.ResolvePath(storePath)
	}

	store, err := voterstore.Open(storePath)
	if err != nil {
		return fmt.Errorf("voter: opening key store: %w", err)
	}
	defer store.Close()

	entry.WithField("store", storePath).Info("voter: ready")

	shell := &shell{store: store, out: os.Stdout}
	shell.run(bufio.NewScanner(os.Stdin))
	return nil
}

// shell holds everything one interactive session accumulates: the driver
// once logged in, the election config and node address once selected.
type shell struct {
	store *voterstore.Store
	out   *os.File

	driver   *voter.Driver
	election config.ElectionConfig
	nodeURL  string
}

func (sh *shell) run(scanner *bufio.Scanner) {
	fmt.Fprintln(sh.out, "vote-client ready. Commands: register, login, select, acquire, vote, status, quit")
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return
		}

		if err := sh.dispatch(cmd, args); err != nil {
			fmt.Fprintln(sh.out, "ERROR:", err)
			continue
		}
	}
}

func (sh *shell) dispatch(cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 2 {
			return fmt.Errorf("usage: register <username> <password>")
		}
		d, err := voter.Register(sh.store, args[0], args[1])
		if err != nil {
			return err
		}
		sh.driver = d
		fmt.Fprintln(sh.out, "registered and logged in")
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		d, err := voter.Login(sh.store, args[0], args[1])
		if err != nil {
			return err
		}
		sh.driver = d
		fmt.Fprintln(sh.out, "logged in")
		return nil

	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <node-url>")
		}
		if sh.driver == nil {
			return fmt.Errorf("register or login first")
		}
		node := api.NewNodeHTTPClient(args[0])
		cfg, err := node.FetchConfig()
		if err != nil {
			return fmt.Errorf("fetching election config: %w", err)
		}
		if err := sh.driver.SelectBlockchain(args[0], cfg); err != nil {
			return err
		}
		sh.election = cfg
		sh.nodeURL = args[0]
		fmt.Fprintf(sh.out, "selected election %q (%d authorities, %d candidates)\n", cfg.Name, cfg.AuthorityCount(), len(cfg.Candidates))
		return nil

	case "acquire":
		if len(args) != 1 {
			return fmt.Errorf("usage: acquire <authority-index>")
		}
		if sh.driver == nil || sh.nodeURL == "" {
			return fmt.Errorf("select an election first")
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("authority index must be an integer: %w", err)
		}
		if idx < 0 || idx >= len(sh.election.Authorities) {
			return fmt.Errorf("authority index %d out of range", idx)
		}
		authorityURL := sh.election.Authorities[idx].Address
		if !strings.Contains(authorityURL, "://") {
			authorityURL = "http://" + authorityURL
		}
		authority := api.NewAuthorityHTTPClient(authorityURL)
		if err := sh.driver.AcquireToken(idx, authority); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "acquired token from %q (state: %s)\n", sh.election.Authorities[idx].Name, sh.driver.State())
		return nil

	case "vote":
		if len(args) != 1 {
			return fmt.Errorf("usage: vote <candidate-id>")
		}
		if sh.driver == nil || sh.nodeURL == "" {
			return fmt.Errorf("select an election first")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 0 || id > 255 {
			return fmt.Errorf("candidate id must be an integer in [0,255]")
		}
		node := api.NewNodeHTTPClient(sh.nodeURL)
		if err := sh.driver.SubmitVote(uint8(id), node); err != nil {
			return err
		}
		fmt.Fprintln(sh.out, "vote cast")
		return nil

	case "status":
		if sh.driver == nil {
			fmt.Fprintln(sh.out, "not logged in")
			return nil
		}
		fmt.Fprintf(sh.out, "state: %s, node: %q\n", sh.driver.State(), sh.nodeURL)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
