package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/zircuit-labs/autem/core/autem"
	"github.com/zircuit-labs/autem/core/autem/contracts"
)

var devnetCommand = &cli.Command{
	Name:   "devnet",
	Usage:  "Serve a local ledger with the Autem factory over JSON-RPC",
	Flags:  []cli.Flag{configFlag, envFileFlag},
	Action: runDevnet,
	Description: `
autem devnet --config autem.toml --env-file .env
Funds the configured faucet accounts at genesis and sends transactions on
their behalf. Metrics are served on /metrics next to the RPC endpoint.
`,
}

var envFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Usage: "Load AUTEM_ variables from a dotenv file before reading the config",
}

func runDevnet(c *cli.Context) error {
	if path := c.String(envFileFlag.Name); path != "" {
		// Variables already set in the environment win.
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	cfg, err := autem.LoadConfig(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	node, err := autem.NewNode(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer node.Close()

	log.Info("Starting devnet", "chain", cfg.Chain.ID, "storage", storageKind(cfg))
	for _, addr := range cfg.Chain.Faucets {
		log.Info("Unlocked faucet account", "address", contracts.ShortAddress(addr, 4))
	}
	return node.Serve(ctx)
}

func storageKind(cfg autem.Config) string {
	switch {
	case cfg.Storage.DSN == "":
		return "memory"
	case strings.HasPrefix(cfg.Storage.DSN, "redis"):
		return "redis"
	case strings.HasPrefix(cfg.Storage.DSN, "sqlite://"):
		return "sqlite"
	default:
		return "postgres"
	}
}
