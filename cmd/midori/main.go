package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/midori-bot/midori/internal/pkg/logs"
)

func main() {
	cmd := &cli.Command{
		Name:  "midori",
		Usage: "Webhook gateway for LINE messaging channels",
		Commands: []*cli.Command{
			serveHwd.cmd(),
			signHwd.cmd(),
			tokenHwd.cmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logs.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}
