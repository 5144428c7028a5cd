package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/midori-bot/midori/internal/config"
	"github.com/midori-bot/midori/internal/consts"
	"github.com/midori-bot/midori/internal/line"
)

var tokenHwd = &TokenRunner{}

// TokenRunner issues an access token for a configured channel, for checking
// credentials without waiting for a webhook.
type TokenRunner struct{}

func (r *TokenRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an access token for a configured channel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "channel",
				Aliases: []string{"ch"},
				Usage:   "Channel ID defined in the config file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
			},
		},
		Action: r.run,
	}
}

func (r *TokenRunner) run(ctx context.Context, cmd *cli.Command) error {
	channelID := strings.TrimSpace(cmd.String("channel"))
	if channelID == "" {
		return errors.New("--channel is required")
	}

	cfgPath := strings.TrimSpace(cmd.String("config"))
	if cfgPath == "" {
		cfgPath = consts.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}

	chCfg, ok := cfg.Channels[channelID]
	if !ok {
		return fmt.Errorf("channel %s is not configured", channelID)
	}

	client := line.NewClient(line.WithBaseURL(cfg.Platform.BaseURL))
	token, err := client.Issue(ctx, chCfg.ChannelID, chCfg.Secret)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
