package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/midori-bot/midori/internal/signature"
)

var signHwd = &SignRunner{}

// SignRunner computes the webhook signature for a payload, for exercising a
// deployment without the real platform.
type SignRunner struct{}

func (r *SignRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Compute the webhook signature digest for a payload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Aliases: []string{"s"},
				Usage:   "Channel secret used as the HMAC key",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Payload file ('-' or empty reads stdin)",
			},
		},
		Action: r.run,
	}
}

func (r *SignRunner) run(_ context.Context, cmd *cli.Command) error {
	secret := cmd.String("secret")
	if secret == "" {
		return errors.New("--secret is required")
	}

	var (
		payload []byte
		err     error
	)
	file := strings.TrimSpace(cmd.String("file"))
	if file == "" || file == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	fmt.Println(signature.Sign([]byte(secret), payload))
	return nil
}
