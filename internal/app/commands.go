package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/ainews/internal/config"
)

// FetchCmd lists the latest articles.
type FetchCmd struct {
	config.Fetch `group:"fetch options"`

	Full bool `long:"full" description:"print article summaries"`
}

// Execute runs the command.
func (c FetchCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return New(slog.Default(), os.Stdin, os.Stdout).Fetch(ctx, NewSession(), c.Fetch, c.Full)
}

// GenerateCmd fetches articles and writes posts about the picked ones.
type GenerateCmd struct {
	config.Fetch    `group:"fetch options"`
	config.Generate `group:"generation options"`
}

// Execute runs the command.
func (c GenerateCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := New(slog.Default(), os.Stdin, os.Stdout)
	sess := NewSession()

	if err := a.Fetch(ctx, sess, c.Fetch, false); err != nil {
		return err
	}

	return a.Generate(ctx, sess, c.Generate)
}
