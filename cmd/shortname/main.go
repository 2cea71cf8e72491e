package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/shortname/cmd/shortname/internal/check"
	"github.com/broady/shortname/cmd/shortname/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log progress at debug level." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate AsShortName methods for //shortname:derive types."`
	Check   check.Cmd  `cmd:"" help:"Report generated files that are missing or out of date."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(stdout io.Writer) error {
	fmt.Fprintln(stdout, Version())
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("shortname"),
		kong.Description("Generate human-readable short names for Go types."),
		kong.UsageOnError(),
	)

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx.BindTo(sigctx, (*context.Context)(nil))
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))
	err := ctx.Run(newLogger(cli.Verbose))
	ctx.FatalIfErrorf(err)
}
