package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/broady/shortname/cmd/shortname/internal/load"
)

type Cmd struct {
	load.Flags `embed:""`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger, stdout io.Writer) error {
	g, err := c.Generator(logger)
	if err != nil {
		return err
	}

	stale, err := g.Check(ctx)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		return fmt.Errorf("%d generated files are out of date:\n  %s\nrun shortname gen to update them",
			len(stale), strings.Join(stale, "\n  "))
	}

	fmt.Fprintln(stdout, "✓ Generated files are up to date")
	return nil
}
