package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/broady/shortname/cmd/shortname/internal/load"
)

type Cmd struct {
	load.Flags `embed:""`

	DryRun bool `help:"Print the generated files instead of writing them." short:"n" name:"dry-run"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger, stdout io.Writer) error {
	g, err := c.Generator(logger)
	if err != nil {
		return err
	}

	if c.DryRun {
		result, err := g.Generate(ctx)
		if err != nil {
			return err
		}
		for _, f := range result.Files() {
			fmt.Fprintf(stdout, "// %s\n%s\n", f.Path, result.Contents[f.Path])
		}
		return nil
	}

	result, err := g.ToDisk(ctx)
	if err != nil {
		return err
	}
	for _, f := range result.Files() {
		fmt.Fprintf(stdout, "✓ %s (%d bytes)\n", f.Path, f.Size)
	}
	fmt.Fprintf(stdout, "✓ %d types in %d packages\n", result.TypesGenerated(), len(result.Packages))
	return nil
}
