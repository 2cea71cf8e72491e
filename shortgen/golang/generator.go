package golang

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/namegen"
)

// Generator emits AsShortName methods and union dispatch functions.
type Generator struct{}

var _ CodeGenerator = (*Generator)(nil)

// Name returns "go".
func (g *Generator) Name() string { return "go" }

// Generate renders one file for schema and writes it to opts.Sink.
// A schema without types produces no file.
func (g *Generator) Generate(ctx context.Context, schema *ir.Schema, opts GenerateOptions) (*GenerateResult, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := opts.Config
	if cfg.OutFile == "" {
		cfg.OutFile = DefaultOutFile
	}
	if !strings.HasSuffix(cfg.OutFile, ".go") || strings.Contains(cfg.OutFile, "/") {
		return nil, fmt.Errorf("invalid output file %q: must be a bare .go file name", cfg.OutFile)
	}

	result := &GenerateResult{Warnings: append([]ir.Warning(nil), schema.Warnings...)}
	if len(schema.Types) == 0 {
		return result, nil
	}

	for _, err := range schema.Validate() {
		var ve *ir.ValidationError
		if errors.As(err, &ve) && ve.Code == "duplicate_type" {
			return nil, fmt.Errorf("package %s: %w", schema.Package.Path, err)
		}
	}

	caps, err := namegen.GenerateAll(schema)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", schema.Package.Path, err)
	}

	content, err := Render(schema, caps, cfg)
	if err != nil {
		return nil, err
	}

	outPath := cfg.OutFile
	if cfg.Dir != "" && cfg.Dir != "." {
		outPath = path.Join(cfg.Dir, cfg.OutFile)
	}
	if err := opts.Sink.WriteFile(ctx, outPath, content); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	result.Files = append(result.Files, OutputFile{Path: outPath, Size: int64(len(content))})
	result.TypesGenerated = len(caps)
	return result, nil
}
