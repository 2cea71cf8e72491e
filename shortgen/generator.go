// Package shortgen generates AsShortName methods for Go types.
//
// The pipeline loads packages with the source provider, derives each type's
// capability, renders one file per package and hands it to an output sink:
//
//	shortgen.FromPackages("./internal/shapes").
//	    WithComments().
//	    ToDisk(ctx)
package shortgen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/broady/shortname/shortgen/golang"
	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/provider"
	"github.com/broady/shortname/shortgen/sink"
)

// Result summarizes a generation run.
type Result struct {
	// Packages holds one entry per loaded package, sorted by import path.
	Packages []PackageResult

	// Contents maps output paths to generated source. It is only set by
	// Generator.Generate.
	Contents map[string][]byte
}

// PackageResult is the outcome for a single package.
type PackageResult struct {
	Package        ir.PackageInfo
	Files          []golang.OutputFile
	TypesGenerated int
	Warnings       []ir.Warning
}

// TypesGenerated returns the number of types generated across all packages.
func (r *Result) TypesGenerated() int {
	n := 0
	for _, p := range r.Packages {
		n += p.TypesGenerated
	}
	return n
}

// Files returns every file written, in package order.
func (r *Result) Files() []golang.OutputFile {
	var files []golang.OutputFile
	for _, p := range r.Packages {
		files = append(files, p.Files...)
	}
	return files
}

// Warnings returns every warning, in package order.
func (r *Result) Warnings() []ir.Warning {
	var warnings []ir.Warning
	for _, p := range r.Packages {
		warnings = append(warnings, p.Warnings...)
	}
	return warnings
}

// Generate runs the pipeline for cfg and writes one file per package to out.
// Output paths are slash-separated and relative to cfg.Dir.
func Generate(ctx context.Context, cfg *Config, out sink.OutputSink) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if out == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = applyConfigDefaults(cfg)
	logger := cfg.Logger

	root, err := cfg.root()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	p := &provider.SourceProvider{}
	schemas, err := p.BuildSchemas(ctx, provider.SourceInputOptions{
		Packages:      cfg.Packages,
		Dir:           cfg.Dir,
		Types:         cfg.Types,
		GeneratedFile: cfg.OutFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	results := make([]PackageResult, len(schemas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, schema := range schemas {
		g.Go(func() error {
			dir, err := relDir(root, schema.Package)
			if err != nil {
				return err
			}

			gen := &golang.Generator{}
			res, err := gen.Generate(gctx, schema, golang.GenerateOptions{
				Sink: out,
				Config: golang.GeneratorConfig{
					Dir:          dir,
					OutFile:      cfg.OutFile,
					EmitComments: cfg.EmitComments,
				},
			})
			if err != nil {
				return err
			}

			results[i] = PackageResult{
				Package:        schema.Package,
				Files:          res.Files,
				TypesGenerated: res.TypesGenerated,
				Warnings:       res.Warnings,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		for _, w := range r.Warnings {
			logger.Warn("type skipped or incomplete",
				slog.String("package", r.Package.Path),
				slog.String("type", w.TypeName),
				slog.String("code", w.Code),
				slog.String("message", w.Message))
		}
		logger.Debug("package generated",
			slog.String("package", r.Package.Path),
			slog.Int("types", r.TypesGenerated),
			slog.Int("files", len(r.Files)))
	}

	return &Result{Packages: results}, nil
}

// relDir returns the package directory relative to root, slash-separated.
func relDir(root string, pkg ir.PackageInfo) (string, error) {
	if pkg.Dir == "" {
		return "", fmt.Errorf("package %s has no directory", pkg.Path)
	}
	rel, err := filepath.Rel(root, pkg.Dir)
	if err != nil {
		return "", fmt.Errorf("package %s: %w", pkg.Path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("package %s is outside %s", pkg.Path, root)
	}
	return rel, nil
}

// Generator provides a fluent API for code generation.
// Create with FromPackages and configure with method chaining.
//
// Example:
//
//	shortgen.FromPackages("./internal/shapes").
//	    Types("Shape", "Celsius").
//	    OutFile("names_gen.go").
//	    ToDisk(ctx)
type Generator struct {
	cfg Config
}

// FromPackages creates a Generator for the given package patterns.
func FromPackages(pkgs ...string) *Generator {
	return &Generator{cfg: Config{Packages: pkgs}}
}

// FromConfig creates a Generator from an existing Config.
func FromConfig(cfg *Config) *Generator {
	return &Generator{cfg: *cfg}
}

// Types restricts generation to the named types.
func (g *Generator) Types(names ...string) *Generator {
	g.cfg.Types = append(g.cfg.Types, names...)
	return g
}

// OutFile sets the generated file name.
func (g *Generator) OutFile(name string) *Generator {
	g.cfg.OutFile = name
	return g
}

// WithComments enables doc comments on generated methods.
func (g *Generator) WithComments() *Generator {
	g.cfg.EmitComments = true
	return g
}

// Dir sets the working directory for package patterns and output paths.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// WithLogger sets the logger for warnings and progress.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// ToDisk writes the generated files next to their packages.
func (g *Generator) ToDisk(ctx context.Context) (*Result, error) {
	root, err := g.cfg.root()
	if err != nil {
		return nil, err
	}
	return Generate(ctx, &g.cfg, sink.NewFilesystemSink(root))
}

// ToSink writes the generated files to out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*Result, error) {
	return Generate(ctx, &g.cfg, out)
}

// Generate returns the generated files in Result.Contents without writing
// to disk.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	mem := sink.NewMemorySink()
	result, err := Generate(ctx, &g.cfg, mem)
	if err != nil {
		return nil, err
	}
	result.Contents = mem.Files()
	return result, nil
}

// Check regenerates in memory and returns the output paths whose file on
// disk is missing or differs.
func (g *Generator) Check(ctx context.Context) ([]string, error) {
	root, err := g.cfg.root()
	if err != nil {
		return nil, err
	}
	cmp := sink.NewCompareSink(root)
	if _, err := Generate(ctx, &g.cfg, cmp); err != nil {
		return nil, err
	}
	return cmp.Stale(), nil
}
