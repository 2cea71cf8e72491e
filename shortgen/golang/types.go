// Package golang renders short name capabilities as Go source.
package golang

import (
	"context"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/sink"
)

// DefaultOutFile is the generated file name used when none is configured.
const DefaultOutFile = "shortname_gen.go"

// Header is the first line of every generated file.
const Header = "// Code generated by shortname. DO NOT EDIT."

// CodeGenerator transforms a schema into target language source code.
type CodeGenerator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate produces source code for the given schema.
	Generate(ctx context.Context, schema *ir.Schema, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains generator configuration.
	Config GeneratorConfig
}

// GeneratorConfig configures the Go output.
type GeneratorConfig struct {
	// Dir is the slash-separated directory, relative to the sink root, that
	// receives the generated file. Empty means the sink root.
	Dir string

	// OutFile is the generated file's base name (default: shortname_gen.go).
	OutFile string

	// EmitComments adds doc comments to generated methods.
	EmitComments bool
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// TypesGenerated is the count of types successfully generated.
	TypesGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}
