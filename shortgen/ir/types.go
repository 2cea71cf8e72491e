// Package ir defines the descriptor model the short name generator consumes.
// Descriptors are produced by providers (source analysis or reflection), are
// immutable once built, and exist only for the duration of a generation run.
package ir

// GoIdentifier represents a named Go entity with package context.
type GoIdentifier struct {
	// Name is the declared identifier, e.g. "NamedFieldsStruct".
	Name string

	// Package is the fully qualified package path.
	// Empty for types whose package is unknown (e.g. descriptors built by hand).
	Package string
}

// IsZero returns true if the identifier is empty.
func (id GoIdentifier) IsZero() bool {
	return id.Name == "" && id.Package == ""
}

// String returns "pkg.Name", or just the name when the package is empty.
func (id GoIdentifier) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// Documentation holds documentation comments extracted from Go source.
type Documentation struct {
	// Summary is the first sentence of the doc comment.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// Warning represents a non-fatal issue encountered while building descriptors.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}

// PackageInfo describes a Go package.
type PackageInfo struct {
	// Path is the import path (e.g., "github.com/foo/bar").
	Path string

	// Name is the package name (e.g., "bar").
	Name string

	// Dir is the filesystem directory, if known.
	Dir string
}

// IsZero returns true if the package info is empty.
func (p PackageInfo) IsZero() bool {
	return p.Path == "" && p.Name == "" && p.Dir == ""
}
