// Package provider implements input providers that extract type information
// from Go code and convert it to descriptors.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/shortname/internal/directive"
	"github.com/broady/shortname/shortgen/ir"
)

// MethodName is the name of the generated capability method.
const MethodName = "AsShortName"

// SourceProvider extracts descriptors by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based extraction.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// Dir is the working directory for resolving Packages. Empty means the
	// current directory.
	Dir string

	// Types are the type names to extract. If empty, every type carrying a
	// //shortname:derive directive is extracted.
	Types []string

	// GeneratedFile is the base name of the generated file. Its declarations
	// are ignored, so a stale file never blocks regeneration. AsShortName
	// methods declared in any other file exclude their type from generation.
	GeneratedFile string
}

// BuildSchemas analyzes source code and returns one Schema per loaded package,
// sorted by package path.
func (p *SourceProvider) BuildSchemas(ctx context.Context, opts SourceInputOptions) ([]*ir.Schema, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			// Previous output is invisible to the analysis that replaces it.
			if isGenerated(filename, opts.GeneratedFile) {
				return parser.ParseFile(fset, filename, src, parser.PackageClauseOnly)
			}
			return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
		},
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	for _, pkg := range pkgs {
		if errs := fatalErrors(pkg, opts.GeneratedFile); len(errs) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, errs)
		}
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	found := make(map[string]bool, len(opts.Types))
	schemas := make([]*ir.Schema, 0, len(pkgs))
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b, err := newSchemaBuilder(pkg)
		if err != nil {
			return nil, err
		}

		if len(opts.Types) > 0 {
			for _, name := range opts.Types {
				ok, err := b.extractRootType(name)
				if err != nil {
					return nil, fmt.Errorf("failed to extract root type %s: %w", name, err)
				}
				found[name] = found[name] || ok
			}
		} else if err := b.extractDirectiveTypes(); err != nil {
			return nil, err
		}

		schemas = append(schemas, b.schema)
	}

	for _, name := range opts.Types {
		if !found[name] {
			return nil, fmt.Errorf("type %s not found in any package", name)
		}
	}

	return schemas, nil
}

// fatalErrors returns the errors that make pkg unusable. Type errors are
// tolerated in a package whose generated file was hidden, since code calling
// the generated methods no longer type-checks until the file is rewritten.
func fatalErrors(pkg *packages.Package, generatedFile string) []packages.Error {
	hidden := false
	for _, f := range pkg.GoFiles {
		if isGenerated(f, generatedFile) {
			hidden = true
			break
		}
	}

	var errs []packages.Error
	for _, e := range pkg.Errors {
		if hidden && e.Kind == packages.TypeError {
			continue
		}
		errs = append(errs, e)
	}
	return errs
}

func isGenerated(filename, generatedFile string) bool {
	return generatedFile != "" && filepath.Base(filename) == generatedFile
}

// schemaBuilder accumulates the descriptors of a single package.
type schemaBuilder struct {
	pkg        *packages.Package
	schema     *ir.Schema
	directives *directive.Result
	docs       map[*types.TypeName]*ast.CommentGroup
	extracted  map[*types.TypeName]bool
}

func newSchemaBuilder(pkg *packages.Package) (*schemaBuilder, error) {
	dirs, err := directive.ParseFiles(pkg.Fset, pkg.Syntax)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, err)
	}

	b := &schemaBuilder{
		pkg:        pkg,
		directives: dirs,
		docs:       make(map[*types.TypeName]*ast.CommentGroup),
		extracted:  make(map[*types.TypeName]bool),
		schema: &ir.Schema{
			Package: ir.PackageInfo{
				Path: pkg.PkgPath,
				Name: pkg.Name,
			},
		},
	}
	if len(pkg.GoFiles) > 0 {
		b.schema.Package.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	b.indexDocs()
	return b, nil
}

// indexDocs maps every declared type to its doc comment.
func (b *schemaBuilder) indexDocs() {
	for _, file := range b.pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				tn, ok := b.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}
				if doc != nil {
					b.docs[tn] = doc
				}
			}
		}
	}
}

// extractRootType finds and extracts a named type by name.
// It reports false when the package does not declare the type.
func (b *schemaBuilder) extractRootType(name string) (bool, error) {
	obj := b.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return false, nil
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		return false, fmt.Errorf("%s is not a type", name)
	}

	d, _ := b.directives.Lookup(name)
	return true, b.extractNamedType(tn, d.Options)
}

// extractDirectiveTypes extracts every type marked //shortname:derive.
func (b *schemaBuilder) extractDirectiveTypes() error {
	for _, d := range b.directives.Derive {
		obj := b.pkg.Types.Scope().Lookup(d.TypeName)
		tn, ok := obj.(*types.TypeName)
		if !ok {
			return fmt.Errorf("%s: //shortname:derive on %s, which is not a package-level type", d.Pos, d.TypeName)
		}
		if err := b.extractNamedType(tn, d.Options); err != nil {
			return fmt.Errorf("%s: %w", d.Pos, err)
		}
	}
	return nil
}

// extractNamedType classifies tn and adds its descriptor to the schema.
func (b *schemaBuilder) extractNamedType(tn *types.TypeName, opts directive.Options) error {
	if b.extracted[tn] {
		return nil
	}
	b.extracted[tn] = true

	if tn.IsAlias() {
		return fmt.Errorf("%s is an alias; derive the aliased type instead", tn.Name())
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return fmt.Errorf("%s is not a defined type", tn.Name())
	}

	if b.hasForeignMethod(named) {
		b.warn(tn, "HAS_SHORT_NAME", fmt.Sprintf("type %s already declares %s, skipped", tn.Name(), MethodName))
		return nil
	}

	kind, err := b.classify(named, opts)
	if err != nil {
		return err
	}

	desc := &ir.TypeDescriptor{
		Kind:          kind,
		Name:          ir.GoIdentifier{Name: tn.Name(), Package: b.pkg.PkgPath},
		TypeParams:    named.TypeParams().Len(),
		Documentation: parseDocumentation(b.docs[tn]),
		Source:        b.source(tn),
	}

	if kind == ir.KindTaggedUnion {
		if desc.TypeParams > 0 {
			b.warn(tn, "GENERIC_UNION", fmt.Sprintf("generic interface %s cannot be dispatched over, skipped", tn.Name()))
			return nil
		}
		iface := named.Underlying().(*types.Interface)
		if iface.Empty() {
			return fmt.Errorf("interface %s has an empty method set; every type would be a variant", tn.Name())
		}
		if !isSealed(iface) {
			b.warn(tn, "OPEN_UNION", fmt.Sprintf("interface %s has no unexported methods; variants outside package %s are not covered", tn.Name(), b.pkg.Name))
		}
		variants, err := b.collectVariants(named, iface)
		if err != nil {
			return err
		}
		desc.Variants = variants
	}

	b.schema.AddType(desc)
	return nil
}

// classify determines the kind of named, honoring a directive override.
func (b *schemaBuilder) classify(named *types.Named, opts directive.Options) (ir.Kind, error) {
	_, isInterface := named.Underlying().(*types.Interface)

	if opts.Kind != "" {
		kind, ok := ir.ParseKind(opts.Kind)
		if !ok {
			return 0, fmt.Errorf("unknown kind %q", opts.Kind)
		}
		if isInterface != (kind == ir.KindTaggedUnion) {
			return 0, fmt.Errorf("%s cannot be derived as kind=%s", named.Obj().Name(), opts.Kind)
		}
		return kind, nil
	}

	switch u := named.Underlying().(type) {
	case *types.Interface:
		return ir.KindTaggedUnion, nil
	case *types.Array:
		if isByte(u.Elem()) {
			return ir.KindOverlapUnion, nil
		}
	}
	return ir.KindRecord, nil
}

// collectVariants returns the package's types implementing iface, in source order.
func (b *schemaBuilder) collectVariants(union *types.Named, iface *types.Interface) ([]ir.VariantDescriptor, error) {
	// Variants only gain AsShortName once the generated file exists, so it
	// cannot be required for membership.
	required := withoutMethod(iface, MethodName)

	var candidates []*types.TypeName
	scope := b.pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() || tn == union.Obj() || b.directives.Ignore[name] {
			continue
		}
		candidates = append(candidates, tn)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Pos() < candidates[j].Pos() })

	var variants []ir.VariantDescriptor
	for _, tn := range candidates {
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, isInterface := named.Underlying().(*types.Interface); isInterface {
			continue
		}
		// A generic type is checked through its instantiation with its own
		// type parameters; every instantiation shares the same methods.
		var typ types.Type = named
		if named.TypeParams().Len() > 0 {
			typ = selfInstance(named)
			if typ == nil {
				continue
			}
		}

		var pointer bool
		switch {
		case types.Implements(typ, required):
		case types.Implements(types.NewPointer(typ), required):
			pointer = true
		default:
			continue
		}

		if b.hasForeignMethod(named) {
			return nil, fmt.Errorf("variant %s of %s already declares %s", tn.Name(), union.Obj().Name(), MethodName)
		}

		variants = append(variants, ir.VariantDescriptor{
			Name:       tn.Name(),
			Shape:      shapeOf(named.Underlying()),
			Pointer:    pointer,
			TypeParams: named.TypeParams().Len(),
			Source:     b.source(tn),
		})
	}

	return variants, nil
}

// selfInstance instantiates the generic type named with its own type
// parameters, or returns nil if that fails.
func selfInstance(named *types.Named) types.Type {
	tparams := named.TypeParams()
	args := make([]types.Type, tparams.Len())
	for i := range args {
		args[i] = tparams.At(i)
	}
	inst, err := types.Instantiate(nil, named, args, false)
	if err != nil {
		return nil
	}
	return inst
}

// hasForeignMethod reports whether named (or *named) declares AsShortName.
// Methods from the generated file are never seen, so any match is hand-written.
func (b *schemaBuilder) hasForeignMethod(named *types.Named) bool {
	for i := 0; i < named.NumMethods(); i++ {
		if named.Method(i).Name() == MethodName {
			return true
		}
	}
	return false
}

func (b *schemaBuilder) source(obj types.Object) ir.Source {
	pos := obj.Pos()
	if !pos.IsValid() {
		return ir.Source{}
	}
	position := b.pkg.Fset.Position(pos)
	return ir.Source{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

func (b *schemaBuilder) warn(tn *types.TypeName, code, message string) {
	src := b.source(tn)
	b.schema.AddWarning(ir.Warning{
		Code:     code,
		Message:  message,
		Source:   &src,
		TypeName: tn.Name(),
	})
}

// shapeOf maps an underlying type to a variant shape.
func shapeOf(t types.Type) ir.VariantShape {
	st, ok := t.(*types.Struct)
	if !ok {
		return ir.ShapeTuple
	}
	if st.NumFields() == 0 {
		return ir.ShapeUnit
	}
	for i := 0; i < st.NumFields(); i++ {
		if !st.Field(i).Embedded() {
			return ir.ShapeNamed
		}
	}
	return ir.ShapeTuple
}

// isSealed reports whether iface has an unexported method, which restricts
// its implementations to the declaring package.
func isSealed(iface *types.Interface) bool {
	for i := 0; i < iface.NumMethods(); i++ {
		if !iface.Method(i).Exported() {
			return true
		}
	}
	return false
}

// withoutMethod returns iface minus the named method.
func withoutMethod(iface *types.Interface, name string) *types.Interface {
	methods := make([]*types.Func, 0, iface.NumMethods())
	for i := 0; i < iface.NumMethods(); i++ {
		if m := iface.Method(i); m.Name() != name {
			methods = append(methods, m)
		}
	}
	return types.NewInterfaceType(methods, nil).Complete()
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Byte
}

// parseDocumentation parses a comment group into Documentation,
// dropping directive lines.
func parseDocumentation(cg *ast.CommentGroup) ir.Documentation {
	if cg == nil {
		return ir.Documentation{}
	}

	// Text drops //shortname: lines along with other directives.
	body := strings.TrimSpace(cg.Text())
	if body == "" {
		return ir.Documentation{}
	}

	summary := body
	if i := strings.Index(summary, "\n\n"); i >= 0 {
		summary = summary[:i]
	}
	summary = strings.Join(strings.Fields(summary), " ")

	return ir.Documentation{
		Summary: summary,
		Body:    body,
	}
}
