// Package directive parses shortname directives from Go source files.
//
// Directives are line comments in the doc comment of a type declaration:
//
//	//shortname:derive [key=value ...]
//	//shortname:ignore
//
// The derive directive marks a type for generation. Its options use
// key=value pairs; the only key is kind, one of record, union or overlap,
// which overrides the kind inferred from the type's underlying type.
//
// The ignore directive keeps a type out of every tagged union in its package
// even though it implements the union's interface.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/schema"
)

const prefix = "//shortname:"

// Directive represents a parsed shortname directive.
type Directive struct {
	Kind     Kind           // derive or ignore
	TypeName string         // name of the annotated type
	Options  Options        // decoded key=value options
	Pos      token.Position // source location
}

// Kind represents the type of directive.
type Kind string

const (
	KindDerive Kind = "derive"
	KindIgnore Kind = "ignore"
)

// Options are the key=value settings of a derive directive.
type Options struct {
	// Kind overrides the inferred declaration kind: "record", "union" or "overlap".
	Kind string `schema:"kind"`
}

var decoder = schema.NewDecoder()

// Result contains all directives found in a set of files, keyed by type name.
type Result struct {
	// Derive holds //shortname:derive directives in source order.
	Derive []Directive

	// Ignore holds the names of types marked //shortname:ignore.
	Ignore map[string]bool
}

// Lookup returns the derive directive for the named type, if any.
func (r *Result) Lookup(typeName string) (Directive, bool) {
	for _, d := range r.Derive {
		if d.TypeName == typeName {
			return d, true
		}
	}
	return Directive{}, false
}

// ParseFiles extracts directives from the files of one package.
//
// Returns an error if:
//   - A directive is not part of a type declaration's doc comment
//   - A directive name or option is unknown
//   - The same type carries more than one derive directive
func ParseFiles(fset *token.FileSet, files []*ast.File) (*Result, error) {
	result := &Result{Ignore: make(map[string]bool)}
	seen := make(map[string]token.Position)

	for _, f := range files {
		directives, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}

		for _, d := range directives {
			switch d.Kind {
			case KindDerive:
				if prev, ok := seen[d.TypeName]; ok {
					return nil, fmt.Errorf("multiple //shortname:derive directives for type %s:\n  %s\n  %s",
						d.TypeName, prev, d.Pos)
				}
				seen[d.TypeName] = d.Pos
				result.Derive = append(result.Derive, d)
			case KindIgnore:
				result.Ignore[d.TypeName] = true
			}
		}
	}

	sort.SliceStable(result.Derive, func(i, j int) bool {
		a, b := result.Derive[i].Pos, result.Derive[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})

	return result, nil
}

type pending struct {
	kind Kind
	opts Options
	pos  token.Position
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive

	// Directives are keyed by the end of their comment group so they can be
	// matched to the type declaration the group documents.
	commentToDirective := make(map[token.Pos][]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, prefix) {
				continue
			}

			text := strings.TrimPrefix(c.Text, prefix)
			parts := strings.Fields(text)
			if len(parts) == 0 {
				continue
			}

			pos := fset.Position(c.Pos())
			switch Kind(parts[0]) {
			case KindDerive:
				opts, err := decodeOptions(parts[1:])
				if err != nil {
					return nil, fmt.Errorf("%s: //shortname:derive: %w", pos, err)
				}
				commentToDirective[cg.End()] = append(commentToDirective[cg.End()], pending{
					kind: KindDerive,
					opts: opts,
					pos:  pos,
				})
			case KindIgnore:
				if len(parts) > 1 {
					return nil, fmt.Errorf("%s: //shortname:ignore takes no options", pos)
				}
				commentToDirective[cg.End()] = append(commentToDirective[cg.End()], pending{
					kind: KindIgnore,
					pos:  pos,
				})
			default:
				return nil, fmt.Errorf("%s: unknown directive //shortname:%s", pos, parts[0])
			}
		}
	}

	match := func(doc *ast.CommentGroup, typeName string) {
		if doc == nil {
			return
		}
		ps, ok := commentToDirective[doc.End()]
		if !ok {
			return
		}
		for _, p := range ps {
			directives = append(directives, Directive{
				Kind:     p.kind,
				TypeName: typeName,
				Options:  p.opts,
				Pos:      p.pos,
			})
		}
		delete(commentToDirective, doc.End())
	}

	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			match(ts.Doc, ts.Name.Name)
			// An unparenthesized declaration carries its doc on the GenDecl.
			if !gd.Lparen.IsValid() {
				match(gd.Doc, ts.Name.Name)
			}
		}
	}

	// Report the earliest unmatched directive.
	var unmatched []pending
	for _, ps := range commentToDirective {
		unmatched = append(unmatched, ps...)
	}
	if len(unmatched) > 0 {
		sort.Slice(unmatched, func(i, j int) bool { return unmatched[i].pos.Offset < unmatched[j].pos.Offset })
		p := unmatched[0]
		return nil, fmt.Errorf("%s: //shortname:%s directive must be followed by a type declaration", p.pos, p.kind)
	}

	return directives, nil
}

// decodeOptions decodes key=value pairs into Options.
func decodeOptions(pairs []string) (Options, error) {
	var opts Options
	if len(pairs) == 0 {
		return opts, nil
	}

	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return opts, fmt.Errorf("malformed option %q (expected key=value)", pair)
		}
		values.Add(key, value)
	}

	if err := decoder.Decode(&opts, values); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}

	switch opts.Kind {
	case "", "record", "union", "tagged", "overlap":
	default:
		return opts, fmt.Errorf("unknown kind %q (expected record, union or overlap)", opts.Kind)
	}

	return opts, nil
}
