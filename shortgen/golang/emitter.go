package golang

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/namegen"
)

// fmtName is the name fmt is imported under, so a package-level fmt declared
// by the user's package does not clash with it.
const fmtName = "shortnamefmt"

// Render produces the formatted source of one generated file.
// caps must be the capabilities of schema.Types, in the same order.
func Render(schema *ir.Schema, caps []*namegen.Capability, cfg GeneratorConfig) ([]byte, error) {
	if schema.Package.Name == "" {
		return nil, fmt.Errorf("schema has no package name")
	}
	if len(caps) != len(schema.Types) {
		return nil, fmt.Errorf("got %d capabilities for %d types", len(caps), len(schema.Types))
	}
	if cfg.OutFile == "" {
		cfg.OutFile = DefaultOutFile
	}

	e := &emitter{
		cfg:  cfg,
		seen: make(map[string]bool),
	}
	e.printf("%s\n\npackage %s\n", Header, schema.Package.Name)

	for _, c := range caps {
		if c.Kind() == ir.KindTaggedUnion {
			e.printf("\nimport %s \"fmt\"\n", fmtName)
			break
		}
	}

	for i, c := range caps {
		d := schema.Types[i]
		switch c.Kind() {
		case ir.KindRecord, ir.KindOverlapUnion:
			e.method(receiver(d.Name.Name, d.TypeParams), c.Label())
		case ir.KindTaggedUnion:
			e.union(d, c)
		default:
			return nil, fmt.Errorf("%s: unsupported kind %s", d.Name, c.Kind())
		}
	}

	src, err := imports.Process(cfg.OutFile, e.buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, e.buf.Bytes())
	}
	return src, nil
}

type emitter struct {
	buf  bytes.Buffer
	cfg  GeneratorConfig
	seen map[string]bool
}

func (e *emitter) printf(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
}

// method emits the AsShortName method of one type unless it was emitted
// already. A variant shared by several unions gets a single method.
func (e *emitter) method(recv, label string) {
	name := recv
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if e.seen[name] {
		return
	}
	e.seen[name] = true

	e.printf("\n")
	if e.cfg.EmitComments {
		e.printf("// AsShortName returns %s.\n", strconv.Quote(label))
	}
	e.printf("func (%s) AsShortName() string { return %s }\n", recv, strconv.Quote(label))
}

func (e *emitter) union(d *ir.TypeDescriptor, c *namegen.Capability) {
	cases := c.Cases()
	union := d.Name.Name

	var generic, concrete int
	for _, cs := range cases {
		e.method(receiver(cs.Variant, cs.TypeParams), cs.Label)
		if cs.TypeParams > 0 {
			generic++
		} else {
			concrete++
		}
	}

	// A generic variant has no type to assert without type arguments; its
	// method's receiver already fails to build once the type is gone.
	if concrete > 0 {
		e.printf("\nvar (\n")
		for _, cs := range cases {
			if cs.TypeParams == 0 {
				e.printf("\t_ %s = (*%s)(nil)\n", union, cs.Variant)
			}
		}
		e.printf(")\n")
	}

	fn := union + "ShortName"
	e.printf("\n// %s returns the short name of the %s variant held by v.\n", fn, union)
	if e.cfg.EmitComments && d.Documentation.Summary != "" {
		e.printf("//\n// %s: %s\n", union, d.Documentation.Summary)
	}
	e.printf("func %s(v %s) string {\n", fn, union)
	if concrete > 0 {
		e.printf("\tswitch v.(type) {\n")
		for _, cs := range cases {
			if cs.TypeParams > 0 {
				continue
			}
			if cs.Pointer {
				e.printf("\tcase *%s:\n", cs.Variant)
			} else {
				e.printf("\tcase %s, *%s:\n", cs.Variant, cs.Variant)
			}
			e.printf("\t\treturn %s\n", strconv.Quote(cs.Label))
		}
		e.printf("\t}\n")
	}
	if generic > 0 {
		// Instantiations of generic variants cannot be listed in a type
		// switch; each carries the method emitted above.
		e.printf("\tif n, ok := v.(interface{ AsShortName() string }); ok {\n")
		e.printf("\t\treturn n.AsShortName()\n")
		e.printf("\t}\n")
	}
	e.printf("\tpanic(%s.Sprintf(\"shortname: unhandled %s variant %%T\", v))\n", fmtName, union)
	e.printf("}\n")
}

// receiver returns the receiver type of a possibly generic type, with blank
// type parameters: Box[_], Pair[_, _].
func receiver(name string, typeParams int) string {
	if typeParams == 0 {
		return name
	}
	return name + "[" + strings.TrimSuffix(strings.Repeat("_, ", typeParams), ", ") + "]"
}
