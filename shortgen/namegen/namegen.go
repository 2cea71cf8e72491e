// Package namegen derives the ShortName capability of a type from its
// descriptor.
//
// Records and overlap unions get one constant label: the type name split into
// words. Tagged unions get one label per variant, precomputed into a table
// indexed by the variant's position in the descriptor (its discriminant).
// Payload shape never takes part.
package namegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/words"
)

// Case is one arm of a tagged union dispatch.
type Case struct {
	// Variant is the variant identifier as declared.
	Variant string

	// Shape is carried through so emitters can bind the payload correctly.
	Shape ir.VariantShape

	// Pointer is set when only *Variant implements the union.
	Pointer bool

	// TypeParams is the number of type parameters of a generic variant.
	TypeParams int

	// Label is words.Split(Variant).
	Label string
}

// Capability is the generated ShortName implementation for one type.
// It holds derived strings only and is safe for concurrent use.
type Capability struct {
	typ   ir.GoIdentifier
	kind  ir.Kind
	label string
	cases []Case
	index map[string]int
}

// Generate builds the capability for d.
//
// It fails with an *Error (matching ErrMalformedDescriptor) when d names no type,
// when a tagged union has no variants or repeats a variant name, and with an
// *Error matching ErrUnsupportedKind when d.Kind is not one of the three kinds.
func Generate(d *ir.TypeDescriptor) (*Capability, error) {
	if d == nil {
		return nil, &Error{Code: CodeMalformedDescriptor, Type: "<nil>", Message: "nil descriptor"}
	}

	if errs := d.Validate(); len(errs) > 0 {
		return nil, descriptorError(d, errs)
	}

	c := &Capability{
		typ:  d.Name,
		kind: d.Kind,
	}

	switch d.Kind {
	case ir.KindRecord, ir.KindOverlapUnion:
		c.label = words.Split(d.Name.Name)
	case ir.KindTaggedUnion:
		c.cases = make([]Case, len(d.Variants))
		c.index = make(map[string]int, len(d.Variants))
		for i, v := range d.Variants {
			c.cases[i] = Case{
				Variant:    v.Name,
				Shape:      v.Shape,
				Pointer:    v.Pointer,
				TypeParams: v.TypeParams,
				Label:      words.Split(v.Name),
			}
			c.index[v.Name] = i
		}
	}

	return c, nil
}

// GenerateAll builds capabilities for every type in the schema, in schema order.
// All failures are reported, joined with errors.Join.
func GenerateAll(schema *ir.Schema) ([]*Capability, error) {
	caps := make([]*Capability, 0, len(schema.Types))
	var errs []error
	for _, d := range schema.Types {
		c, err := Generate(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		caps = append(caps, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return caps, nil
}

func descriptorError(d *ir.TypeDescriptor, errs []error) *Error {
	name := d.Name.String()
	if name == "" {
		name = "<unnamed>"
	}

	code := CodeMalformedDescriptor
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		var ve *ir.ValidationError
		if errors.As(err, &ve) && ve.Code == "unknown_kind" {
			code = CodeUnsupportedKind
		}
		msgs = append(msgs, err.Error())
	}

	return &Error{
		Code:    code,
		Type:    name,
		Message: strings.Join(msgs, "; "),
		Causes:  errs,
	}
}

// Type returns the identifier of the described type.
func (c *Capability) Type() ir.GoIdentifier { return c.typ }

// Kind returns the kind of the described type.
func (c *Capability) Kind() ir.Kind { return c.kind }

// Label returns the constant label of a record or overlap union.
// It is empty for tagged unions.
func (c *Capability) Label() string { return c.label }

// Cases returns the tagged union's dispatch arms in declaration order.
// The returned slice is a copy.
func (c *Capability) Cases() []Case {
	out := make([]Case, len(c.cases))
	copy(out, c.cases)
	return out
}

// NumCases returns the number of dispatch arms (0 for non-unions).
func (c *Capability) NumCases() int { return len(c.cases) }

// AsShortName returns the label for the value whose variant has the given
// discriminant. For records and overlap unions the discriminant is ignored.
//
// Discriminants are indexes into the descriptor's variant list; an index
// outside it cannot come from a value of the described type and panics.
func (c *Capability) AsShortName(discriminant int) string {
	if c.kind != ir.KindTaggedUnion {
		return c.label
	}
	return c.cases[discriminant].Label
}

// Discriminant returns the discriminant of the named variant.
func (c *Capability) Discriminant(variant string) (int, bool) {
	i, ok := c.index[variant]
	return i, ok
}

// Lookup returns the label of the named variant.
func (c *Capability) Lookup(variant string) (string, bool) {
	i, ok := c.index[variant]
	if !ok {
		return "", false
	}
	return c.cases[i].Label, true
}

// Fingerprint renders the capability's observable output as text.
// Two capabilities generated from identical descriptors have identical fingerprints.
func (c *Capability) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", c.kind, c.typ)
	if c.kind != ir.KindTaggedUnion {
		fmt.Fprintf(&b, " = %q", c.label)
		return b.String()
	}
	for i, cs := range c.cases {
		fmt.Fprintf(&b, "\n%d %s(%s) = %q", i, cs.Variant, cs.Shape, cs.Label)
	}
	return b.String()
}
