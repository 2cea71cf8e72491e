package ir

import "strconv"

// Kind classifies a declared type for short name generation.
type Kind int

const (
	KindRecord       Kind = iota // Struct or other defined non-interface type
	KindTaggedUnion              // Sealed interface whose implementers are the variants
	KindOverlapUnion             // Raw storage reinterpreted as one of several layouts ([N]byte)
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "Record"
	case KindTaggedUnion:
		return "TaggedUnion"
	case KindOverlapUnion:
		return "OverlapUnion"
	default:
		return "Unknown"
	}
}

// ParseKind maps the lowercase directive spelling of a kind to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "record":
		return KindRecord, true
	case "union", "tagged":
		return KindTaggedUnion, true
	case "overlap":
		return KindOverlapUnion, true
	default:
		return 0, false
	}
}

// VariantShape describes the payload a tagged union variant carries.
// The shape never influences the variant's label.
type VariantShape int

const (
	ShapeUnit  VariantShape = iota // struct{}
	ShapeTuple                     // only embedded fields, or a non-struct underlying type
	ShapeNamed                     // at least one named field
)

// String returns the string representation of the shape.
func (s VariantShape) String() string {
	switch s {
	case ShapeUnit:
		return "Unit"
	case ShapeTuple:
		return "Tuple"
	case ShapeNamed:
		return "Named"
	default:
		return "Unknown"
	}
}

// VariantDescriptor describes one case of a tagged union.
type VariantDescriptor struct {
	// Name is the variant's identifier. For Go unions this is the name of the
	// implementing type.
	Name string

	// Shape is the payload shape.
	Shape VariantShape

	// Pointer is set when only *Name implements the union.
	Pointer bool

	// TypeParams is the number of type parameters of a generic variant.
	// Every instantiation is the same variant.
	TypeParams int

	// Source location of the variant's declaration.
	Source Source
}

// TypeDescriptor describes one declared type.
type TypeDescriptor struct {
	// Kind classifies the declaration.
	Kind Kind

	// Name is the type identifier. Name.Name is never empty.
	Name GoIdentifier

	// TypeParams is the number of type parameters of a generic declaration.
	// Only the bare name takes part in the label.
	TypeParams int

	// Variants lists the union's cases in declaration order.
	// Only used when Kind is KindTaggedUnion.
	Variants []VariantDescriptor

	// Documentation for this type.
	Documentation Documentation

	// Source location in Go code.
	Source Source
}

// Variant returns the variant with the given name, or nil.
func (d *TypeDescriptor) Variant(name string) *VariantDescriptor {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return &d.Variants[i]
		}
	}
	return nil
}

// Validate checks the descriptor for structural issues.
// Returns all validation errors found (not just the first).
func (d *TypeDescriptor) Validate() []error {
	var errs []error
	add := func(code, msg string) {
		errs = append(errs, &ValidationError{Code: code, Message: msg})
	}

	name := d.Name.Name
	if name == "" {
		add("empty_name", "type descriptor has an empty name")
		name = "<unnamed>"
	}

	switch d.Kind {
	case KindRecord, KindOverlapUnion:
		if len(d.Variants) > 0 {
			add("unexpected_variants", d.Kind.String()+" "+name+" declares variants; only tagged unions have variants")
		}
	case KindTaggedUnion:
		if len(d.Variants) == 0 {
			add("no_variants", "tagged union "+name+" has no variants")
		}
		seen := make(map[string]bool, len(d.Variants))
		for i, v := range d.Variants {
			if v.Name == "" {
				add("empty_variant_name", "tagged union "+name+" has a variant with an empty name at position "+strconv.Itoa(i))
				continue
			}
			if seen[v.Name] {
				add("duplicate_variant", "tagged union "+name+" declares variant "+v.Name+" more than once")
			}
			seen[v.Name] = true
		}
	default:
		add("unknown_kind", "type "+name+" has unsupported kind "+strconv.Itoa(int(d.Kind)))
	}

	return errs
}
