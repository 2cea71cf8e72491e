package provider

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/broady/shortname/shortgen/ir"
)

// ReflectionProvider builds descriptors from runtime type information.
// It cannot discover union variants on its own; callers list them.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based extraction.
type ReflectionInputOptions struct {
	// Type is the described type. Pointer types are dereferenced.
	Type reflect.Type

	// Variants are the variant types of a tagged union, in dispatch order.
	// Required when Type is an interface, rejected otherwise.
	Variants []reflect.Type
}

// BuildDescriptor describes opts.Type.
//
// The descriptor is not validated here: a union with no variants or with a
// repeated variant is returned as is and rejected by the name generator.
func (p *ReflectionProvider) BuildDescriptor(ctx context.Context, opts ReflectionInputOptions) (*ir.TypeDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := opts.Type
	if t == nil {
		return nil, fmt.Errorf("no type provided")
	}
	t = indirect(t)

	name := typeName(t)
	if name == "" {
		return nil, fmt.Errorf("type %s has no name", t)
	}

	desc := &ir.TypeDescriptor{
		Name: ir.GoIdentifier{Name: name, Package: t.PkgPath()},
	}

	switch {
	case t.Kind() == reflect.Interface:
		desc.Kind = ir.KindTaggedUnion
		for _, vt := range opts.Variants {
			v, err := p.buildVariant(t, vt)
			if err != nil {
				return nil, err
			}
			desc.Variants = append(desc.Variants, v)
		}
	case len(opts.Variants) > 0:
		return nil, fmt.Errorf("type %s is not an interface and cannot have variants", name)
	case t.Kind() == reflect.Array && t.Elem().Kind() == reflect.Uint8:
		desc.Kind = ir.KindOverlapUnion
	default:
		desc.Kind = ir.KindRecord
	}

	return desc, nil
}

func (p *ReflectionProvider) buildVariant(union, vt reflect.Type) (ir.VariantDescriptor, error) {
	if vt == nil {
		return ir.VariantDescriptor{}, fmt.Errorf("nil variant of %s", union.Name())
	}
	if !vt.Implements(union) {
		return ir.VariantDescriptor{}, fmt.Errorf("variant %s does not implement %s", vt, union.Name())
	}

	elem := indirect(vt)
	name := typeName(elem)
	if name == "" {
		return ir.VariantDescriptor{}, fmt.Errorf("variant %s of %s has no name", vt, union.Name())
	}

	return ir.VariantDescriptor{
		Name:    name,
		Shape:   reflectShape(elem),
		Pointer: !elem.Implements(union),
	}, nil
}

// typeName returns the declared name of t without type arguments.
func typeName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// reflectShape mirrors shapeOf for runtime types.
func reflectShape(t reflect.Type) ir.VariantShape {
	if t.Kind() != reflect.Struct {
		return ir.ShapeTuple
	}
	if t.NumField() == 0 {
		return ir.ShapeUnit
	}
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).Anonymous {
			return ir.ShapeNamed
		}
	}
	return ir.ShapeTuple
}
