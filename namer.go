package shortname

import (
	"context"
	"fmt"
	"reflect"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/namegen"
	"github.com/broady/shortname/shortgen/provider"
)

// Namer is the runtime short name capability of T.
// It is immutable and safe for concurrent use.
type Namer[T any] struct {
	cap *namegen.Capability

	// discriminants maps each variant type, and its pointer type, to its
	// position in the union. Nil for records and overlap unions.
	discriminants map[reflect.Type]int
}

// Derive builds the Namer of a record or overlap union type T.
// Pointer types are dereferenced. Interfaces are rejected; use DeriveUnion.
func Derive[T any]() (*Namer[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("shortname: %s is an interface; use DeriveUnion to list its variants", t)
	}

	p := &provider.ReflectionProvider{}
	d, err := p.BuildDescriptor(context.Background(), provider.ReflectionInputOptions{Type: t})
	if err != nil {
		return nil, fmt.Errorf("shortname: %w", err)
	}
	c, err := namegen.Generate(d)
	if err != nil {
		return nil, err
	}
	return &Namer[T]{cap: c}, nil
}

// DeriveUnion builds the Namer of the tagged union U, an interface type.
// Each variant is a value, typically the zero value, whose dynamic type is
// one variant; the order of variants is the discriminant order. A variant
// and a pointer to it name the same case, so listing both is an error.
func DeriveUnion[U any](variants ...U) (*Namer[U], error) {
	u := reflect.TypeFor[U]()
	if u.Kind() != reflect.Interface {
		return nil, fmt.Errorf("shortname: %s is not an interface; use Derive", u)
	}

	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		vt := reflect.TypeOf(any(v))
		if vt == nil {
			return nil, fmt.Errorf("shortname: variant %d of %s is nil", i, u)
		}
		types[i] = vt
	}

	p := &provider.ReflectionProvider{}
	d, err := p.BuildDescriptor(context.Background(), provider.ReflectionInputOptions{Type: u, Variants: types})
	if err != nil {
		return nil, fmt.Errorf("shortname: %w", err)
	}
	c, err := namegen.Generate(d)
	if err != nil {
		return nil, err
	}

	n := &Namer[U]{cap: c, discriminants: make(map[reflect.Type]int, 2*len(types))}
	for i, vt := range types {
		elem := vt
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		n.discriminants[elem] = i
		n.discriminants[reflect.PointerTo(elem)] = i
	}
	return n, nil
}

// MustDerive is like Derive but panics on error.
func MustDerive[T any]() *Namer[T] {
	n, err := Derive[T]()
	if err != nil {
		panic(err)
	}
	return n
}

// MustDeriveUnion is like DeriveUnion but panics on error.
func MustDeriveUnion[U any](variants ...U) *Namer[U] {
	n, err := DeriveUnion[U](variants...)
	if err != nil {
		panic(err)
	}
	return n
}

// AsShortName returns the short name of v.
//
// For a union, v must hold one of the variants the Namer was derived with;
// any other value, including nil, panics, the same as a generated dispatch
// function given a value outside its sealed union.
func (n *Namer[T]) AsShortName(v T) string {
	if n.cap.Kind() != ir.KindTaggedUnion {
		return n.cap.Label()
	}
	i, ok := n.discriminants[reflect.TypeOf(any(v))]
	if !ok {
		panic(fmt.Sprintf("shortname: unhandled %s variant %T", n.cap.Type().Name, v))
	}
	return n.cap.AsShortName(i)
}

// Lookup is like AsShortName but reports false instead of panicking.
func (n *Namer[T]) Lookup(v T) (string, bool) {
	if n.cap.Kind() != ir.KindTaggedUnion {
		return n.cap.Label(), true
	}
	i, ok := n.discriminants[reflect.TypeOf(any(v))]
	if !ok {
		return "", false
	}
	return n.cap.AsShortName(i), true
}

// Capability returns the underlying capability.
func (n *Namer[T]) Capability() *namegen.Capability {
	return n.cap
}

// names returns the short name of every concrete type the Namer covers.
func (n *Namer[T]) names() map[reflect.Type]string {
	if n.cap.Kind() == ir.KindTaggedUnion {
		out := make(map[reflect.Type]string, len(n.discriminants))
		for t, i := range n.discriminants {
			out[t] = n.cap.AsShortName(i)
		}
		return out
	}

	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	label := n.cap.Label()
	return map[reflect.Type]string{t: label, reflect.PointerTo(t): label}
}
