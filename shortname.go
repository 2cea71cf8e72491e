// Package shortname derives human-readable short names for Go types.
//
// A short name is the type's identifier split into words at every
// lowercase-or-digit to uppercase transition: NamedFieldsStruct becomes
// "Named Fields Struct". For a tagged union (a sealed interface) the name is
// that of the variant the value holds.
//
// There are two ways to get a short name. The shortname command generates
// AsShortName methods at build time from //shortname:derive directives:
//
//	//shortname:derive
//	type Shape interface{ isShape() }
//
//	//go:generate go run github.com/broady/shortname/cmd/shortname gen .
//
// Without code generation, Derive and DeriveUnion build the same names at
// runtime from reflection:
//
//	shapes := shortname.MustDeriveUnion[Shape](Circle{}, UnitSquare{})
//	shapes.AsShortName(Circle{Radius: 2}) // "Circle"
//	shapes.AsShortName(UnitSquare{})      // "Unit Square"
package shortname

import (
	"reflect"
	"strings"

	"github.com/broady/shortname/shortgen/words"
)

// ShortName is implemented by types with a derived short name.
// Generated methods satisfy it.
type ShortName interface {
	AsShortName() string
}

// Default is the registry consulted by Of.
var Default = NewRegistry()

// Register derives T and installs it into Default.
func Register[T any]() error {
	n, err := Derive[T]()
	if err != nil {
		return err
	}
	Install(Default, n)
	return nil
}

// RegisterUnion derives the union U over variants and installs it into Default.
func RegisterUnion[U any](variants ...U) error {
	n, err := DeriveUnion[U](variants...)
	if err != nil {
		return err
	}
	Install(Default, n)
	return nil
}

// Of returns the short name of v. It prefers v's own AsShortName method,
// then a name registered in Default, and finally splits the name of v's
// dynamic type. Of(nil) returns "".
func Of(v any) string {
	if v == nil {
		return ""
	}
	if sn, ok := v.(ShortName); ok {
		return sn.AsShortName()
	}
	if name, ok := Default.Of(v); ok {
		return name
	}
	return words.Split(fallbackName(reflect.TypeOf(v)))
}

// fallbackName is the declared name of t, dereferenced and without type
// arguments, or its type literal when t is unnamed.
func fallbackName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return t.String()
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
