package shortname

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/shortname/shortgen/ir"
	"github.com/broady/shortname/shortgen/namegen"
)

type VariantImitation struct {
	Field1 string
	Field2 uint8
	Field3 bool
}

type NoFieldsStruct struct{}

type UnnamedFieldsStruct struct{ VariantImitation }

type NamedFieldsStruct struct {
	Field VariantImitation
}

type RawRegisterValue [4]byte

type Celsius float64

type Box[T any] struct{ V T }

type UnnamedVariantsEnum interface{ isUnnamedVariantsEnum() }

type UnnamedVariant1 struct{ VariantImitation }

type AnotherOneUnnamedVariant struct{ VariantImitation }

type TheLastOneUnnamedVariant struct{ VariantImitation }

func (UnnamedVariant1) isUnnamedVariantsEnum()          {}
func (AnotherOneUnnamedVariant) isUnnamedVariantsEnum() {}
func (TheLastOneUnnamedVariant) isUnnamedVariantsEnum() {}

type NamedVariantsEnum interface{ isNamedVariantsEnum() }

type NamedVariant1 struct{ Field VariantImitation }

type AnotherOneNamedVariant struct{ Field1, Field2 VariantImitation }

type TheLastOneNamedVariant struct{ Field1, Field2, Field3 VariantImitation }

func (NamedVariant1) isNamedVariantsEnum()          {}
func (AnotherOneNamedVariant) isNamedVariantsEnum() {}
func (TheLastOneNamedVariant) isNamedVariantsEnum() {}

type UnitsEnum interface{ isUnitsEnum() }

type VariantUnit1 struct{}

type AnotherOneVariantUnit struct{}

type TheLastOneVariantUnit struct{}

func (VariantUnit1) isUnitsEnum()          {}
func (AnotherOneVariantUnit) isUnitsEnum() {}
func (TheLastOneVariantUnit) isUnitsEnum() {}

type MixedEnum interface{ isMixedEnum() }

func (UnnamedVariant1) isMixedEnum()        {}
func (AnotherOneNamedVariant) isMixedEnum() {}
func (TheLastOneVariantUnit) isMixedEnum()  {}

type Shape interface{ isShape() }

// Rect implements Shape through its pointer only.
type Rect struct{ W, H int }

type Dot struct{}

func (*Rect) isShape() {}
func (Dot) isShape()   {}

// Labeled carries its own short name.
type Labeled struct{}

func (Labeled) AsShortName() string { return "custom label" }

func TestDerive_Records(t *testing.T) {
	assert.Equal(t, "No Fields Struct", MustDerive[NoFieldsStruct]().AsShortName(NoFieldsStruct{}))
	assert.Equal(t, "Unnamed Fields Struct", MustDerive[UnnamedFieldsStruct]().AsShortName(UnnamedFieldsStruct{}))
	assert.Equal(t, "Named Fields Struct", MustDerive[NamedFieldsStruct]().AsShortName(NamedFieldsStruct{Field: VariantImitation{Field1: "x"}}))
	assert.Equal(t, "Celsius", MustDerive[Celsius]().AsShortName(36.6))
	assert.Equal(t, "Box", MustDerive[Box[string]]().AsShortName(Box[string]{V: "x"}))
	assert.Equal(t, "No Fields Struct", MustDerive[*NoFieldsStruct]().AsShortName(nil))
}

func TestDerive_OverlapUnion(t *testing.T) {
	n := MustDerive[RawRegisterValue]()
	assert.Equal(t, ir.KindOverlapUnion, n.Capability().Kind())
	assert.Equal(t, "Raw Register Value", n.AsShortName(RawRegisterValue{1, 2, 3, 4}))
	assert.Equal(t, "Raw Register Value", n.AsShortName(RawRegisterValue{}))
}

func TestDerive_RejectsInterfaces(t *testing.T) {
	_, err := Derive[MixedEnum]()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeriveUnion")

	_, err = Derive[struct{ A int }]()
	assert.Error(t, err)
}

func TestDeriveUnion(t *testing.T) {
	tests := []struct {
		name   string
		namer  func() []string
		labels []string
	}{
		{
			name: "unnamed variants",
			namer: func() []string {
				n := MustDeriveUnion[UnnamedVariantsEnum](UnnamedVariant1{}, AnotherOneUnnamedVariant{}, TheLastOneUnnamedVariant{})
				return []string{
					n.AsShortName(UnnamedVariant1{VariantImitation{"a", 1, true}}),
					n.AsShortName(AnotherOneUnnamedVariant{}),
					n.AsShortName(TheLastOneUnnamedVariant{}),
				}
			},
			labels: []string{"Unnamed Variant1", "Another One Unnamed Variant", "The Last One Unnamed Variant"},
		},
		{
			name: "named variants",
			namer: func() []string {
				n := MustDeriveUnion[NamedVariantsEnum](NamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneNamedVariant{})
				return []string{
					n.AsShortName(NamedVariant1{}),
					n.AsShortName(AnotherOneNamedVariant{}),
					n.AsShortName(TheLastOneNamedVariant{}),
				}
			},
			labels: []string{"Named Variant1", "Another One Named Variant", "The Last One Named Variant"},
		},
		{
			name: "unit variants",
			namer: func() []string {
				n := MustDeriveUnion[UnitsEnum](VariantUnit1{}, AnotherOneVariantUnit{}, TheLastOneVariantUnit{})
				return []string{
					n.AsShortName(VariantUnit1{}),
					n.AsShortName(AnotherOneVariantUnit{}),
					n.AsShortName(TheLastOneVariantUnit{}),
				}
			},
			labels: []string{"Variant Unit1", "Another One Variant Unit", "The Last One Variant Unit"},
		},
		{
			name: "mixed variants",
			namer: func() []string {
				n := MustDeriveUnion[MixedEnum](UnnamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneVariantUnit{})
				return []string{
					n.AsShortName(UnnamedVariant1{}),
					n.AsShortName(&AnotherOneNamedVariant{}),
					n.AsShortName(TheLastOneVariantUnit{}),
				}
			},
			labels: []string{"Unnamed Variant1", "Another One Named Variant", "The Last One Variant Unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.labels, tt.namer())
		})
	}
}

func TestDeriveUnion_PointerVariant(t *testing.T) {
	n := MustDeriveUnion[Shape](&Rect{}, Dot{})

	cases := n.Capability().Cases()
	require.Len(t, cases, 2)
	assert.True(t, cases[0].Pointer)
	assert.False(t, cases[1].Pointer)

	assert.Equal(t, "Rect", n.AsShortName(&Rect{W: 1}))
	assert.Equal(t, "Dot", n.AsShortName(Dot{}))
	assert.Equal(t, "Dot", n.AsShortName(&Dot{}))
}

func TestDeriveUnion_Errors(t *testing.T) {
	_, err := DeriveUnion[MixedEnum]()
	assert.ErrorIs(t, err, namegen.ErrMalformedDescriptor, "a union needs variants")

	_, err = DeriveUnion[MixedEnum](UnnamedVariant1{}, &UnnamedVariant1{})
	assert.ErrorIs(t, err, namegen.ErrMalformedDescriptor, "T and *T are the same variant")

	_, err = DeriveUnion[MixedEnum](UnnamedVariant1{}, nil)
	assert.ErrorContains(t, err, "nil")

	_, err = DeriveUnion[NoFieldsStruct](NoFieldsStruct{})
	assert.ErrorContains(t, err, "not an interface")

	assert.Panics(t, func() { MustDeriveUnion[UnitsEnum]() })
	assert.Panics(t, func() { MustDerive[UnitsEnum]() })
}

func TestNamer_UnknownVariant(t *testing.T) {
	n := MustDeriveUnion[UnitsEnum](VariantUnit1{}, AnotherOneVariantUnit{})

	assert.PanicsWithValue(t, "shortname: unhandled UnitsEnum variant shortname.TheLastOneVariantUnit", func() {
		n.AsShortName(TheLastOneVariantUnit{})
	})
	assert.Panics(t, func() { n.AsShortName(nil) })

	_, ok := n.Lookup(TheLastOneVariantUnit{})
	assert.False(t, ok)
	name, ok := n.Lookup(AnotherOneVariantUnit{})
	assert.True(t, ok)
	assert.Equal(t, "Another One Variant Unit", name)

	label, ok := MustDerive[Celsius]().Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "Celsius", label)
}

func TestNamer_Concurrent(t *testing.T) {
	n := MustDeriveUnion[MixedEnum](UnnamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneVariantUnit{})
	values := []MixedEnum{UnnamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneVariantUnit{}}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 300; i++ {
				if n.AsShortName(values[i%3]) == "" {
					t.Error("empty short name")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestOf(t *testing.T) {
	Default.Reset()
	t.Cleanup(Default.Reset)

	require.NoError(t, Register[Celsius]())
	require.NoError(t, RegisterUnion[Shape](&Rect{}, Dot{}))

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"own method", Labeled{}, "custom label"},
		{"own method via pointer", &Labeled{}, "custom label"},
		{"registered record", Celsius(3), "Celsius"},
		{"registered record pointer", new(Celsius), "Celsius"},
		{"registered variant", &Rect{}, "Rect"},
		{"registered value variant", Dot{}, "Dot"},
		{"fallback", NamedFieldsStruct{}, "Named Fields Struct"},
		{"fallback pointer", &AnotherOneVariantUnit{}, "Another One Variant Unit"},
		{"fallback generic", Box[int]{}, "Box"},
		{"fallback unnamed", []int{1}, "[]int"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.v))
		})
	}
}

func TestRegister_Errors(t *testing.T) {
	assert.Error(t, Register[Shape]())
	assert.Error(t, RegisterUnion[Shape]())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Of(Dot{})
	assert.False(t, ok)
	_, ok = r.Of(nil)
	assert.False(t, ok)

	Install(r, MustDeriveUnion[Shape](&Rect{}, Dot{}))
	Install(r, MustDerive[NoFieldsStruct]())
	assert.Equal(t, 6, r.Len())

	// Installing again is harmless.
	Install(r, MustDerive[NoFieldsStruct]())
	assert.Equal(t, 6, r.Len())

	name, ok := r.Of(&NoFieldsStruct{})
	assert.True(t, ok)
	assert.Equal(t, "No Fields Struct", name)

	r.Reset()
	assert.Zero(t, r.Len())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	namer := MustDeriveUnion[UnitsEnum](VariantUnit1{}, AnotherOneVariantUnit{}, TheLastOneVariantUnit{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Install(r, namer)
		}()
		go func() {
			defer wg.Done()
			if name, ok := r.Of(VariantUnit1{}); ok && name != "Variant Unit1" {
				t.Errorf("Of = %q", name)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 6, r.Len())
}

func TestGeneratedAndRuntimeAgree(t *testing.T) {
	// The capability behind a Namer is the one the generator renders.
	n := MustDeriveUnion[MixedEnum](UnnamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneVariantUnit{})

	d := &ir.TypeDescriptor{
		Kind: ir.KindTaggedUnion,
		Name: ir.GoIdentifier{Name: "MixedEnum", Package: "github.com/broady/shortname"},
		Variants: []ir.VariantDescriptor{
			{Name: "UnnamedVariant1", Shape: ir.ShapeTuple},
			{Name: "AnotherOneNamedVariant", Shape: ir.ShapeNamed},
			{Name: "TheLastOneVariantUnit", Shape: ir.ShapeUnit},
		},
	}
	c, err := namegen.Generate(d)
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), n.Capability().Fingerprint())
}

func ExampleDeriveUnion() {
	names := MustDeriveUnion[MixedEnum](UnnamedVariant1{}, AnotherOneNamedVariant{}, TheLastOneVariantUnit{})

	for _, v := range []MixedEnum{TheLastOneVariantUnit{}, UnnamedVariant1{}} {
		fmt.Println(names.AsShortName(v))
	}
	// Output:
	// The Last One Variant Unit
	// Unnamed Variant1
}

func ExampleOf() {
	fmt.Println(Of(NamedFieldsStruct{}))
	fmt.Println(Of(Labeled{}))
	// Output:
	// Named Fields Struct
	// custom label
}
