// Package testdata holds declarations the provider tests load.
package testdata

// VariantImitation stands in for an arbitrary payload.
type VariantImitation struct {
	Field1 string
	Field2 uint8
	Field3 bool
}

//shortname:derive
type NoFieldsStruct struct{}

//shortname:derive
type UnnamedFieldsStruct struct{ string }

// NamedFieldsStruct has one named field.
//
//shortname:derive
type NamedFieldsStruct struct {
	field string
}

//shortname:derive
type UnnamedVariantsEnum interface {
	isUnnamedVariantsEnum()
}

type UnnamedVariant1 struct{ VariantImitation }

type AnotherOneUnnamedVariant struct{ VariantImitation }

type TheLastOneUnnamedVariant struct{ VariantImitation }

func (UnnamedVariant1) isUnnamedVariantsEnum()          {}
func (AnotherOneUnnamedVariant) isUnnamedVariantsEnum() {}
func (TheLastOneUnnamedVariant) isUnnamedVariantsEnum() {}

//shortname:derive
type NamedVariantsEnum interface {
	isNamedVariantsEnum()
}

type NamedVariant1 struct {
	Field VariantImitation
}

type AnotherOneNamedVariant struct {
	Field1 VariantImitation
	Field2 VariantImitation
}

type TheLastOneNamedVariant struct {
	Field1 VariantImitation
	Field2 VariantImitation
	Field3 VariantImitation
}

func (NamedVariant1) isNamedVariantsEnum()          {}
func (AnotherOneNamedVariant) isNamedVariantsEnum() {}
func (TheLastOneNamedVariant) isNamedVariantsEnum() {}

//shortname:derive
type UnitsEnum interface {
	isUnitsEnum()
}

type VariantUnit1 struct{}

type AnotherOneVariantUnit struct{}

type TheLastOneVariantUnit struct{}

func (VariantUnit1) isUnitsEnum()          {}
func (AnotherOneVariantUnit) isUnitsEnum() {}
func (TheLastOneVariantUnit) isUnitsEnum() {}

// MixedEnum shares its variants with the other unions.
//
//shortname:derive
type MixedEnum interface {
	isMixedEnum()
}

func (UnnamedVariant1) isMixedEnum()        {}
func (AnotherOneNamedVariant) isMixedEnum() {}
func (TheLastOneVariantUnit) isMixedEnum()  {}
