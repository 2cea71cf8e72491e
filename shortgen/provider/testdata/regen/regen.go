// Package regen has a generated file that no longer matches its declarations.
package regen

//shortname:derive
type Gauge struct{}

//shortname:derive
type Signal interface {
	isSignal()
}

type Rising struct{}

func (Rising) isSignal() {}

// Describe calls generated code.
func Describe(s Signal) string {
	return SignalShortName(s) + " " + Gauge{}.AsShortName()
}
