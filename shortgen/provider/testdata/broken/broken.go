// Package broken holds declarations that cannot yield a valid capability.
package broken

//shortname:derive
type Lonely interface {
	isLonely()
}

//shortname:derive
type Open interface {
	Describe() string
}

type Described struct{}

func (Described) Describe() string { return "described" }
