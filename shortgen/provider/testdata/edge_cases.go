package testdata

//shortname:derive
type Command interface {
	isCommand()
}

type StartCommand struct {
	Args []string
}

type StopCommand int

type RetryCommand[T any] struct {
	Attempt T
}

type QueueCommand[T any] []T

//shortname:ignore
type commandMock struct{}

func (*StartCommand) isCommand()    {}
func (StopCommand) isCommand()      {}
func (RetryCommand[T]) isCommand()  {}
func (*QueueCommand[T]) isCommand() {}
func (commandMock) isCommand()      {}

// Printable requires the generated method itself.
//
//shortname:derive
type Printable interface {
	AsShortName() string
	isPrintable()
}

type PlainText struct {
	Body string
}

func (PlainText) isPrintable() {}

//shortname:derive
type RawRegister [8]byte

//shortname:derive kind=overlap
type Number struct {
	bits uint64
}

//shortname:derive
type Celsius float64

//shortname:derive
type HTTPServer struct{}

//shortname:derive
type Box[T any] struct {
	Value T
}

//shortname:derive
type Custom struct{}

func (Custom) AsShortName() string { return "custom" }

// NotDerived has no directive and is only extracted when named explicitly.
type NotDerived struct{}
