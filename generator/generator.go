// Package generator defines the contract between the engine and anything that
// produces values for a node.
package generator

import (
	"reflect"

	"fixturegen/generator/hints"
	"fixturegen/random"
	"fixturegen/settings"
)

// Generator produces a value for a node. Hints describe how the engine may
// treat the returned value and, for containers, how many elements to add.
// Hints is read after Generate and reflects the most recent call.
type Generator interface {
	Generate(r *random.Random) (any, error)
	Hints() hints.Hints
}

// Context is handed to generators and tag consumers before generation starts.
type Context struct {
	Settings *settings.Settings
	Random   *random.Random
}

// NewContext returns a context over locked settings.
func NewContext(s *settings.Settings, r *random.Random) *Context {
	return &Context{Settings: s, Random: r}
}

// Initializer is implemented by generators that read their defaults from
// settings. Init is called before the first Generate of a creation call.
type Initializer interface {
	Init(ctx *Context)
}

// Targeted is implemented by generators adapting their output to the type of
// the node, e.g. integer specs clamping to the range of int8.
type Targeted interface {
	ForType(t reflect.Type)
}

// Validator is implemented by generators that can detect invalid
// configuration before generation, such as an inverted range.
type Validator interface {
	Validate() error
}

// Spec is a configurable built-in generator.
type Spec interface {
	Generator
	Capabilities() Capability
}

// Prepare initializes, targets and validates g, in that order.
func Prepare(g Generator, ctx *Context, target reflect.Type) error {
	if i, ok := g.(Initializer); ok {
		i.Init(ctx)
	}

	if t, ok := g.(Targeted); ok && target != nil {
		t.ForType(target)
	}

	if v, ok := g.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// Func adapts a function to Generator with the given policy.
type Func struct {
	Fn     func(r *random.Random) (any, error)
	Policy hints.AfterGenerate
}

func (f Func) Generate(r *random.Random) (any, error) { return f.Fn(r) }

func (f Func) Hints() hints.Hints { return hints.Of(f.Policy) }
