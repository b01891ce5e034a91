package generator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/generator/hints"
	"fixturegen/random"
	"fixturegen/settings"
)

type recordingSpec struct {
	calls  []string
	target reflect.Type
	err    error
}

func (s *recordingSpec) Init(*Context) {
	s.calls = append(s.calls, "init")
}

func (s *recordingSpec) ForType(t reflect.Type) {
	s.calls = append(s.calls, "target")
	s.target = t
}

func (s *recordingSpec) Validate() error {
	s.calls = append(s.calls, "validate")

	return s.err
}

func (s *recordingSpec) Capabilities() Capability { return CapabilityLength | CapabilityText }

func (s *recordingSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *recordingSpec) Generate(*random.Random) (any, error) { return "x", nil }

func TestPrepare(t *testing.T) {
	spec := &recordingSpec{}
	ctx := NewContext(settings.New(), random.New(1))

	require.NoError(t, Prepare(spec, ctx, reflect.TypeFor[string]()))
	assert.Equal(t, []string{"init", "target", "validate"}, spec.calls)
	assert.Equal(t, reflect.TypeFor[string](), spec.target)

	spec = &recordingSpec{err: errors.New("inverted")}
	require.EqualError(t, Prepare(spec, ctx, nil), "inverted")
	assert.Equal(t, []string{"init", "validate"}, spec.calls)
}

func TestCapabilities(t *testing.T) {
	spec := &recordingSpec{}

	assert.True(t, Supports(spec, CapabilityLength))
	assert.True(t, Supports(spec, CapabilityLength|CapabilityText))
	assert.False(t, Supports(spec, CapabilitySize))
	assert.False(t, Supports(spec, CapabilityNone))
	assert.False(t, Supports(Func{}, CapabilityLength))

	assert.Equal(t, "length|text", spec.Capabilities().String())
	assert.Equal(t, "none", Capability(CapabilityNone).String())
	assert.Equal(t, "length|size|numeric|temporal|text", Capability(CapabilityAll).String())
}

func TestFunc(t *testing.T) {
	g := Func{
		Fn:     func(r *random.Random) (any, error) { return r.Intn(10), nil },
		Policy: hints.DoNotModify,
	}

	v, err := g.Generate(random.New(7))
	require.NoError(t, err)
	assert.IsType(t, 0, v)
	assert.Equal(t, hints.DoNotModify, g.Hints().AfterGenerate)
}
