package typemap

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/internal/testmodel"
)

const testmodelPkg = "fixturegen/internal/testmodel"

func TestNew_NonGeneric(t *testing.T) {
	m := New(reflect.TypeFor[testmodel.Person](), TypeMap{}, nil)

	assert.True(t, m.IsEmpty())
	assert.Equal(t, "", m.String())
}

func TestNew_PositionalNames(t *testing.T) {
	m := New(reflect.TypeFor[testmodel.Box[int]](), TypeMap{}, nil)

	require.Equal(t, 1, m.Len())

	b, ok := m.Lookup("T0")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[int](), b.Type)
	assert.Equal(t, "Box[T0=int]", m.String())
}

func TestNew_DeclaredNames(t *testing.T) {
	names := ParamNames{testmodelPkg + ".Pair": {"K", "V"}}

	m := New(reflect.TypeFor[testmodel.Pair[string, testmodel.Item]](), TypeMap{}, names)

	require.Equal(t, 2, m.Len())

	k, ok := m.Lookup("K")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), k.Type)

	v, ok := m.Lookup("V")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[testmodel.Item](), v.Type)

	assert.Equal(t, "Pair[K=string, V=testmodel.Item]", m.String())
	assert.Empty(t, m.Unresolved())
}

func TestNew_CompositeArguments(t *testing.T) {
	m := New(reflect.TypeFor[testmodel.Box[map[string][]*int]](), TypeMap{}, nil)

	b, ok := m.Lookup("T0")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[map[string][]*int](), b.Type)
}

func TestNew_UnreachableArgumentStaysSymbolic(t *testing.T) {
	m := New(reflect.TypeFor[testmodel.Phantom[time.Time]](), TypeMap{}, nil)

	b, ok := m.Lookup("T0")
	require.True(t, ok)
	assert.False(t, b.IsResolved())
	assert.Equal(t, "time.Time", b.Var)
	assert.Len(t, m.Unresolved(), 1)
}

func TestNew_InheritsParentBinding(t *testing.T) {
	parent := TypeMap{
		vars: []TypeVar{{Owner: "x.Outer", Name: "T0"}},
		bindings: map[TypeVar]Binding{
			{Owner: "x.Outer", Name: "T0"}: {Type: reflect.TypeFor[time.Time](), Expr: "time.Time"},
		},
	}

	m := New(reflect.TypeFor[testmodel.Phantom[time.Time]](), parent, nil)

	b, ok := m.Lookup("T0")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[time.Time](), b.Type)
}

func TestNew_EmbeddedGeneric(t *testing.T) {
	m := New(reflect.TypeFor[testmodel.Labeled](), TypeMap{}, nil)

	require.Equal(t, 1, m.Len())

	v := m.Vars()[0]
	assert.Equal(t, testmodelPkg+".Box", v.Owner)

	b, _ := m.Get(v)
	assert.Equal(t, reflect.TypeFor[testmodel.Item](), b.Type)
}

func TestEqual(t *testing.T) {
	a := New(reflect.TypeFor[testmodel.Box[int]](), TypeMap{}, nil)
	b := New(reflect.TypeFor[testmodel.Box[int]](), TypeMap{}, nil)
	c := New(reflect.TypeFor[testmodel.Box[string]](), TypeMap{}, nil)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, TypeMap{}.Equal(New(reflect.TypeFor[int](), TypeMap{}, nil)))
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"int", []string{"int"}},
		{"string,int", []string{"string", "int"}},
		{"map[string]int, []x.Pair[a,b]", []string{"map[string]int", "[]x.Pair[a,b]"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitArgs(tt.in), tt.in)
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "int", QualifiedName(reflect.TypeFor[int]()))
	assert.Equal(t, "[]*"+testmodelPkg+".Item", QualifiedName(reflect.TypeFor[[]*testmodel.Item]()))
	assert.Equal(t, "map[string]time.Time", QualifiedName(reflect.TypeFor[map[string]time.Time]()))
}

func TestLoadParamNames(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages from source")
	}

	names, err := LoadParamNames("fixturegen/internal/testmodel")
	require.NoError(t, err)

	assert.Equal(t, []string{"T"}, names[testmodelPkg+".Box"])
	assert.Equal(t, []string{"K", "V"}, names[testmodelPkg+".Pair"])
	assert.NotContains(t, names, testmodelPkg+".Person")
}
