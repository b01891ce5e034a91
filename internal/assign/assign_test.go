package assign

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/gen"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
)

func TestGraphOrder(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		deps  [][2]int
		order []int
		rest  []int
	}{
		{"empty", 0, nil, nil, nil},
		{"independent", 3, nil, []int{0, 1, 2}, nil},
		{"chain", 3, [][2]int{{0, 1}, {1, 2}}, []int{2, 1, 0}, nil},
		{"smallest ready first", 4, [][2]int{{0, 3}, {1, 3}}, []int{2, 3, 0, 1}, nil},
		{"cycle", 3, [][2]int{{0, 1}, {1, 0}, {2, 0}}, []int{}, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(tt.n)
			for _, d := range tt.deps {
				g.Depend(d[0], d[1])
			}

			order, rest, err := g.Order()
			if tt.rest != nil {
				require.ErrorIs(t, err, ErrCycle)
			} else {
				require.NoError(t, err)
			}

			if len(tt.order) == 0 {
				assert.Empty(t, order)
			} else {
				assert.Equal(t, tt.order, order)
			}

			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestGraphCycle(t *testing.T) {
	g := NewGraph(5)
	g.Depend(0, 1)
	g.Depend(1, 2)
	g.Depend(2, 1)
	g.Depend(4, 3)

	assert.Equal(t, []int{1, 2}, g.Cycle())

	acyclic := NewGraph(2)
	acyclic.Depend(0, 1)
	assert.Nil(t, acyclic.Cycle())
}

func TestGraphDependDeduplicates(t *testing.T) {
	g := NewGraph(2)
	g.Depend(0, 1)
	g.Depend(0, 1)

	assert.Equal(t, [][]int{{1}, nil}, g.deps)
}

func TestRuleValidate(t *testing.T) {
	a := selector.Field(nil, "A")
	b := selector.Field(nil, "B")

	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{"ok", Rule{Origins: []selector.TargetSelector{a}, Actions: []Action{{Kind: ActionSet, Dest: b}}}, ""},
		{"no actions", Rule{Origins: []selector.TargetSelector{a}}, "no destination"},
		{"nil destination", Rule{Actions: []Action{{Kind: ActionSet}}}, "destination must not be nil"},
		{"nil generator", Rule{Actions: []Action{{Kind: ActionGenerate, Dest: b}}}, "generator must not be nil"},
		{"nil supplier", Rule{Actions: []Action{{Kind: ActionSupply, Dest: b}}}, "function must not be nil"},
		{"copy without origin", Rule{Actions: []Action{{Kind: ActionCopy, Dest: b}}}, "exactly one origin"},
		{"nil origin", Rule{Origins: []selector.TargetSelector{nil}, Actions: []Action{{Kind: ActionSet, Dest: b}}}, "origin must not be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.want == "" {
				assert.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, fail.ErrUsage)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRuleSiteInErrors(t *testing.T) {
	r := Rule{Site: "abc_test.go:12"}
	assert.Contains(t, r.Validate().Error(), "(at abc_test.go:12)")
}

func TestRuleHolds(t *testing.T) {
	r := Rule{Condition: func(v []any) bool { return v[0] == "A" }}

	holds, err := r.Holds([]any{"A"})
	require.NoError(t, err)
	assert.True(t, holds)

	holds, err = r.Holds([]any{"B"})
	require.NoError(t, err)
	assert.False(t, holds)

	holds, err = (&Rule{}).Holds(nil)
	require.NoError(t, err)
	assert.True(t, holds)
	assert.True(t, (&Rule{}).IsUnconditional())
}

func TestRuleHolds_Panic(t *testing.T) {
	r := Rule{
		Condition: func(v []any) bool { return v[0].(int) > 0 },
		Site:      "abc_test.go:30",
	}

	holds, err := r.Holds([]any{"not a number"})
	assert.False(t, holds)
	require.ErrorIs(t, err, fail.ErrUsage)
	assert.Contains(t, err.Error(), "assignment condition panicked")
	assert.Contains(t, err.Error(), "(at abc_test.go:30)")
}

func TestRuleString(t *testing.T) {
	r := Rule{
		Origins: []selector.TargetSelector{selector.Field(nil, "A")},
		Actions: []Action{
			{Kind: ActionSet, Dest: selector.Field(nil, "B")},
			{Kind: ActionGenerate, Dest: selector.All(reflect.TypeFor[int]()), Spec: gen.Int()},
		},
	}

	assert.Equal(t, "given(field(A)).set(field(B)).generate(all(int))", r.String())
	assert.Equal(t, "unknown", ActionKind(9).String())
}
