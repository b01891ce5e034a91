package selector

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/internal/fail"
	"fixturegen/internal/testmodel"
	"fixturegen/node"
)

var (
	personType   = reflect.TypeFor[testmodel.Person]()
	customerType = reflect.TypeFor[testmodel.Customer]()
	accountType  = reflect.TypeFor[testmodel.Account]()
	stringType   = reflect.TypeFor[string]()
)

func isUUID(t reflect.Type) bool { return t == reflect.TypeFor[uuid.UUID]() }

func tree(t *testing.T, root reflect.Type, opts node.Options) *node.Tree {
	t.Helper()

	opts.Terminal = isUUID

	tr, err := node.NewBuilder(opts).Build(root)
	require.NoError(t, err)

	return tr
}

func find(t *testing.T, tr *node.Tree, path string) *node.Node {
	t.Helper()

	n := tr.Find(path)
	require.NotNil(t, n, path)

	return n
}

func process(t *testing.T, p *Processor, sel TargetSelector) []*Resolved {
	t.Helper()

	rs, err := p.Process(sel, APISet)
	require.NoError(t, err)

	return rs
}

// mapOf resolves the selectors against root and puts each with its index as
// value.
func mapOf(t *testing.T, root reflect.Type, sels ...TargetSelector) *Map[int] {
	t.Helper()

	p := NewProcessor(root, false)
	m := NewMap[int]()

	for i, sel := range sels {
		for _, r := range process(t, p, sel) {
			m.Put(r, i)
		}
	}

	return m
}

func TestWithRootType(t *testing.T) {
	tests := []struct {
		name string
		root reflect.Type
		sel  *Selector
		want Target
	}{
		{"field", personType, Field(nil, "Name"), FieldTarget{Decl: personType, Field: "Name"}},
		{"explicit decl", nil, Field(personType, "Age"), FieldTarget{Decl: personType, Field: "Age"}},
		{
			"promoted field", customerType, Field(nil, "ID"),
			FieldTarget{Decl: reflect.TypeFor[testmodel.Entity](), Field: "ID"},
		},
		{"getter", personType, Getter((*testmodel.Person).GetName), FieldTarget{Decl: personType, Field: "Name"}},
		{"getter of unexported field", personType, Getter((*testmodel.Person).Secret), FieldTarget{Decl: personType, Field: "secret"}},
		{"class", personType, All(stringType), ClassTarget{Type: stringType}},
		{"root", personType, Root(), RootTarget{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.sel.Err())

			got, err := tt.sel.Target().WithRootType(tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownFieldSuggestion(t *testing.T) {
	_, err := NewProcessor(personType, false).Process(Field(nil, "Adress").At("x_test.go:7"), APISet)
	require.Error(t, err)

	assert.True(t, errors.Is(err, fail.ErrUsage))
	assert.Contains(t, err.Error(), `has no field "Adress", did you mean "Address"?`)
	assert.Contains(t, err.Error(), "(at x_test.go:7)")
}

func TestUnknownSetterSuggestion(t *testing.T) {
	tests := []struct {
		name  string
		param reflect.Type
		hint  string
	}{
		{"SetOwnr", nil, `did you mean "SetOwner"?`},
		{"SetAlis", reflect.TypeFor[string](), `did you mean "SetAlias"?`},
		{"SetOwnr", reflect.TypeFor[[]int](), ""},
		{"Reset", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Selector{target: SetterNameTarget{Name: tt.name, Param: tt.param}}

			_, err := NewProcessor(accountType, true).Process(s, APISet)
			require.ErrorIs(t, err, fail.ErrUsage)
			assert.Contains(t, err.Error(), "has no setter")

			if tt.hint == "" {
				assert.NotContains(t, err.Error(), "did you mean")
			} else {
				assert.Contains(t, err.Error(), tt.hint)
			}
		})
	}
}

func TestMethodReferences(t *testing.T) {
	t.Run("closure", func(t *testing.T) {
		s := Getter(func(p *testmodel.Person) string { return p.Name })
		assert.ErrorIs(t, s.Err(), fail.ErrUsage)
	})

	t.Run("not a function", func(t *testing.T) {
		assert.Error(t, Getter("Name").Err())
	})

	t.Run("wrong setter shape", func(t *testing.T) {
		assert.Error(t, Setter((*testmodel.Person).SetAge).Err())
	})

	t.Run("setter needs method mode", func(t *testing.T) {
		_, err := NewProcessor(personType, false).Process(Setter((*testmodel.Person).SetName), APISet)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires method assignment mode")
	})

	t.Run("setter in method mode", func(t *testing.T) {
		rs := process(t, NewProcessor(personType, true), Setter((*testmodel.Person).SetName))
		require.Len(t, rs, 1)
		assert.Equal(t, SetterTarget{Decl: personType, Method: "SetName"}, rs[0].Target)

		tr := tree(t, personType, node.Options{MethodMode: true})
		assert.True(t, rs[0].Matches(find(t, tr, "Person.Name")))
		assert.False(t, rs[0].Matches(find(t, tr, "Person.Email")))
	})

	t.Run("unmatched setter", func(t *testing.T) {
		rs := process(t, NewProcessor(accountType, true), SetterNamed(nil, "SetAlias"))

		tr := tree(t, accountType, node.Options{MethodMode: true, InvokeUnmatchedSetters: true})
		assert.True(t, rs[0].Matches(find(t, tr, "Account.SetAlias")))
	})

	t.Run("setter parameter mismatch", func(t *testing.T) {
		s := &Selector{target: SetterNameTarget{Name: "SetName", Param: reflect.TypeFor[int]()}}

		_, err := NewProcessor(personType, true).Process(s, APISet)
		assert.Error(t, err)
	})
}

func TestParsePath(t *testing.T) {
	segments, err := ParsePath("Items[].SKU")
	require.NoError(t, err)
	assert.Equal(t, []PathSegment{{Name: "Items", IsSlice: true}, {Name: "SKU"}}, segments)

	for _, bad := range []string{"", "a..b", "[]", "1a", "a.b-c"} {
		_, err := ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestPath(t *testing.T) {
	tr := tree(t, personType, node.Options{})

	t.Run("through a slice", func(t *testing.T) {
		rs := process(t, NewProcessor(personType, false), Path(personType, "Phones[].Number"))

		assert.True(t, rs[0].Matches(find(t, tr, "Person.Phones[].Number")))
		assert.False(t, rs[0].Matches(find(t, tr, "Person.Phones[].CountryCode")))
	})

	t.Run("through a pointer", func(t *testing.T) {
		rs := process(t, NewProcessor(personType, false), Path(personType, "Address.Street"))

		assert.True(t, rs[0].Matches(find(t, tr, "Person.Address.Street")))
	})

	t.Run("slice without brackets", func(t *testing.T) {
		err := Path(personType, "Phones.Number").Err()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write Phones[]")
	})

	t.Run("ends with a slice", func(t *testing.T) {
		assert.Error(t, Path(personType, "Phones[]").Err())
	})
}

func TestProcess(t *testing.T) {
	p := NewProcessor(personType, false)

	t.Run("group", func(t *testing.T) {
		rs := process(t, p, Group{All(stringType), Field(nil, "Name")})
		require.Len(t, rs, 2)
		assert.Less(t, rs[0].ID, rs[1].ID)
	})

	t.Run("empty group", func(t *testing.T) {
		_, err := p.Process(Group{}, APIIgnore)
		assert.ErrorContains(t, err, "Ignore: empty selector group")
	})

	t.Run("nil", func(t *testing.T) {
		_, err := p.Process(nil, APIGenerate)
		assert.ErrorIs(t, err, fail.ErrUsage)
	})

	t.Run("dual", func(t *testing.T) {
		addr := reflect.TypeFor[testmodel.Address]()

		rs := process(t, p, NewDual(addr))
		require.Len(t, rs, 2)
		assert.Equal(t, ClassTarget{Type: addr}, rs[0].Target)
		assert.Equal(t, ClassTarget{Type: reflect.PointerTo(addr)}, rs[1].Target)

		rs[1].MarkUsed()
		assert.True(t, rs[0].Used())
	})

	t.Run("predicate builder", func(t *testing.T) {
		rs := process(t, p, Fields().Named("Name"))
		require.Len(t, rs, 1)
		assert.True(t, rs[0].IsPredicate())
		assert.Equal(t, PriorityField, rs[0].Priority())
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := p.Process(Fields().Matching("("), APISet)
		assert.ErrorIs(t, err, fail.ErrUsage)
	})

	t.Run("setter scope", func(t *testing.T) {
		s := All(stringType).Within(SetterNamed(nil, "SetName").ToScope())

		_, err := NewProcessor(personType, true).Process(s, APISet)
		assert.ErrorContains(t, err, "cannot be used as a scope")
	})
}

func TestMapPriority(t *testing.T) {
	tr := tree(t, personType, node.Options{})
	name := find(t, tr, "Person.Name")
	email := find(t, tr, "Person.Email")
	age := find(t, tr, "Person.Age")

	t.Run("field beats type", func(t *testing.T) {
		m := mapOf(t, personType, Field(nil, "Name"), All(stringType))

		v, ok := m.Get(name)
		require.True(t, ok)
		assert.Equal(t, 0, v)

		v, _ = m.Get(email)
		assert.Equal(t, 1, v)
	})

	t.Run("last declared wins", func(t *testing.T) {
		m := mapOf(t, personType, All(stringType), All(stringType))

		v, _ := m.Get(name)
		assert.Equal(t, 1, v)
	})

	t.Run("regular beats predicate", func(t *testing.T) {
		m := mapOf(t, personType, All(reflect.TypeFor[int]()), Fields())

		v, _ := m.Get(age)
		assert.Equal(t, 0, v)

		v, _ = m.Get(name)
		assert.Equal(t, 1, v)
	})

	t.Run("field predicate beats type predicate", func(t *testing.T) {
		m := mapOf(t, personType, Fields().Named("Name"), Types().Of(stringType))

		v, _ := m.Get(name)
		assert.Equal(t, 0, v)

		v, _ = m.Get(email)
		assert.Equal(t, 1, v)
	})

	t.Run("no match", func(t *testing.T) {
		m := mapOf(t, personType, Field(nil, "Name"))

		_, ok := m.Get(age)
		assert.False(t, ok)
	})

	t.Run("get all", func(t *testing.T) {
		m := mapOf(t, personType, Types().Kind(reflect.String), Field(nil, "Name"), All(stringType))

		assert.Equal(t, []int{2, 1, 0}, m.GetAll(name))
	})
}

func TestMapScopesAndDepth(t *testing.T) {
	tr := tree(t, personType, node.Options{})
	name := find(t, tr, "Person.Name")
	street := find(t, tr, "Person.Address.Street")
	number := find(t, tr, "Person.Phones[].Number")

	t.Run("field scope", func(t *testing.T) {
		m := mapOf(t, personType, All(stringType).Within(Field(nil, "Address").ToScope()))

		_, ok := m.Get(street)
		assert.True(t, ok)

		_, ok = m.Get(name)
		assert.False(t, ok)
	})

	t.Run("type scope at depth", func(t *testing.T) {
		addr := All(reflect.TypeFor[testmodel.Address]())

		m := mapOf(t, personType, All(stringType).Within(Scope{Target: addr.Target(), Depth: AtDepth(2)}))
		_, ok := m.Get(street)
		assert.True(t, ok)

		m = mapOf(t, personType, All(stringType).Within(Scope{Target: addr.Target(), Depth: AtDepth(1)}))
		_, ok = m.Get(street)
		assert.True(t, ok, "an ancestor deeper than the scope depth still opens the scope")

		m = mapOf(t, personType, All(stringType).Within(Scope{Target: addr.Target(), Depth: AtDepth(3)}))
		_, ok = m.Get(street)
		assert.False(t, ok)

		m = mapOf(t, personType, All(stringType).Within(Scope{
			Target: addr.Target(),
			Depth:  AtDepthFunc(func(d int) bool { return d == 1 }),
		}))
		_, ok = m.Get(street)
		assert.False(t, ok)
	})

	t.Run("nested scopes", func(t *testing.T) {
		phone := reflect.TypeFor[testmodel.Phone]()
		sel := All(stringType).Within(Field(nil, "Phones").ToScope(), All(phone).ToScope())

		m := mapOf(t, personType, sel)
		_, ok := m.Get(number)
		assert.True(t, ok)

		// scopes listed in the wrong order do not match
		reversed := All(stringType).Within(All(phone).ToScope(), Field(nil, "Phones").ToScope())

		m = mapOf(t, personType, reversed)
		_, ok = m.Get(number)
		assert.False(t, ok)
	})

	t.Run("depth", func(t *testing.T) {
		m := mapOf(t, personType, All(stringType).AtDepth(1))

		_, ok := m.Get(name)
		assert.True(t, ok)

		_, ok = m.Get(street)
		assert.False(t, ok)

		m = mapOf(t, personType, All(stringType).AtDepthFunc(func(d int) bool { return d > 1 }))

		_, ok = m.Get(name)
		assert.False(t, ok)

		_, ok = m.Get(street)
		assert.True(t, ok)
	})
}

func TestMapUnused(t *testing.T) {
	tr := tree(t, personType, node.Options{})

	m := mapOf(t, personType,
		Field(nil, "Name"),
		Field(nil, "Email"),
		Field(nil, "Age").Lenient(),
		Types().Of(reflect.TypeFor[float64]()),
	)

	_, _ = m.Get(find(t, tr, "Person.Name"))

	// Selector does not mark usage
	_, ok := m.Selector(find(t, tr, "Person.Email"))
	require.True(t, ok)

	var unused []string
	for _, r := range m.Unused() {
		unused = append(unused, r.String())
	}

	assert.Equal(t, []string{"field(Person.Email)", "types().of(float64)"}, unused)
	assert.Len(t, m.Selectors(), 4)
	assert.True(t, m.Matched(m.Selectors()[0]))
}

func TestPredicates(t *testing.T) {
	tr := tree(t, customerType, node.Options{})
	email := find(t, tr, "Customer.Email")
	code := find(t, tr, "Customer.Code")
	id := find(t, tr, "Customer.Entity.ID")

	tests := []struct {
		name string
		sel  PredicateBuilder
		n    *node.Node
		want bool
	}{
		{"annotated", Fields().Annotated("validate", "email"), email, true},
		{"annotated other", Fields().Annotated("validate", "email"), code, false},
		{"with tag", Fields().WithTag("validate"), code, true},
		{"matching", Fields().Matching("^E"), email, true},
		{"declared in", Fields().DeclaredIn(reflect.TypeFor[testmodel.Entity]()), id, true},
		{"declared in other", Fields().DeclaredIn(customerType), id, false},
		{"of type", Fields().OfType(reflect.TypeFor[int64]()), id, true},
		{"kind", Types().Kind(reflect.String), email, true},
		{"excluding", Types().Kind(reflect.String).Excluding(stringType), email, false},
		{"in package", Types().InPackage("fixturegen/internal/testmodel"), find(t, tr, "Customer.Entity"), true},
		{"predicate", FieldPredicate(func(f reflect.StructField) bool { return f.Name == "Code" }), code, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Build().Match(tt.n))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "field(Name).atDepth(1).lenient()", Field(nil, "Name").AtDepth(1).Lenient().String())
	assert.Equal(t, "all(string, *string)", NewDual(stringType).String())
	assert.Equal(t, "fields().named(Name).matching(^N)", Fields().Named("Name").Matching("^N").String())
	assert.Equal(t, "root()", Root().String())
	assert.Equal(t,
		"all(string).within(scope(field(Address), atDepth(1)))",
		All(stringType).Within(Field(nil, "Address").AtDepth(1).ToScope()).String())
}

func TestSelectorsAreImmutable(t *testing.T) {
	base := All(stringType)
	_ = base.AtDepth(3).Lenient()

	assert.False(t, base.Depth().IsSet())
	assert.False(t, base.IsLenient())
}

func TestCallerSite(t *testing.T) {
	site := CallerSite(0)
	assert.True(t, strings.HasPrefix(site, "selector_test.go:"), site)
}
