package fixturegen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/gen"
	"fixturegen/internal/ctxlog"
	"fixturegen/internal/testmodel"
	"fixturegen/random"
	"fixturegen/settings"
)

type person = testmodel.Person

func TestCreate(t *testing.T) {
	p, err := Create[person]()
	require.NoError(t, err)

	assert.NotEmpty(t, p.Name)
	assert.NotZero(t, p.ID)
	require.NotNil(t, p.Address)
	assert.NotEmpty(t, p.Address.City)
	assert.NotEmpty(t, p.Phones)
	assert.NotEmpty(t, p.Tags)
	assert.Empty(t, p.Secret())
}

func TestOfSlice(t *testing.T) {
	people, err := OfSlice[person]().Size(5).
		Set(Field[testmodel.Address]("Country"), "NL").
		Create()
	require.NoError(t, err)
	require.Len(t, people, 5)

	for _, p := range people {
		require.NotNil(t, p.Address)
		assert.Equal(t, "NL", p.Address.Country)
	}

	_, err = OfSlice[person]().Size(-1).Create()
	assert.ErrorIs(t, err, ErrUsage)
}

func TestDeclarations(t *testing.T) {
	birthday := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)

	var completed []string

	p := Of[person]().
		Set(Field[person]("Name"), "Alice").
		Supply(All[time.Time](), func(*random.Random) any { return birthday }).
		Generate(Field[person]("Phones"), gen.Slice().Size(3)).
		Ignore(Field[person]("Email")).
		Filter(Field[person]("Age"), func(v any) bool { return v.(int) > 5000 }).
		OnComplete(All[testmodel.Phone](), func(v any) { completed = append(completed, v.(testmodel.Phone).Number) }).
		WithSeed(3).
		MustCreate()

	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, birthday, p.Birthday)
	assert.Len(t, p.Phones, 3)
	assert.Empty(t, p.Email)
	assert.Greater(t, p.Age, 5000)

	numbers := make([]string, len(p.Phones))
	for i, ph := range p.Phones {
		numbers[i] = ph.Number
	}

	assert.Equal(t, numbers, completed)
}

func TestSubtypeAndNullable(t *testing.T) {
	d := Of[testmodel.Drawing]().
		Subtype(All[testmodel.Shape](), reflect.TypeFor[testmodel.Square]()).
		MustCreate()

	assert.IsType(t, testmodel.Square{}, d.Main)

	people := OfSlice[person]().Size(100).
		WithNullable(Field[person]("Nickname")).
		MustCreate()

	nils := 0

	for _, p := range people {
		if p.Nickname == nil {
			nils++
		}
	}

	assert.Greater(t, nils, 0)
	assert.Less(t, nils, 100)
}

func TestSelectors(t *testing.T) {
	p := Of[person]().
		Set(Getter((*person).GetName), "getter").
		Set(Path[person]("Address.City"), "Paris").
		Set(AllInts(), 7).
		Set(Dual[string]().Within(Field[person]("Phones").ToScope()), "phone").
		MustCreate()

	assert.Equal(t, "getter", p.Name)
	require.NotNil(t, p.Address)
	assert.Equal(t, "Paris", p.Address.City)
	assert.NotEqual(t, "Paris", p.Address.Street)
	assert.Equal(t, 7, p.Age)

	for _, ph := range p.Phones {
		assert.Equal(t, "phone", ph.Number)
	}

	assert.NotEqual(t, "phone", p.Email)
}

func TestScopeDepthIsMinimum(t *testing.T) {
	ghi := All[testmodel.StringsGhi]().AtDepth(1).ToScope()

	v := Of[testmodel.StringsAbc]().
		Set(All[string]().Within(ghi), "scoped").
		MustCreate()

	assert.Equal(t, "scoped", v.Def.Ghi.G)
	assert.Equal(t, "scoped", v.Def.Ghi.I)
	assert.NotEqual(t, "scoped", v.A)
	assert.NotEqual(t, "scoped", v.Def.D)

	_, err := Of[testmodel.StringsAbc]().
		Set(All[string]().Within(All[testmodel.StringsGhi]().AtDepth(3).ToScope()), "scoped").
		Create()
	assert.ErrorIs(t, err, ErrUnusedSelector)
}

func TestPredicateSelectorPriority(t *testing.T) {
	p := Of[person]().
		Set(Fields().Named("Email"), "field").
		Set(Types().Of(reflect.TypeFor[string]()), "type").
		MustCreate()

	assert.Equal(t, "field", p.Email)
	assert.Equal(t, "type", p.Name)
}

func TestSetterSelector(t *testing.T) {
	a := Of[testmodel.Account]().
		WithSetting(settings.AssignmentType, settings.AssignmentMethod).
		Set(Setter((*testmodel.Account).SetOwner), "bob").
		MustCreate()

	assert.Equal(t, "set:bob", a.Owner)

	_, err := Of[testmodel.Account]().
		Set(Setter((*testmodel.Account).SetOwner), "bob").
		Create()
	assert.ErrorIs(t, err, ErrUsage)
}

func TestUsageErrors(t *testing.T) {
	_, err := Of[person]().
		WithSetting(settings.StringMinLength, "many").
		Supply(Field[person]("Name"), nil).
		Create()

	require.ErrorIs(t, err, ErrUsage)

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Site, "fixturegen_test.go:")

	_, err = Of[person]().Set(Field[person]("Nmae"), "x").Create()
	require.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), `no field "Nmae"`)

	assert.Panics(t, func() { Of[person]().Ignore(Field[person]("Nope")).MustCreate() })
}

func TestUnusedSelectors(t *testing.T) {
	_, err := Of[testmodel.StringsAbc]().
		Set(Field[person]("Name"), "x").
		Create()

	var unused *UnusedSelectorError
	require.ErrorAs(t, err, &unused)
	require.Len(t, unused.Selectors, 1)
	assert.Equal(t, "Set", unused.Selectors[0].API)
	assert.Contains(t, unused.Selectors[0].Site, "fixturegen_test.go:")

	_, err = Of[testmodel.StringsAbc]().
		Set(Field[person]("Name"), "x").
		Lenient().
		Create()
	assert.NoError(t, err)

	_, err = Of[testmodel.StringsAbc]().
		Set(Field[person]("Name").Lenient(), "x").
		Create()
	assert.NoError(t, err)
}

func TestSeed(t *testing.T) {
	a := Of[person]().WithSeed(99).MustCreate()
	b := Of[person]().WithSeed(99).MustCreate()
	c := Of[person]().WithSetting(settings.Seed, 99).MustCreate()

	opt := cmp.AllowUnexported(person{})
	assert.Empty(t, cmp.Diff(a, b, opt))
	assert.Empty(t, cmp.Diff(a, c, opt))

	builder := Of[person]().WithSeed(5)
	assert.Empty(t, cmp.Diff(builder.MustCreate(), builder.MustCreate(), opt))
}

func TestSettingsFile(t *testing.T) {
	s, err := settings.Parse([]byte("string.min.length: 20\nstring.max.length: 20\n"))
	require.NoError(t, err)

	p := Of[person]().WithSettings(s).MustCreate()
	assert.Len(t, p.Name, 20)

	p = Of[person]().WithSettings(s).WithSetting(settings.StringMaxLength, 4).MustCreate()
	assert.LessOrEqual(t, len(p.Name), 4)
}

func TestCreateContext(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	_, err := Of[person]().WithSeed(1).CreateContext(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "created value")
	assert.Contains(t, buf.String(), "seed=1")

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = OfSlice[person]().Size(3).CreateContext(canceled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStructTags(t *testing.T) {
	c := Of[testmodel.Customer]().MustCreate()

	assert.Contains(t, c.Email, "@")
	assert.Len(t, c.Code, 6)
	assert.LessOrEqual(t, len(c.Ref), 4)
	assert.Contains(t, []string{"red", "green", "blue"}, c.Color)

	c = Of[testmodel.Customer]().WithSetting(settings.TagsValidateEnabled, false).MustCreate()
	assert.NotContains(t, []string{"red", "green", "blue"}, c.Color)
}

func TestStringFieldPrefix(t *testing.T) {
	p := Of[person]().WithSetting(settings.StringFieldPrefixEnabled, true).MustCreate()

	assert.True(t, strings.HasPrefix(p.Name, "Name_"))
	require.NotNil(t, p.Address)
	assert.True(t, strings.HasPrefix(p.Address.City, "City_"))
}

func TestMaxDepth(t *testing.T) {
	p := Of[person]().WithSetting(settings.MaxDepth, 1).MustCreate()
	assert.Nil(t, p.Address)

	_, err := Of[person]().
		WithSetting(settings.MaxDepth, 1).
		WithSetting(settings.FailOnMaxDepthReached, true).
		Create()

	var depth *MaxDepthReachedError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, 1, depth.Depth)
}
