// Package fixturegen creates fully populated values of arbitrary Go types for
// tests.
//
// A Builder records how parts of the value are generated: selectors pick
// nodes of the type graph, and each declaration (Set, Generate, Ignore,
// Assign, ...) applies to the nodes its selector matches. Declarations are
// validated against the root type when a value is created:
//
//	p, err := fixturegen.Of[Person]().
//		Set(fixturegen.Field[Person]("Name"), "Alice").
//		Generate(fixturegen.Field[Person]("Phones"), gen.Slice().Size(3)).
//		Assign(fixturegen.Given(fixturegen.Field[Address]("Country")).Is("NL").
//			Set(fixturegen.Field[Address]("Currency"), "EUR")).
//		WithSeed(42).
//		Create()
package fixturegen

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"fixturegen/generator"
	"fixturegen/internal/annotation"
	"fixturegen/internal/assign"
	"fixturegen/internal/ctxlog"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/engine"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
	"fixturegen/internal/typemap"
	"fixturegen/random"
	"fixturegen/settings"
)

// Builder declares how values of T are created. It may be reused for several
// sequential creation calls, but is not safe for concurrent use.
type Builder[T any] struct {
	settings *settings.Settings
	seed     *uint64
	cfg      engine.Config
	diags    diagnostic.Diagnostics
}

// Of returns a builder for values of T.
func Of[T any]() *Builder[T] {
	return &Builder[T]{settings: settings.New()}
}

// Create generates a value of T.
func Create[T any]() (T, error) {
	return Of[T]().Create()
}

// Set stores value in every node matched by sel. The value is stored as is,
// converted to the node type when the conversion is lossless.
func (b *Builder[T]) Set(sel selector.TargetSelector, value any) *Builder[T] {
	return b.override(assign.Action{Kind: assign.ActionSet, Dest: sel, Value: value})
}

// Supply stores the result of fn, called once per matched node.
func (b *Builder[T]) Supply(sel selector.TargetSelector, fn func(r *random.Random) any) *Builder[T] {
	if fn == nil {
		return b.usage(selector.CallerSite(1), "Supply(%s): function must not be nil", sel)
	}

	return b.override(assign.Action{Kind: assign.ActionSupply, Dest: sel, Supply: fn})
}

// Generate generates matched nodes with g, typically a spec from package gen.
func (b *Builder[T]) Generate(sel selector.TargetSelector, g generator.Generator) *Builder[T] {
	if g == nil {
		return b.usage(selector.CallerSite(1), "Generate(%s): generator must not be nil", sel)
	}

	return b.override(assign.Action{Kind: assign.ActionGenerate, Dest: sel, Spec: g})
}

func (b *Builder[T]) override(a assign.Action) *Builder[T] {
	b.cfg.Overrides = append(b.cfg.Overrides, a)

	return b
}

// Ignore leaves matched nodes, and everything below them, at their zero value.
func (b *Builder[T]) Ignore(sels ...selector.TargetSelector) *Builder[T] {
	b.cfg.Ignores = append(b.cfg.Ignores, sels...)

	return b
}

// WithNullable lets matched nodes be nil, or zero, at random.
func (b *Builder[T]) WithNullable(sels ...selector.TargetSelector) *Builder[T] {
	b.cfg.Nullables = append(b.cfg.Nullables, sels...)

	return b
}

// Subtype generates t wherever sel matches. t must be assignable to the
// declared type of the matched nodes.
func (b *Builder[T]) Subtype(sel selector.TargetSelector, t reflect.Type) *Builder[T] {
	b.cfg.Subtypes = append(b.cfg.Subtypes, engine.SubtypeRule{Selector: sel, Type: t})

	return b
}

// Filter regenerates matched nodes until accept returns true, at most
// settings.MaxGenerationAttempts times.
func (b *Builder[T]) Filter(sel selector.TargetSelector, accept func(v any) bool) *Builder[T] {
	b.cfg.Filters = append(b.cfg.Filters, engine.FilterRule{Selector: sel, Accept: accept})

	return b
}

// OnComplete calls fn with the final value of every matched node once the
// whole value has been created.
func (b *Builder[T]) OnComplete(sel selector.TargetSelector, fn func(v any)) *Builder[T] {
	b.cfg.Callbacks = append(b.cfg.Callbacks, engine.CallbackRule{Selector: sel, Fn: fn})

	return b
}

// Assign declares assignments built with Given, GivenAll, GivenDest or ValueOf.
// When several apply to one node, the last declared wins.
func (b *Builder[T]) Assign(assignments ...Assignment) *Builder[T] {
	for _, a := range assignments {
		if a == nil {
			return b.usage(selector.CallerSite(1), "Assign: assignment must not be nil")
		}

		rules, err := a.rules()
		if err != nil {
			b.diags.AddError(diagnostic.CodeUsage, err, "Assign", "")

			continue
		}

		b.cfg.Rules = append(b.cfg.Rules, rules...)
	}

	return b
}

// SettingKey is implemented by every settings.Key.
type SettingKey interface {
	Name() string
}

// WithSetting sets one settings key for this builder. Values are converted to
// the key type when the conversion is lossless.
func (b *Builder[T]) WithSetting(key SettingKey, value any) *Builder[T] {
	if err := b.settings.SetValue(key.Name(), value); err != nil {
		return b.usage(selector.CallerSite(1), "WithSetting: %v", err)
	}

	return b
}

// WithSettings merges s into the settings of this builder. Later calls
// override earlier ones key by key.
func (b *Builder[T]) WithSettings(s *settings.Settings) *Builder[T] {
	if err := b.settings.Merge(s); err != nil {
		return b.usage(selector.CallerSite(1), "WithSettings: %v", err)
	}

	return b
}

// WithSeed makes creation deterministic. It takes precedence over
// settings.Seed.
func (b *Builder[T]) WithSeed(seed uint64) *Builder[T] {
	b.seed = &seed

	return b
}

// WithTypeParams loads the declared type parameter names of generic types in
// the packages matched by patterns, so selectors and messages can refer to
// them by name.
func (b *Builder[T]) WithTypeParams(patterns ...string) *Builder[T] {
	names, err := typemap.LoadParamNames(patterns...)
	if err != nil {
		return b.usage(selector.CallerSite(1), "WithTypeParams: %v", err)
	}

	if b.cfg.ParamNames == nil {
		b.cfg.ParamNames = make(typemap.ParamNames)
	}

	b.cfg.ParamNames.Merge(names)

	return b
}

// Lenient disables the unused selector check.
func (b *Builder[T]) Lenient() *Builder[T] {
	b.cfg.Lenient = true

	return b
}

func (b *Builder[T]) usage(site, format string, args ...any) *Builder[T] {
	err := fail.Usage(format, args...).At(site)
	b.diags.AddError(diagnostic.CodeUsage, err, "", site)

	return b
}

// Create generates a value of T.
func (b *Builder[T]) Create() (T, error) {
	return b.CreateContext(context.Background())
}

// MustCreate is like Create but panics on error.
func (b *Builder[T]) MustCreate() T {
	v, err := b.Create()
	if err != nil {
		panic(err)
	}

	return v
}

// CreateContext generates a value of T. The logger of ctx receives debug
// output; cancelling ctx aborts the call.
func (b *Builder[T]) CreateContext(ctx context.Context) (T, error) {
	var zero T

	if err := b.diags.Err(); err != nil {
		return zero, err
	}

	cfg, seed := b.config()
	root := reflect.TypeFor[T]()

	e, err := engine.New(ctx, root, cfg)
	if err != nil {
		return zero, err
	}

	v, err := e.Run(ctx)
	if err != nil {
		return zero, err
	}

	ctxlog.FromContext(ctx).DebugContext(ctx, "created value",
		slog.String("type", root.String()),
		slog.Uint64("seed", seed),
		slog.Int("warnings", len(e.Diagnostics().Warnings)),
	)

	out, ok := v.Interface().(T)
	if !ok {
		return zero, &fail.InternalError{Path: root.String(), Err: fmt.Errorf("created %s", v.Type())}
	}

	return out, nil
}

// config returns the engine configuration of one call. Each call gets its own
// locked settings and random source.
func (b *Builder[T]) config() (engine.Config, uint64) {
	s := b.settings.Clone().Lock()

	seed := settings.Get(s, settings.Seed)
	if b.seed != nil {
		seed = *b.seed
	}

	if seed == 0 {
		seed = random.NewSeed()
	}

	cfg := b.cfg
	cfg.Settings = s
	cfg.Random = random.New(seed)
	cfg.Registry = annotation.DefaultRegistry(s)

	return cfg, seed
}
