// Package engine generates values for a node tree, applying selector
// overrides and resolving conditional assignments.
//
// A creation call builds the tree of the root type, matches every declared
// selector against it once, and then walks the tree depth first. Nodes gated
// by assignment rules whose origin values are not yet known are delayed and
// retried after other origin values have been recorded.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"fixturegen/gen"
	"fixturegen/generator"
	"fixturegen/internal/annotation"
	"fixturegen/internal/assign"
	"fixturegen/internal/ctxlog"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
	"fixturegen/internal/typemap"
	"fixturegen/node"
	"fixturegen/random"
	"fixturegen/settings"
)

// SubtypeRule generates Type wherever Selector matches.
type SubtypeRule struct {
	Selector selector.TargetSelector
	Type     reflect.Type
}

// FilterRule rejects generated values of matching nodes until Accept holds.
type FilterRule struct {
	Selector selector.TargetSelector
	Accept   func(v any) bool
}

// CallbackRule is called with the final value of every matching node once
// the whole value is complete.
type CallbackRule struct {
	Selector selector.TargetSelector
	Fn       func(v any)
}

// Config is everything a creation call declares besides its root type.
type Config struct {
	// Settings must be locked.
	Settings *settings.Settings
	Random   *random.Random
	// Registry holds the struct tag consumers; nil disables tags.
	Registry   *annotation.Registry
	ParamNames typemap.ParamNames

	// Overrides are unconditional Set, Supply and Generate actions.
	Overrides []assign.Action
	Ignores   []selector.TargetSelector
	Nullables []selector.TargetSelector
	Subtypes  []SubtypeRule
	Filters   []FilterRule
	Callbacks []CallbackRule
	Rules     []*assign.Rule

	// Lenient disables unused selector checks regardless of settings.Mode.
	Lenient bool
}

// Engine runs one creation call. It is not safe for concurrent use and
// cannot be reused.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	gctx  *generator.Context
	proc  *selector.Processor
	tree  *node.Tree
	plans []*plan
	rules []*ruleState
	used  []usageSource
	specs map[*node.Node]generator.Spec
	diags diagnostic.Diagnostics

	epoch    int
	seq      int
	delays   int
	queue    []*pending
	memo     map[memoKey]bool
	recommit []recommit
	complete []func()
}

// New matches the declarations of cfg against the tree of root. Usage errors,
// ambiguous origins and self-referencing assignments are reported here.
func New(ctx context.Context, root reflect.Type, cfg Config) (*Engine, error) {
	if cfg.Settings == nil {
		cfg.Settings = settings.New().Lock()
	}

	if cfg.Random == nil {
		cfg.Random = random.New(settings.Get(cfg.Settings, settings.Seed))
	}

	e := &Engine{
		cfg:   cfg,
		log:   ctxlog.FromContext(ctx),
		gctx:  generator.NewContext(cfg.Settings, cfg.Random),
		specs: make(map[*node.Node]generator.Spec),
		memo:  make(map[memoKey]bool),
	}

	opts := node.OptionsFrom(cfg.Settings)
	e.proc = selector.NewProcessor(root, opts.MethodMode)

	m, err := e.declare()
	if err != nil {
		return nil, err
	}

	opts.Terminal = gen.IsTerminal
	opts.ParamNames = cfg.ParamNames
	opts.Subtype = func(n *node.Node) (reflect.Type, bool) {
		if t, ok := m.subtypes.Get(n); ok {
			return t, true
		}

		return cfg.Settings.Subtype(n.Type)
	}

	e.tree, err = node.NewBuilder(opts).Build(root)
	if err != nil {
		return nil, err
	}

	e.log.DebugContext(ctx, "built node tree",
		slog.String("root", node.TypeName(root)),
		slog.Int("nodes", e.tree.Len()),
		slog.Int("truncated", len(e.tree.Truncated)),
	)

	if settings.Get(cfg.Settings, settings.Verbose) {
		e.log.DebugContext(ctx, "node tree\n"+e.tree.Root.Format())
		e.log.DebugContext(ctx, "settings\n"+spew.Sdump(cfg.Settings.Entries()))
	}

	if err := e.match(m); err != nil {
		return nil, err
	}

	if err := e.checkUnused(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

// Tree returns the node tree of the call.
func (e *Engine) Tree() *node.Tree { return e.tree }

// Diagnostics returns the warnings collected so far.
func (e *Engine) Diagnostics() diagnostic.Diagnostics { return e.diags }

// Run generates the root value. The returned value has the root type. No
// partial value is returned on error.
func (e *Engine) Run(ctx context.Context) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = reflect.Value{}, &fail.InternalError{Path: e.tree.Root.Path(), Err: fmt.Errorf("%v", r)}
		}
	}()

	root := reflect.New(e.tree.Root.Type).Elem()

	if err := e.fill(ctx, e.tree.Root, nil, root); err != nil {
		return reflect.Value{}, err
	}

	if err := e.drain(ctx); err != nil {
		return reflect.Value{}, err
	}

	// deeper copies first so outer copies see complete values
	sort.SliceStable(e.recommit, func(i, j int) bool {
		return e.recommit[i].depth > e.recommit[j].depth
	})

	for _, rc := range e.recommit {
		if err := rc.fn(); err != nil {
			return reflect.Value{}, err
		}
	}

	for _, fn := range e.complete {
		fn()
	}

	e.diags.Log(ctx, e.log)

	return root, nil
}

type recommit struct {
	depth int
	fn    func() error
}

// later runs fn after every delayed node has been resolved.
func (e *Engine) later(n *node.Node, fn func() error) {
	e.recommit = append(e.recommit, recommit{depth: n.Depth, fn: fn})
}

type checkpoint struct {
	queue, recommit, complete int
}

func (e *Engine) mark() checkpoint {
	return checkpoint{queue: len(e.queue), recommit: len(e.recommit), complete: len(e.complete)}
}

// rollback forgets the work queued since c by a discarded attempt.
func (e *Engine) rollback(c checkpoint) {
	e.queue = e.queue[:c.queue]
	e.recommit = e.recommit[:c.recommit]
	e.complete = e.complete[:c.complete]
}
