package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"unsafe"

	"fixturegen/gen"
	"fixturegen/generator"
	"fixturegen/internal/annotation"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/fail"
	"fixturegen/node"
	"fixturegen/settings"
)

// frame is one generated instance of a node. Frames of slice elements and
// map entries are distinct even though they share a node.
type frame struct {
	node    *node.Node
	parent  *frame
	records map[int]*record

	// value is the struct being filled, for back references.
	value reflect.Value
}

func newFrame(n *node.Node, parent *frame) *frame {
	return &frame{node: n, parent: parent}
}

// fill generates n into dst, or queues it when it waits for origin values.
// dst must be addressable and of type n.Type.
func (e *Engine) fill(ctx context.Context, n *node.Node, parent *frame, dst reflect.Value) error {
	f := newFrame(n, parent)

	delayed, err := e.attempt(ctx, n, f, dst)
	if err != nil {
		return err
	}

	if delayed {
		e.delays++
		e.queue = append(e.queue, &pending{node: n, frame: f, dst: dst, epoch: e.epoch})
	}

	return nil
}

// attempt produces the value of n and runs the filters, recording and
// callbacks that follow a successful generation.
func (e *Engine) attempt(ctx context.Context, n *node.Node, f *frame, dst reflect.Value) (bool, error) {
	p := e.plans[n.ID]
	if p.ignored {
		return false, nil
	}

	limit := settings.Get(e.cfg.Settings, settings.MaxGenerationAttempts)

	for tries := 1; ; tries++ {
		cp := e.mark()

		delayed, err := e.produce(ctx, n, f, dst, p)
		if err != nil || delayed {
			return delayed, err
		}

		if p.accepts(dst) {
			break
		}

		if tries >= limit {
			return false, &fail.AttemptsExceededError{
				Path:     n.Path(),
				Attempts: tries,
				Reason:   "no generated value was accepted by the filter",
			}
		}

		e.rollback(cp)
		dst.SetZero()
	}

	if p.origin {
		e.record(n, f, dst)
	}

	for _, fn := range p.callbacks {
		e.complete = append(e.complete, func() { fn(valueOf(dst)) })
	}

	return false, nil
}

func (p *plan) accepts(v reflect.Value) bool {
	for _, accept := range p.filters {
		if !accept(valueOf(v)) {
			return false
		}
	}

	return true
}

// produce applies, in order: the nullable decision, the last applicable
// assignment rule, the override and the default generation. A nullable node
// left zero is still recorded as an origin by attempt.
func (e *Engine) produce(ctx context.Context, n *node.Node, f *frame, dst reflect.Value, p *plan) (bool, error) {
	if e.nullable(n, p) && e.cfg.Random.DiceRoll() {
		return false, nil
	}

	for i := len(p.bindings) - 1; i >= 0; i-- {
		b := p.bindings[i]

		rs := e.rules[b.rule]
		if rs.missing {
			continue
		}

		holds, values, ready, err := e.evaluate(rs, f)
		if err != nil {
			return false, err
		}

		if !ready {
			return true, nil
		}

		if holds {
			return false, e.apply(ctx, n, f, dst, rs.rule.Actions[b.action], values)
		}
	}

	if p.override >= 0 {
		return false, e.apply(ctx, n, f, dst, e.cfg.Overrides[p.override], nil)
	}

	return false, e.generate(ctx, n, f, dst)
}

func (e *Engine) nullable(n *node.Node, p *plan) bool {
	if n.IsRoot() {
		return false
	}

	if f := tagField(n); f != nil && annotation.Required(*f) {
		return false
	}

	if p.nullable {
		return true
	}

	if n.Role != node.RoleField && n.Role != node.RoleSetter {
		return false
	}

	s := e.cfg.Settings

	switch n.Type.Kind() {
	case reflect.Pointer:
		return settings.Get(s, settings.PointerNullable)
	case reflect.Slice:
		return settings.Get(s, settings.CollectionNullable)
	case reflect.Map:
		return settings.Get(s, settings.MapNullable)
	case reflect.Interface:
		return settings.Get(s, settings.InterfaceNullable)
	default:
		return false
	}
}

// generate builds the default value of n.
func (e *Engine) generate(ctx context.Context, n *node.Node, f *frame, dst reflect.Value) error {
	if n.Truncated {
		if settings.Get(e.cfg.Settings, settings.FailOnMaxDepthReached) {
			return &fail.MaxDepthReachedError{Path: n.Path(), Depth: n.Depth}
		}

		e.log.DebugContext(ctx, "max depth reached", slog.String("path", n.Path()), slog.Int("depth", n.Depth))

		return nil
	}

	switch n.Kind {
	case node.KindTerminal, node.KindSlice, node.KindArray, node.KindMap:
		spec, err := e.spec(n)
		if err != nil || spec == nil {
			return err
		}

		return e.run(ctx, n, f, dst, spec)

	case node.KindStruct:
		if n.Cyclic {
			return nil
		}

		return e.into(n, dst, func(v reflect.Value) error { return e.fillStruct(ctx, n, f, v) })

	case node.KindPointer:
		return e.into(n, dst, func(v reflect.Value) error { return e.fillPointer(ctx, n, f, v) })
	}

	// interfaces without a subtype and ignored kinds stay zero
	return nil
}

// into generates values of the target type of n and stores them in dst.
// Copies made while some descendants were delayed are made again once every
// delayed node is resolved.
func (e *Engine) into(n *node.Node, dst reflect.Value, fill func(v reflect.Value) error) error {
	if n.TargetType == dst.Type() {
		return fill(dst)
	}

	tmp := reflect.New(n.TargetType).Elem()
	before := e.delays

	if err := fill(tmp); err != nil {
		return err
	}

	dst.Set(tmp)

	if e.delays != before {
		e.later(n, func() error {
			dst.Set(tmp)

			return nil
		})
	}

	return nil
}

// spec returns the default generator of a terminal or container node,
// configured by the struct tags of its field.
func (e *Engine) spec(n *node.Node) (generator.Spec, error) {
	if s, ok := e.specs[n]; ok {
		return s, nil
	}

	s := gen.ForType(n.TargetType)

	if f := tagField(n); f != nil && e.cfg.Registry != nil {
		var err error

		s, err = e.cfg.Registry.Apply(f.Tag, s, n.TargetType, e.gctx)
		if err != nil {
			return nil, fail.Usage("%s: %v", n.Path(), err)
		}
	}

	if s == nil {
		e.specs[n] = nil

		return nil, nil
	}

	if str, ok := s.(*gen.StringSpec); ok && settings.Get(e.cfg.Settings, settings.StringFieldPrefixEnabled) {
		if name := fieldName(n); name != "" {
			str.Prefix(name + "_")
		}
	}

	if err := generator.Prepare(s, e.gctx, n.TargetType); err != nil {
		return nil, fail.Usage("%s: %v", n.Path(), err)
	}

	e.specs[n] = s

	return s, nil
}

// tagField returns the field whose tags configure n. Pointer elements
// inherit the tags of the pointer field.
func tagField(n *node.Node) *reflect.StructField {
	if n.Field != nil {
		return n.Field
	}

	if n.Role == node.RoleElement && n.Parent.Kind == node.KindPointer {
		return n.Parent.Field
	}

	return nil
}

func fieldName(n *node.Node) string {
	if f := tagField(n); f != nil {
		return f.Name
	}

	return ""
}

func (e *Engine) fillStruct(ctx context.Context, n *node.Node, f *frame, v reflect.Value) error {
	f.value = v

	for _, c := range n.Children {
		var err error

		switch {
		case c.Role == node.RoleSetter:
			err = e.fillSetter(ctx, c, f, v)
		case c.Role != node.RoleField:
			continue
		case c.Setter != nil:
			err = e.fillSetter(ctx, c, f, v)
		default:
			err = e.fill(ctx, c, f, field(v, c))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// field returns the settable field of struct v backing c.
func field(v reflect.Value, c *node.Node) reflect.Value {
	fv := v.Field(c.Field.Index[0])
	if !fv.CanSet() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}

	return fv
}

// fillSetter generates c into a temporary and passes it to the setter of c.
// The call waits for the end of the run when part of the value was delayed.
func (e *Engine) fillSetter(ctx context.Context, c *node.Node, f *frame, owner reflect.Value) error {
	if e.plans[c.ID].ignored {
		return nil
	}

	tmp := reflect.New(c.Type).Elem()
	before := e.delays

	if err := e.fill(ctx, c, f, tmp); err != nil {
		return err
	}

	recv := owner.Addr()

	if e.delays != before {
		e.later(c, func() error { return e.invoke(ctx, c, recv, tmp) })

		return nil
	}

	return e.invoke(ctx, c, recv, tmp)
}

func (e *Engine) invoke(ctx context.Context, c *node.Node, recv, arg reflect.Value) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		cause := fmt.Errorf("setter %s panicked: %v", c.Setter.Name, r)

		if settings.Get(e.cfg.Settings, settings.FailOnError) {
			err = &fail.InternalError{Path: c.Path(), Err: cause}

			return
		}

		e.log.WarnContext(ctx, "recovered from setter panic", slog.String("path", c.Path()), slog.Any("error", cause))
		e.diags.AddWarning(diagnostic.CodeRecovered, cause.Error(), c.Setter.Name, c.Path())
	}()

	c.Setter.Func.Call([]reflect.Value{recv, arg})

	return nil
}

func (e *Engine) fillPointer(ctx context.Context, n *node.Node, f *frame, v reflect.Value) error {
	elem := n.Element()
	if elem == nil || e.plans[elem.ID].ignored {
		return nil
	}

	if elem.Cyclic {
		if settings.Get(e.cfg.Settings, settings.SetBackReferences) {
			if anc := enclosing(f, elem.Type); anc != nil {
				v.Set(anc.value.Addr())
			}
		}

		return nil
	}

	ptr := reflect.New(elem.Type)
	if err := e.fill(ctx, elem, f, ptr.Elem()); err != nil {
		return err
	}

	v.Set(ptr)

	return nil
}

// enclosing returns the nearest frame filling a struct of type t.
func enclosing(f *frame, t reflect.Type) *frame {
	for ; f != nil; f = f.parent {
		if f.value.IsValid() && f.value.Type() == t && f.value.CanAddr() {
			return f
		}
	}

	return nil
}

// valueOf returns the interface value of v for user callbacks.
func valueOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return v.Interface()
}
