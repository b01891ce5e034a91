package engine

import (
	"context"
	"fmt"
	"reflect"

	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/internal/assign"
	"fixturegen/internal/fail"
	"fixturegen/node"
	"fixturegen/primitive"
	"fixturegen/settings"
)

// apply performs one action on n. values holds the origin values of the rule
// the action belongs to.
func (e *Engine) apply(ctx context.Context, n *node.Node, f *frame, dst reflect.Value, a assign.Action, values []any) error {
	switch a.Kind {
	case assign.ActionSet:
		return e.store(ctx, n, f, dst, a.Value, hints.DoNotModify)

	case assign.ActionSupply:
		return e.store(ctx, n, f, dst, a.Supply(e.cfg.Random), hints.DoNotModify)

	case assign.ActionGenerate:
		if err := generator.Prepare(a.Spec, e.gctx, n.TargetType); err != nil {
			return fail.Usage("%s: %v", n.Path(), err)
		}

		return e.run(ctx, n, f, dst, a.Spec)

	case assign.ActionCopy:
		v := values[0]
		if a.Map != nil {
			v = a.Map(v)
		}

		return e.store(ctx, n, f, dst, v, hints.DoNotModify)
	}

	return &fail.InternalError{Path: n.Path(), Err: fmt.Errorf("unknown action %s", a.Kind)}
}

// run generates one value with g. Container hints without a value make the
// engine build the container itself.
func (e *Engine) run(ctx context.Context, n *node.Node, f *frame, dst reflect.Value, g generator.Generator) error {
	v, err := g.Generate(e.cfg.Random)
	if err != nil {
		return &fail.InternalError{Path: n.Path(), Err: err}
	}

	h := g.Hints()

	if v == nil && (h.Collection != nil || h.Map != nil) {
		return e.container(ctx, n, f, dst, h)
	}

	return e.store(ctx, n, f, dst, v, h.AfterGenerate)
}

// store assigns an explicit value to dst and populates what policy allows.
func (e *Engine) store(ctx context.Context, n *node.Node, f *frame, dst reflect.Value, v any, policy hints.AfterGenerate) error {
	rv, err := convert(v, dst.Type())
	if err != nil {
		return &fail.TypeMismatchError{Path: n.Path(), Value: reflect.TypeOf(v), Target: dst.Type(), Err: err}
	}

	dst.Set(rv)

	if n.Kind == node.KindTerminal || v == nil {
		return nil
	}

	if policy == hints.Unset {
		policy = settings.Get(e.cfg.Settings, settings.AfterGenerateHint)
	}

	if policy == hints.PopulateAll && !settings.Get(e.cfg.Settings, settings.OverwriteExistingValues) {
		policy = hints.PopulateNilsAndDefaultPrimitives
	}

	if policy == hints.DoNotModify || policy == hints.Unset {
		return nil
	}

	return e.populate(ctx, n, f, dst, policy)
}

// convert returns v as a value assignable to t. Pointer types accept values
// of their element type.
func convert(v any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(t), nil
	}

	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if t.Kind() == reflect.Pointer && rv.Kind() != reflect.Pointer {
		elem, err := convert(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)

		return ptr, nil
	}

	if primitive.FromReflectType(t) != 0 {
		out, err := primitive.Convert(rv, t, primitive.CategoryExplicit)
		if err != nil {
			return reflect.Value{}, err
		}

		return out, nil
	}

	// named and unnamed composite types sharing an underlying type
	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%s is not convertible to %s", rv.Type(), t)
}

// populate fills the members of an explicit value of n that policy allows to
// be modified.
func (e *Engine) populate(ctx context.Context, n *node.Node, f *frame, v reflect.Value, policy hints.AfterGenerate) error {
	if n.TargetType != v.Type() {
		// interface holding a subtype: members are not addressable
		return nil
	}

	switch n.Kind {
	case node.KindStruct:
		for _, c := range n.Children {
			if c.Role != node.RoleField {
				continue
			}

			if err := e.populateMember(ctx, c, f, field(v, c), policy); err != nil {
				return err
			}
		}

	case node.KindPointer:
		elem := n.Element()
		if elem == nil || v.IsNil() {
			return nil
		}

		return e.populate(ctx, elem, newFrame(elem, f), v.Elem(), policy)

	case node.KindSlice, node.KindArray:
		elem := n.Element()
		if elem == nil {
			return nil
		}

		for i := range v.Len() {
			if err := e.populateMember(ctx, elem, f, v.Index(i), policy); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Engine) populateMember(ctx context.Context, c *node.Node, f *frame, v reflect.Value, policy hints.AfterGenerate) error {
	switch {
	case policy == hints.PopulateAll, isNil(v):
		v.SetZero()

		return e.fill(ctx, c, f, v)

	case c.Kind == node.KindTerminal:
		if policy == hints.PopulateNilsAndDefaultPrimitives && v.IsZero() {
			return e.fill(ctx, c, f, v)
		}

		return nil

	default:
		return e.populate(ctx, c, newFrame(c, f), v, policy)
	}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
