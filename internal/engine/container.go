package engine

import (
	"context"
	"reflect"

	"fixturegen/generator/hints"
	"fixturegen/internal/fail"
	"fixturegen/node"
	"fixturegen/settings"
)

// container builds a slice, array or map as the hints describe. Pointer
// nodes are allocated and their element built instead.
func (e *Engine) container(ctx context.Context, n *node.Node, f *frame, dst reflect.Value, h hints.Hints) error {
	if n.Truncated {
		return e.generate(ctx, n, f, dst)
	}

	return e.into(n, dst, func(v reflect.Value) error {
		switch n.Kind {
		case node.KindSlice:
			return e.fillSlice(ctx, n, f, v, h.Collection)
		case node.KindArray:
			return e.fillArray(ctx, n, f, v, h.Collection)
		case node.KindMap:
			return e.fillMap(ctx, n, f, v, h.Map)
		case node.KindPointer:
			elem := n.Element()
			if elem == nil || elem.Cyclic {
				return nil
			}

			ptr := reflect.New(elem.Type)
			if err := e.container(ctx, elem, newFrame(elem, f), ptr.Elem(), h); err != nil {
				return err
			}

			v.Set(ptr)
		}

		return nil
	})
}

func (e *Engine) fillSlice(ctx context.Context, n *node.Node, f *frame, v reflect.Value, hc *hints.Collection) error {
	if hc == nil {
		hc = &hints.Collection{}
	}

	elem := n.Element()
	if elem == nil {
		return nil
	}

	count := max(hc.GenerateElements, 0)
	s := reflect.MakeSlice(n.TargetType, count+len(hc.WithElements), count+len(hc.WithElements))
	before := e.delays

	for i := range count {
		if n.IsRoot() {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if hc.NullableElements && nillable(elem) && e.cfg.Random.DiceRoll() {
			continue
		}

		var err error
		if hc.Unique {
			err = e.fillUnique(ctx, elem, f, s, i)
		} else {
			err = e.fill(ctx, elem, f, s.Index(i))
		}

		if err != nil {
			return err
		}
	}

	for j, w := range hc.WithElements {
		rv, err := convert(w, elem.Type)
		if err != nil {
			return &fail.TypeMismatchError{Path: elem.Path(), Value: reflect.TypeOf(w), Target: elem.Type, Err: err}
		}

		s.Index(count + j).Set(rv)
	}

	v.Set(s)

	if !hc.Shuffle {
		return nil
	}

	shuffle := func() error {
		e.cfg.Random.Shuffle(s.Len(), reflect.Swapper(s.Interface()))

		return nil
	}

	// delayed elements are written in place and must not move before then
	if e.delays != before {
		e.later(n, shuffle)

		return nil
	}

	return shuffle()
}

// fillUnique generates element i of s until it differs from the elements
// before it.
func (e *Engine) fillUnique(ctx context.Context, elem *node.Node, f *frame, s reflect.Value, i int) error {
	limit := settings.Get(e.cfg.Settings, settings.MaxGenerationAttempts)
	slot := s.Index(i)

	for tries := 1; ; tries++ {
		cp := e.mark()

		if err := e.fill(ctx, elem, f, slot); err != nil {
			return err
		}

		if !containsBefore(s, i) {
			return nil
		}

		if tries >= limit {
			return &fail.AttemptsExceededError{Path: elem.Path(), Attempts: tries, Reason: "no unique element could be generated"}
		}

		e.rollback(cp)
		slot.SetZero()
	}
}

func containsBefore(s reflect.Value, i int) bool {
	v := s.Index(i).Interface()

	for j := range i {
		if reflect.DeepEqual(s.Index(j).Interface(), v) {
			return true
		}
	}

	return false
}

func (e *Engine) fillArray(ctx context.Context, n *node.Node, f *frame, v reflect.Value, hc *hints.Collection) error {
	elem := n.Element()
	if elem == nil {
		return nil
	}

	nullable := hc != nil && hc.NullableElements && nillable(elem)

	for i := range v.Len() {
		if nullable && e.cfg.Random.DiceRoll() {
			continue
		}

		if err := e.fill(ctx, elem, f, v.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

// fillMap adds the requested number of entries. Generation stops early when
// no new key can be found within the attempt limit.
func (e *Engine) fillMap(ctx context.Context, n *node.Node, f *frame, v reflect.Value, hm *hints.Map) error {
	if hm == nil {
		hm = &hints.Map{}
	}

	key, val := n.KeyValue()
	if key == nil {
		return nil
	}

	entries := max(hm.GenerateEntries, len(hm.WithKeys))
	m := reflect.MakeMapWithSize(n.TargetType, entries+len(hm.WithEntries))
	limit := settings.Get(e.cfg.Settings, settings.MaxGenerationAttempts)

	for i := range entries {
		before := e.delays
		k := reflect.New(key.Type).Elem()

		if i < len(hm.WithKeys) {
			rv, err := convert(hm.WithKeys[i], key.Type)
			if err != nil {
				return &fail.TypeMismatchError{Path: key.Path(), Value: reflect.TypeOf(hm.WithKeys[i]), Target: key.Type, Err: err}
			}

			k.Set(rv)
		} else {
			ok, err := e.fillKey(ctx, key, f, m, k, limit)
			if err != nil {
				return err
			}

			if !ok {
				break
			}
		}

		value := reflect.New(val.Type).Elem()

		if !(hm.NullableValues && nillable(val) && e.cfg.Random.DiceRoll()) {
			if err := e.fill(ctx, val, f, value); err != nil {
				return err
			}
		}

		m.SetMapIndex(k, value)

		if e.delays != before {
			old := reflect.ValueOf(k.Interface())

			e.later(n, func() error {
				m.SetMapIndex(old, reflect.Value{})
				m.SetMapIndex(k, value)

				return nil
			})
		}
	}

	for _, en := range hm.WithEntries {
		k, err := convert(en.Key, key.Type)
		if err != nil {
			return &fail.TypeMismatchError{Path: key.Path(), Value: reflect.TypeOf(en.Key), Target: key.Type, Err: err}
		}

		value, err := convert(en.Value, val.Type)
		if err != nil {
			return &fail.TypeMismatchError{Path: val.Path(), Value: reflect.TypeOf(en.Value), Target: val.Type, Err: err}
		}

		m.SetMapIndex(k, value)
	}

	v.Set(m)

	return nil
}

func (e *Engine) fillKey(ctx context.Context, key *node.Node, f *frame, m, k reflect.Value, limit int) (bool, error) {
	for range limit {
		cp := e.mark()
		before := e.delays

		if err := e.fill(ctx, key, f, k); err != nil {
			return false, err
		}

		// a delayed key is still zero, the entry is moved once it resolves
		if e.delays != before || !m.MapIndex(k).IsValid() {
			return true, nil
		}

		e.rollback(cp)
		k.SetZero()
	}

	return false, nil
}

func nillable(n *node.Node) bool {
	switch n.Type.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
