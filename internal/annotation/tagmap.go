// Package annotation turns struct tag directives into generator constraints.
//
// Tags play the role annotations play elsewhere: `validate:"min=3"` bounds a
// string length, `gorm:"size:64"` its maximum. Consumers are registered in a
// Registry, which is handed to the engine; there is no global registry.
package annotation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/structtag"
)

// Directive is one option of a struct tag, e.g. min=3 of validate or size:64
// of gorm. Value is empty for bare options such as email.
type Directive struct {
	Key   string
	Name  string
	Value string
}

func (d Directive) String() string {
	if d.Value == "" {
		return d.Key + ":" + d.Name
	}

	return d.Key + ":" + d.Name + "=" + d.Value
}

// TagMap is an ordered, removable collection of directives.
type TagMap struct {
	items []Directive
	errs  []error
}

// Parse reads the directives of the given tag keys. validate options are
// comma separated name=value pairs; gorm options are semicolon separated
// name:value pairs. Other keys are split on commas.
func Parse(tag reflect.StructTag, keys ...string) (*TagMap, error) {
	m := &TagMap{}
	if tag == "" {
		return m, nil
	}

	tags, err := structtag.Parse(string(tag))
	if err != nil {
		return m, fmt.Errorf("parse tag `%s`: %w", tag, err)
	}

	for _, t := range tags.Tags() {
		if len(keys) > 0 && !slices.Contains(keys, t.Key) {
			continue
		}

		raw := t.Value()

		switch t.Key {
		case "gorm":
			m.items = append(m.items, split(t.Key, raw, ";", ":")...)
		default:
			m.items = append(m.items, split(t.Key, raw, ",", "=")...)
		}
	}

	return m, nil
}

func split(key, raw, sep, assign string) []Directive {
	var out []Directive

	for part := range strings.SplitSeq(raw, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, _ := strings.Cut(part, assign)
		out = append(out, Directive{
			Key:   key,
			Name:  strings.ToLower(strings.TrimSpace(name)),
			Value: strings.TrimSpace(value),
		})
	}

	return out
}

// Of returns a map holding the given directives.
func Of(ds ...Directive) *TagMap {
	return &TagMap{items: slices.Clone(ds)}
}

func (m *TagMap) Len() int { return len(m.items) }

// All returns the directives in tag order.
func (m *TagMap) All() []Directive { return slices.Clone(m.items) }

// ByKey returns the directives of one tag key in tag order.
func (m *TagMap) ByKey(key string) []Directive {
	var out []Directive

	for _, d := range m.items {
		if d.Key == key {
			out = append(out, d)
		}
	}

	return out
}

func (m *TagMap) Get(key, name string) (Directive, bool) {
	for _, d := range m.items {
		if d.Key == key && d.Name == name {
			return d, true
		}
	}

	return Directive{}, false
}

func (m *TagMap) Has(key, name string) bool {
	_, ok := m.Get(key, name)

	return ok
}

// Remove deletes every directive equal to d.
func (m *TagMap) Remove(d Directive) {
	m.items = slices.DeleteFunc(m.items, func(x Directive) bool { return x == d })
}

// Invalid records a directive a consumer could not apply.
func (m *TagMap) Invalid(d Directive, err error) {
	m.errs = append(m.errs, fmt.Errorf("%s: %w", d, err))
}

// Err returns the recorded problems joined, or nil.
func (m *TagMap) Err() error {
	return errors.Join(m.errs...)
}

// Required reports whether the field must never be left nil:
// validate:"required" or gorm:"not null".
func Required(f reflect.StructField) bool {
	m, err := Parse(f.Tag, "validate", "gorm")
	if err != nil {
		return false
	}

	return m.Has("validate", "required") || m.Has("gorm", "not null")
}
