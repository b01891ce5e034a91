// Package hints describes how the engine treats a value returned by a generator.
package hints

import (
	"fmt"
	"strings"

	"fixturegen/internal/common"
)

// AfterGenerate tells the engine whether it may modify a generated value.
type AfterGenerate int

const (
	// Unset defers to the settings default.
	Unset AfterGenerate = iota
	// DoNotModify keeps the value exactly as generated.
	DoNotModify
	// PopulateNils fills nil pointers, slices, maps and interfaces.
	PopulateNils
	// PopulateNilsAndDefaultPrimitives also fills zero-valued primitives.
	PopulateNilsAndDefaultPrimitives
	// PopulateAll overwrites every member.
	PopulateAll
)

var afterGenerateNames = map[AfterGenerate]string{
	Unset:                            "unset",
	DoNotModify:                      "do_not_modify",
	PopulateNils:                     "populate_nils",
	PopulateNilsAndDefaultPrimitives: "populate_nils_and_default_primitives",
	PopulateAll:                      "populate_all",
}

func (a AfterGenerate) String() string {
	if name, ok := afterGenerateNames[a]; ok {
		return name
	}

	return common.UnknownStr
}

// MarshalText implements encoding.TextMarshaler.
func (a AfterGenerate) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AfterGenerate) UnmarshalText(text []byte) error {
	v, err := ParseAfterGenerate(string(text))
	if err != nil {
		return err
	}

	*a = v

	return nil
}

// ParseAfterGenerate parses the snake_case name of a policy.
func ParseAfterGenerate(s string) (AfterGenerate, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for v, name := range afterGenerateNames {
		if name == norm {
			return v, nil
		}
	}

	return Unset, fmt.Errorf("unknown after-generate policy %q", s)
}

// Hints accompanies every generated value.
type Hints struct {
	AfterGenerate AfterGenerate
	Collection    *Collection
	Map           *Map
}

// Collection hints apply to slices and arrays.
type Collection struct {
	// GenerateElements is the number of elements the engine adds.
	GenerateElements int
	NullableElements bool
	// WithElements are appended verbatim after generated elements.
	WithElements []any
	Unique       bool
	Shuffle      bool
}

// Map hints apply to maps.
type Map struct {
	GenerateEntries int
	NullableKeys    bool
	NullableValues  bool
	// WithKeys are used before random keys.
	WithKeys    []any
	WithEntries []Entry
}

// Entry is a fixed map entry.
type Entry struct {
	Key, Value any
}

// Of returns hints with only the policy set.
func Of(a AfterGenerate) Hints {
	return Hints{AfterGenerate: a}
}
