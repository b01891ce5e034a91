package settings

import (
	"fmt"
	"strings"

	"fixturegen/internal/common"
)

// ModeEnum selects whether unused selectors fail a creation call.
type ModeEnum int

const (
	ModeStrict ModeEnum = iota
	ModeLenient
)

func (m ModeEnum) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	default:
		return common.UnknownStr
	}
}

func (m ModeEnum) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ModeEnum) UnmarshalText(text []byte) error {
	return parseEnum(text, m, ModeStrict, ModeLenient)
}

// AssignmentTypeEnum selects how values are written into structs.
type AssignmentTypeEnum int

const (
	// AssignmentField writes struct fields directly.
	AssignmentField AssignmentTypeEnum = iota
	// AssignmentMethod calls Set<Field> methods where they exist.
	AssignmentMethod
)

func (a AssignmentTypeEnum) String() string {
	switch a {
	case AssignmentField:
		return "field"
	case AssignmentMethod:
		return "method"
	default:
		return common.UnknownStr
	}
}

func (a AssignmentTypeEnum) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AssignmentTypeEnum) UnmarshalText(text []byte) error {
	return parseEnum(text, a, AssignmentField, AssignmentMethod)
}

// SetterUnmatchedEnum decides what happens to setters without a backing field.
type SetterUnmatchedEnum int

const (
	SetterIgnore SetterUnmatchedEnum = iota
	SetterInvoke
)

func (s SetterUnmatchedEnum) String() string {
	switch s {
	case SetterIgnore:
		return "ignore"
	case SetterInvoke:
		return "invoke"
	default:
		return common.UnknownStr
	}
}

func (s SetterUnmatchedEnum) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SetterUnmatchedEnum) UnmarshalText(text []byte) error {
	return parseEnum(text, s, SetterIgnore, SetterInvoke)
}

func parseEnum[E fmt.Stringer](text []byte, dst *E, values ...E) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for _, v := range values {
		if v.String() == s {
			*dst = v

			return nil
		}
	}

	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}

	return fmt.Errorf("invalid value %q, expected one of: %s", text, strings.Join(names, ", "))
}
