package generator

import (
	"strings"
	"time"
)

// Capability is a bitmask of constraint families a spec accepts. Tag consumers
// dispatch on it instead of on concrete spec types.
type Capability int

const (
	CapabilityLength   Capability = 1 << iota // string length: LengthBounded
	CapabilitySize                            // collection and map size: SizeBounded
	CapabilityNumeric                         // numeric range, inclusive or exclusive: NumericBounded
	CapabilityTemporal                        // past, future, before, after: TemporalBounded
	CapabilityText                            // character set and case: TextConstrained

	CapabilityAll  = (1 << iota) - 1 // all capabilities combined
	CapabilityNone = 0               // no capabilities
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapabilityLength, "length"},
	{CapabilitySize, "size"},
	{CapabilityNumeric, "numeric"},
	{CapabilityTemporal, "temporal"},
	{CapabilityText, "text"},
}

// Has reports whether every capability of other is enabled in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other && other != CapabilityNone
}

func (c Capability) String() string {
	if c == CapabilityNone {
		return "none"
	}

	var names []string

	for _, n := range capabilityNames {
		if c&n.c != 0 {
			names = append(names, n.name)
		}
	}

	return strings.Join(names, "|")
}

// Supports reports whether g is a Spec declaring every capability in c.
func Supports(g Generator, c Capability) bool {
	s, ok := g.(Spec)

	return ok && s.Capabilities().Has(c)
}

// LengthBounded accepts string length limits.
type LengthBounded interface {
	ApplyMinLength(n int)
	ApplyMaxLength(n int)
}

// SizeBounded accepts collection size limits.
type SizeBounded interface {
	ApplyMinSize(n int)
	ApplyMaxSize(n int)
}

// NumericBounded accepts numeric limits. Exclusive limits are moved inward by
// the smallest step the generated kind can represent.
type NumericBounded interface {
	ApplyMin(v float64, exclusive bool)
	ApplyMax(v float64, exclusive bool)
}

// TemporalBounded accepts limits on generated instants.
type TemporalBounded interface {
	ApplyPast()
	ApplyFuture()
	ApplyAfter(t time.Time)
	ApplyBefore(t time.Time)
}

// TextConstrained accepts the character set and case of generated text.
type TextConstrained interface {
	ApplyCharset(charset string)
	ApplyUpperCase()
	ApplyLowerCase()
}
