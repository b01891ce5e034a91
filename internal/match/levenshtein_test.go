package match

import (
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "a", 0},
		{"", "abc", 3},
		{"abc", "", 3},

		{"a", "b", 1},  // substitution
		{"a", "ab", 1}, // insertion
		{"ab", "a", 1}, // deletion

		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// case-sensitive
		{"ABC", "abc", 3},

		{"maxdepth", "maxdept", 1},
		{"stringminlength", "stringmaxlength", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			if reverse := Levenshtein(tt.b, tt.a); result != reverse {
				t.Errorf("Levenshtein symmetry failed: (%q, %q) = %d, reversed = %d",
					tt.a, tt.b, result, reverse)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1.0},
		{"hello", "hello", 1.0},
		{"abc", "xyz", 0.0},
		{"kitten", "sitting", 1.0 - 3.0/7.0},
		{"abc", "ab", 1.0 - 1.0/3.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := LevenshteinNormalized(tt.a, tt.b)
			if diff := result - tt.expected; diff < -0.001 || diff > 0.001 {
				t.Errorf("LevenshteinNormalized(%q, %q) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		minScore float64
	}{
		{"OrderID", "order_id", 1.0},
		{"max.depth", "maxDepth", 1.0},
		{"strng.min.length", "string.min.length", 0.9},
		{"Email", "Password", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := NormalizedLevenshteinScore(tt.a, tt.b)
			if result < tt.minScore {
				t.Errorf("NormalizedLevenshteinScore(%q, %q) = %f, want >= %f",
					tt.a, tt.b, result, tt.minScore)
			}
		})
	}
}

func TestAccessorScore(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"GetName", "name"},
		{"SetName", "Name"},
		{"IsActive", "active"},
		{"WithValue", "value"},
	}

	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			if score := AccessorScore(tt.a, tt.b); score != 1.0 {
				t.Errorf("AccessorScore(%q, %q) = %f, want 1", tt.a, tt.b, score)
			}
		})
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	for b.Loop() {
		Levenshtein("collectionelementsnullable", "collectionnullable")
	}
}
