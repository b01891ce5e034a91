package match

import (
	"reflect"
	"testing"
)

func TestRankCandidates(t *testing.T) {
	known := []Named{
		{Name: "CustomerName", Type: reflect.TypeFor[string]()},
		{Name: "CustomerID", Type: reflect.TypeFor[int64]()},
		{Name: "customer_id", Type: reflect.TypeFor[string]()},
		{Name: "Total", Type: reflect.TypeFor[float64]()},
	}

	candidates := RankCandidates("CustomerId", reflect.TypeFor[int64](), known)

	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(candidates))
	}

	if candidates[0].Name != "CustomerID" {
		t.Errorf("expected best match CustomerID, got %s", candidates[0].Name)
	}

	if candidates[1].Name != "customer_id" {
		t.Errorf("expected second match customer_id, got %s", candidates[1].Name)
	}

	if candidates[0].TypeCompat != TypeIdentical {
		t.Errorf("expected CustomerID to be identical in type, got %d", candidates[0].TypeCompat)
	}

	if candidates[0].CombinedScore < 0.99 {
		t.Errorf("expected a near perfect score, got %f", candidates[0].CombinedScore)
	}
}

func TestRankCandidates_Determinism(t *testing.T) {
	known := []Named{{Name: "ValueB"}, {Name: "ValueA"}, {Name: "ValueC"}}

	first := RankCandidates("Value", nil, known)
	if first[0].Name != "ValueA" {
		t.Errorf("ties should be broken by name, got %s", first[0].Name)
	}

	for i := range 10 {
		next := RankCandidates("Value", nil, known)
		for j := range first {
			if first[j].Name != next[j].Name {
				t.Errorf("run %d: position %d has %s, expected %s", i, j, next[j].Name, first[j].Name)
			}
		}
	}
}

func TestSuggest(t *testing.T) {
	known := []string{"max.depth", "mode", "string.min.length", "string.max.length"}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"max.dept", "max.depth", true},
		{"string.min.lenght", "string.min.length", true},
		{"maxDepth", "max.depth", true},
		{"totally.different", "", false},
		{"mode", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.name, known)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Suggest(%q) = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCandidateList(t *testing.T) {
	candidates := CandidateList{
		{Name: "A", NameScore: 0.9, CombinedScore: 0.9},
		{Name: "B", NameScore: 0.85, CombinedScore: 0.85},
		{Name: "C", NameScore: 0.5, CombinedScore: 0.5},
	}

	if got := len(candidates.AboveThreshold(SuggestionThreshold)); got != 2 {
		t.Errorf("expected 2 candidates above threshold, got %d", got)
	}

	if (CandidateList{}).Best() != nil {
		t.Error("empty list has no best candidate")
	}
}

func TestCalculateCombinedScore(t *testing.T) {
	tests := []struct {
		nameScore  float64
		typed      bool
		typeCompat TypeCompatibility
		min, max   float64
	}{
		{1.0, true, TypeIdentical, 0.99, 1.01},
		{1.0, true, TypeNeedsTransform, 0.7, 0.8},
		{0.0, true, TypeIdentical, 0.35, 0.45},
		{0.0, true, TypeIncompatible, -0.01, 0.01},
		{0.8, false, TypeIncompatible, 0.79, 0.81},
	}

	for i, tt := range tests {
		score := calculateCombinedScore(tt.nameScore, tt.typed, tt.typeCompat)
		if score < tt.min || score > tt.max {
			t.Errorf("test %d: calculateCombinedScore = %f, want in [%f, %f]", i, score, tt.min, tt.max)
		}
	}
}
