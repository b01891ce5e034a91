package match

import (
	"reflect"
	"sort"
)

// SuggestionThreshold is the minimum name similarity for a "did you mean" hint.
const SuggestionThreshold = 0.7

// Named is a name with an optional type, such as a struct field or setter parameter.
type Named struct {
	Name string
	Type reflect.Type
}

// Candidate is a known name scored against a name that did not resolve.
type Candidate struct {
	Name string
	Type reflect.Type

	NameScore  float64           // normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibility // how the wanted type fits Type

	// CombinedScore ranks candidates (higher is better).
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known member against name. When wanted is not
// nil, type compatibility of wanted with each member's type contributes to the
// ranking. Returns candidates sorted by combined score (descending).
func RankCandidates(name string, wanted reflect.Type, known []Named) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		nameScore := max(NormalizedLevenshteinScore(name, k.Name), AccessorScore(name, k.Name))

		var compat TypeCompatibility
		if wanted != nil {
			compat = ScoreTypeCompatibility(wanted, k.Type)
		}

		candidates = append(candidates, Candidate{
			Name:          k.Name,
			Type:          k.Type,
			NameScore:     nameScore,
			TypeCompat:    compat,
			CombinedScore: calculateCombinedScore(nameScore, wanted != nil, compat),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns the known name closest to name, if it is similar enough.
func Suggest(name string, known []string) (string, bool) {
	named := make([]Named, len(known))
	for i, k := range known {
		named[i] = Named{Name: k}
	}

	best := RankCandidates(name, nil, named).Best()
	if best == nil || best.NameScore < SuggestionThreshold || best.Name == name {
		return "", false
	}

	return best.Name, true
}

// calculateCombinedScore weighs name similarity at 60% and type
// compatibility at 40%. Without a wanted type the name score is used as is.
func calculateCombinedScore(nameScore float64, typed bool, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	if !typed {
		return nameScore
	}

	var typeScore float64

	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface: by combined score descending, then by name.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Name < c[j].Name
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates whose name score reaches the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.NameScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
