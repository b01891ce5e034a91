// Package match provides identifier normalization, Levenshtein similarity,
// reflect-based type compatibility scoring and candidate ranking used to
// suggest the intended name when a selector or setting key does not resolve.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores how a value type fits a declared type
//   - RankCandidates: ranks struct members against a mistyped name
//   - Suggest: picks the closest known name above SuggestionThreshold
package match
