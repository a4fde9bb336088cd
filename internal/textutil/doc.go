// Package textutil provides string comparison primitives for entity matching.
//
// The primary use cases are:
//   - Jaro-Winkler similarity between canonical entity keys
//   - Levenshtein edit distance for typo detection
//   - Length ratios and phonetic (Soundex) comparison for variant
//     classification
//
// All functions operate on plain strings; callers are expected to pass
// canonical keys rather than raw display text so that case and punctuation
// differences do not skew the metrics.
package textutil
