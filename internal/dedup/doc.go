// Package dedup detects and resolves duplicate catalog entities: people,
// publishers, series, and tags whose stored names denote the same real-world
// thing despite textual variation.
//
// A run flows through fixed stages: the loader supplies raw rows, the
// canonicalizer derives comparison keys, union-find clustering groups keys
// whose Jaro-Winkler similarity clears a threshold, each (primary, duplicate)
// pair is classified into a variant pattern and scored, and accepted groups
// are handed to the merge engine one transaction at a time. Clustering and
// scoring are pure and read-only; only the Merger mutates the store.
//
// Confidence scoring is deliberately heuristic and explainable rather than
// learned, and a cluster's confidence is the minimum over its pairs so a
// loosely attached chain member cannot inflate the whole group.
//
// Runs default to dry-run: callers must explicitly disable DryRun and enable
// AutoMerge before anything is written.
package dedup
