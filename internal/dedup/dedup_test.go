package dedup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"folio/internal/dedup"
)

type fakeLoader struct {
	records []dedup.Record
	err     error
}

func (f *fakeLoader) Entities(ctx context.Context, kind dedup.Kind) ([]dedup.Record, error) {
	return f.records, f.err
}

type fakeMerger struct {
	calls  [][]int64
	failOn map[int64]error
}

func (f *fakeMerger) Merge(ctx context.Context, kind dedup.Kind, primaryID int64, duplicateIDs []int64) (*dedup.MergeStats, error) {
	f.calls = append(f.calls, append([]int64{primaryID}, duplicateIDs...))
	if err, ok := f.failOn[primaryID]; ok {
		return nil, err
	}
	return &dedup.MergeStats{
		PrimaryID:   primaryID,
		MergedIDs:   duplicateIDs,
		RowsUpdated: map[string]int64{"book_authors": int64(len(duplicateIDs))},
	}, nil
}

func loaderFor(t *testing.T, kind dedup.Kind, names map[int64]string) *fakeLoader {
	t.Helper()
	records := make([]dedup.Record, 0, len(names))
	for id, name := range names {
		records = append(records, dedup.Record{ID: id, DisplayText: name})
	}
	return &fakeLoader{records: records}
}

func newEngine(t *testing.T, loader dedup.Loader, merger dedup.Merger) *dedup.Engine {
	t.Helper()
	engine, err := dedup.NewEngine(loader, merger, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestRunClustersKingVariants(t *testing.T) {
	loader := loaderFor(t, dedup.KindPerson, map[int64]string{
		1: "Stephen King",
		2: "Stephen Edwin King",
		3: "King, Stephen",
	})
	engine := newEngine(t, loader, nil)

	opts := dedup.DefaultOptions(dedup.KindPerson)
	opts.MinConfidence = 0.85
	result, err := engine.Run(context.Background(), dedup.KindPerson, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalConsidered != 3 {
		t.Fatalf("TotalConsidered = %d, want 3", result.TotalConsidered)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("groups = %+v, want exactly one", result.Groups)
	}
	group := result.Groups[0]
	// Longest display text wins the primary slot.
	if group.PrimaryID != 2 {
		t.Fatalf("primary = %d, want 2 (%q)", group.PrimaryID, group.PrimaryText)
	}
	if len(group.DuplicateIDs) != 2 || group.DuplicateIDs[0] != 1 || group.DuplicateIDs[1] != 3 {
		t.Fatalf("duplicates = %v, want [1 3]", group.DuplicateIDs)
	}
	if group.Confidence < 0.85 {
		t.Fatalf("confidence = %v, want at least 0.85", group.Confidence)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestRunDryRunNeverMerges(t *testing.T) {
	loader := loaderFor(t, dedup.KindTag, map[int64]string{
		1: "science fiction",
		2: "science-fiction",
	})
	merger := &fakeMerger{}
	engine := newEngine(t, loader, merger)

	opts := dedup.DefaultOptions(dedup.KindTag)
	opts.AutoMerge = true // DryRun stays true: advisory only
	result, err := engine.Run(context.Background(), dedup.KindTag, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("groups = %+v, want one", result.Groups)
	}
	if len(merger.calls) != 0 {
		t.Fatalf("dry run invoked the merger: %v", merger.calls)
	}
	if len(result.Merges) != 0 {
		t.Fatalf("dry run reported merges: %+v", result.Merges)
	}
}

func TestRunAutoMergeInvokesMerger(t *testing.T) {
	loader := loaderFor(t, dedup.KindTag, map[int64]string{
		1: "science fiction",
		2: "science-fiction",
	})
	merger := &fakeMerger{}
	engine := newEngine(t, loader, merger)

	opts := dedup.DefaultOptions(dedup.KindTag)
	opts.AutoMerge = true
	opts.DryRun = false
	result, err := engine.Run(context.Background(), dedup.KindTag, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(merger.calls) != 1 {
		t.Fatalf("merger calls = %v, want one", merger.calls)
	}
	if len(result.Merges) != 1 || result.Merges[0].PrimaryID != result.Groups[0].PrimaryID {
		t.Fatalf("merge stats = %+v", result.Merges)
	}
}

func TestRunIsolatesGroupFailures(t *testing.T) {
	loader := loaderFor(t, dedup.KindPublisher, map[int64]string{
		1: "Penguin Books",
		2: "Penguin Boooks",
		3: "Oxford University Press",
		4: "Oxford Univerity Press",
	})
	// Fail the Oxford group (primary id 3); the Penguin group proceeds.
	merger := &fakeMerger{failOn: map[int64]error{
		3: dedup.Wrap(dedup.ErrNotFound, "merge", "publisher id 4 no longer exists", nil),
	}}
	engine := newEngine(t, loader, merger)

	opts := dedup.DefaultOptions(dedup.KindPublisher)
	opts.AutoMerge = true
	opts.DryRun = false
	result, err := engine.Run(context.Background(), dedup.KindPublisher, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("groups = %+v, want two", result.Groups)
	}
	if len(result.FailedGroups) != 1 {
		t.Fatalf("failed groups = %+v, want one", result.FailedGroups)
	}
	if !errors.Is(result.FailedGroups[0].Err, dedup.ErrNotFound) {
		t.Fatalf("failure should carry ErrNotFound, got %v", result.FailedGroups[0].Err)
	}
	if len(result.Merges) != 1 {
		t.Fatalf("merges = %+v, want the surviving group", result.Merges)
	}
}

func TestRunAbortsOnDataIntegrity(t *testing.T) {
	loader := loaderFor(t, dedup.KindSeries, map[int64]string{
		1: "The Dark Tower",
		2: "Dark Tower",
		3: "Discworld",
		4: "Diskworld",
	})
	merger := &fakeMerger{failOn: map[int64]error{
		1: dedup.Wrap(dedup.ErrDataIntegrity, "merge", "deleted row count mismatch", nil),
		3: dedup.Wrap(dedup.ErrDataIntegrity, "merge", "deleted row count mismatch", nil),
	}}
	engine := newEngine(t, loader, merger)

	opts := dedup.DefaultOptions(dedup.KindSeries)
	opts.MinConfidence = 0.80
	opts.AutoMerge = true
	opts.DryRun = false
	_, err := engine.Run(context.Background(), dedup.KindSeries, opts)
	if !errors.Is(err, dedup.ErrDataIntegrity) {
		t.Fatalf("expected data integrity abort, got %v", err)
	}
}

func TestRunSkipsBlankAndCountsLowConfidence(t *testing.T) {
	loader := &fakeLoader{records: []dedup.Record{
		{ID: 1, DisplayText: "Gollancz"},
		{ID: 2, DisplayText: "Gollancz Press Limited"},
		{ID: 3, DisplayText: "   "},
	}}
	engine := newEngine(t, loader, nil)

	opts := dedup.DefaultOptions(dedup.KindPublisher)
	opts.Threshold = 0.70
	opts.MinConfidence = 0.99
	result, err := engine.Run(context.Background(), dedup.KindPublisher, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalConsidered != 2 {
		t.Fatalf("TotalConsidered = %d, want blank record excluded", result.TotalConsidered)
	}
	if len(result.Groups) != 0 {
		t.Fatalf("groups = %+v, want none at 0.99 floor", result.Groups)
	}
	if result.SkippedLowConfidence != 1 {
		t.Fatalf("SkippedLowConfidence = %d, want 1", result.SkippedLowConfidence)
	}
}

func TestRunMinFrequencyFiltersSinglePairClusters(t *testing.T) {
	loader := loaderFor(t, dedup.KindPerson, map[int64]string{
		1: "Anna Kavan",
		2: "Anna Kavann",
	})
	engine := newEngine(t, loader, nil)

	opts := dedup.DefaultOptions(dedup.KindPerson)
	opts.MinFrequency = 2
	result, err := engine.Run(context.Background(), dedup.KindPerson, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Groups) != 0 {
		t.Fatalf("single-edge cluster survived min frequency 2: %+v", result.Groups)
	}
	if result.SkippedLowConfidence != 0 {
		t.Fatal("frequency filtering must not count as low confidence")
	}
}

func TestRunValidatesOptions(t *testing.T) {
	engine := newEngine(t, &fakeLoader{}, nil)
	bad := []dedup.Options{
		{MinConfidence: -0.1, Threshold: 0.85},
		{MinConfidence: 1.5, Threshold: 0.85},
		{MinConfidence: 0.9, MinFrequency: -1, Threshold: 0.85},
		{MinConfidence: 0.9, Threshold: 2},
	}
	for i, opts := range bad {
		if _, err := engine.Run(context.Background(), dedup.KindTag, opts); !errors.Is(err, dedup.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
	if _, err := engine.Run(context.Background(), dedup.Kind("shelf"), dedup.DefaultOptions(dedup.KindTag)); !errors.Is(err, dedup.ErrValidation) {
		t.Errorf("invalid kind should fail validation, got %v", err)
	}
}

func TestRunRequiresMergerForAutoMerge(t *testing.T) {
	engine := newEngine(t, &fakeLoader{}, nil)
	opts := dedup.DefaultOptions(dedup.KindTag)
	opts.AutoMerge = true
	opts.DryRun = false
	if _, err := engine.Run(context.Background(), dedup.KindTag, opts); !errors.Is(err, dedup.ErrValidation) {
		t.Fatalf("expected validation error without a merger, got %v", err)
	}
}

func TestRunPropagatesLoaderErrors(t *testing.T) {
	loadErr := fmt.Errorf("disk on fire")
	engine := newEngine(t, &fakeLoader{err: loadErr}, nil)
	if _, err := engine.Run(context.Background(), dedup.KindPerson, dedup.DefaultOptions(dedup.KindPerson)); !errors.Is(err, loadErr) {
		t.Fatalf("expected wrapped loader error, got %v", err)
	}
}
