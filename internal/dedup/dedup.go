package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"folio/internal/logging"
)

// Options configures one deduplication run. Dry-run-by-default is a safety
// invariant: mutations require both AutoMerge true and DryRun false.
type Options struct {
	// MinConfidence is the minimum cluster confidence eligible for merging.
	MinConfidence float64
	// MinFrequency is the minimum number of similarity edges a cluster needs;
	// it filters single-pair coincidental matches in ambiguous name spaces.
	MinFrequency int
	// AutoMerge submits accepted groups to the merge engine.
	AutoMerge bool
	// DryRun reports without mutating, regardless of AutoMerge.
	DryRun bool
	// Threshold is the similarity at which two keys are considered linked.
	Threshold float64
}

// DefaultOptions returns the documented defaults for a kind. Person and
// series names collide more readily than publisher or tag names, so their
// confidence floors are higher.
func DefaultOptions(kind Kind) Options {
	minConfidence := 0.85
	switch kind {
	case KindPerson, KindSeries:
		minConfidence = 0.90
	}
	return Options{
		MinConfidence: minConfidence,
		MinFrequency:  1,
		AutoMerge:     false,
		DryRun:        true,
		Threshold:     DefaultThreshold,
	}
}

func (o Options) validate() error {
	if o.MinConfidence < 0 || o.MinConfidence > 1 {
		return Wrap(ErrValidation, "options", fmt.Sprintf("min confidence %v outside [0, 1]", o.MinConfidence), nil)
	}
	if o.MinFrequency < 0 {
		return Wrap(ErrValidation, "options", fmt.Sprintf("min frequency %d is negative", o.MinFrequency), nil)
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return Wrap(ErrValidation, "options", fmt.Sprintf("threshold %v outside [0, 1]", o.Threshold), nil)
	}
	return nil
}

// Loader fetches current entity rows for a kind from the catalog store.
// Returned records carry stable ids and raw display text; canonicalization
// happens inside the engine.
type Loader interface {
	Entities(ctx context.Context, kind Kind) ([]Record, error)
}

// Merger atomically merges one duplicate group. Implementations rewrite every
// reference to the duplicate ids, delete the duplicate rows, and either
// commit everything or nothing.
type Merger interface {
	Merge(ctx context.Context, kind Kind, primaryID int64, duplicateIDs []int64) (*MergeStats, error)
}

// Engine orchestrates a deduplication run: load, canonicalize, cluster,
// score, and optionally merge. Clustering and scoring are pure and read-only;
// the Merger is the only component that mutates persisted state.
type Engine struct {
	loader   Loader
	merger   Merger
	reporter Reporter
	logger   *slog.Logger
}

// NewEngine constructs an engine. The merger may be nil for advisory-only
// use; Run then rejects AutoMerge. A nil reporter or logger falls back to
// no-op implementations.
func NewEngine(loader Loader, merger Merger, reporter Reporter, logger *slog.Logger) (*Engine, error) {
	if loader == nil {
		return nil, Wrap(ErrValidation, "engine", "loader is required", nil)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		loader:   loader,
		merger:   merger,
		reporter: reporter,
		logger:   logging.NewComponentLogger(logger, "dedup"),
	}, nil
}

// Run executes one deduplication pass over a single entity kind.
//
// Per-group merge failures are isolated: they land in Result.FailedGroups and
// the remaining groups proceed, because clusters are independent units of
// work. Data-integrity defects abort the whole run instead; continuing past
// one would risk corrupting the catalog.
func (e *Engine) Run(ctx context.Context, kind Kind, opts Options) (*Result, error) {
	if !kind.Valid() {
		return nil, Wrap(ErrValidation, "run", fmt.Sprintf("invalid entity kind %q", kind), nil)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.AutoMerge && !opts.DryRun && e.merger == nil {
		return nil, Wrap(ErrValidation, "run", "auto merge requested but no merger configured", nil)
	}

	runID := uuid.NewString()
	log := e.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldKind, kind.String()),
	)

	raw, err := e.loader.Entities(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s entities: %w", kind, err)
	}

	records := make([]Record, 0, len(raw))
	for _, rec := range raw {
		canon, ok := Canonicalize(kind, rec.ID, rec.DisplayText)
		if !ok {
			log.Warn("skipping entity with blank display text", logging.Int64("entity_id", rec.ID))
			continue
		}
		records = append(records, canon)
	}

	e.reporter.Status(fmt.Sprintf("scanning %d %s records for duplicates", len(records), kind))
	clusters := BuildClusters(records, opts.Threshold)

	result := &Result{RunID: runID, Kind: kind, TotalConsidered: len(records)}
	for _, cluster := range clusters {
		group, confident, err := e.evaluate(cluster, opts)
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}
		if !confident {
			result.SkippedLowConfidence++
			log.Debug("cluster below confidence floor",
				logging.Int64("primary_id", group.PrimaryID),
				logging.Float64("confidence", group.Confidence))
			continue
		}
		result.Groups = append(result.Groups, *group)
	}

	log.Info("clustering complete",
		logging.Int("considered", result.TotalConsidered),
		logging.Int("groups", len(result.Groups)),
		logging.Int("skipped_low_confidence", result.SkippedLowConfidence))

	if !opts.AutoMerge || opts.DryRun {
		return result, nil
	}
	return result, e.mergeGroups(ctx, kind, result, log)
}

// evaluate scores one cluster and shapes it into a group. Returns a nil group
// when the cluster fails the frequency filter; confident is false when the
// group exists but sits below the confidence floor.
func (e *Engine) evaluate(cluster Cluster, opts Options) (*Group, bool, error) {
	if cluster.Edges < opts.MinFrequency {
		return nil, false, nil
	}

	primary := selectPrimary(cluster.Members)
	confidence := 1.0
	pattern := PatternOther
	duplicateIDs := make([]int64, 0, len(cluster.Members)-1)
	for _, member := range cluster.Members {
		if member.ID == primary.ID {
			continue
		}
		score, err := ScorePair(primary, member)
		if err != nil {
			return nil, false, err
		}
		// Weakest-link policy: the cluster is only as trustworthy as its
		// least convincing pair.
		if score.Confidence <= confidence {
			confidence = score.Confidence
			pattern = score.Pattern
		}
		duplicateIDs = append(duplicateIDs, member.ID)
	}
	sort.Slice(duplicateIDs, func(i, j int) bool { return duplicateIDs[i] < duplicateIDs[j] })

	for _, id := range duplicateIDs {
		if id == primary.ID {
			return nil, false, Wrap(ErrDataIntegrity, "evaluate",
				fmt.Sprintf("primary id %d appears in its own duplicate set", id), nil)
		}
	}

	group := &Group{
		PrimaryID:    primary.ID,
		PrimaryText:  primary.DisplayText,
		DuplicateIDs: duplicateIDs,
		Confidence:   confidence,
		Pattern:      pattern,
		Edges:        cluster.Edges,
	}
	return group, confidence >= opts.MinConfidence, nil
}

func (e *Engine) mergeGroups(ctx context.Context, kind Kind, result *Result, log *slog.Logger) error {
	total := len(result.Groups)
	for i, group := range result.Groups {
		e.reporter.Progress(i+1, total)
		stats, err := e.merger.Merge(ctx, kind, group.PrimaryID, group.DuplicateIDs)
		if err != nil {
			if Fatal(err) {
				return err
			}
			e.reporter.Error(fmt.Sprintf("merge into %q failed: %v", group.PrimaryText, err))
			log.Error("group merge failed",
				logging.Int64("primary_id", group.PrimaryID),
				logging.Error(err))
			result.FailedGroups = append(result.FailedGroups, GroupFailure{Group: group, Err: err})
			continue
		}
		result.Merges = append(result.Merges, *stats)
		log.Info("group merged",
			logging.Int64("primary_id", stats.PrimaryID),
			logging.Int("merged", len(stats.MergedIDs)))
	}
	e.reporter.Status(fmt.Sprintf("merged %d of %d groups", len(result.Merges), total))
	return nil
}

// selectPrimary picks the surviving record for a cluster: the most
// canonical-looking form, meaning the longest non-abbreviated display text,
// with ties broken by lowest id for determinism.
func selectPrimary(members []Record) Record {
	best := members[0]
	for _, candidate := range members[1:] {
		if betterPrimary(candidate, best) {
			best = candidate
		}
	}
	return best
}

func betterPrimary(candidate, current Record) bool {
	ca, cb := abbreviated(candidate.Key), abbreviated(current.Key)
	if ca != cb {
		return !ca
	}
	la := len([]rune(candidate.DisplayText))
	lb := len([]rune(current.DisplayText))
	if la != lb {
		return la > lb
	}
	return candidate.ID < current.ID
}
