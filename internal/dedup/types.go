package dedup

// Record is one entity row loaded for a deduplication run. The loader fills
// ID and DisplayText; Canonicalize derives Key and, for Person records, Name.
// Records are read-only once clustering starts.
type Record struct {
	ID          int64
	DisplayText string
	Key         string
	Name        NameParts
}

// NameParts holds the structural decomposition of a person name, derived from
// the canonical key.
type NameParts struct {
	First    string
	Last     string
	Initials string
}

// Group is one accepted duplicate cluster: the surviving primary plus the
// records slated to be merged into it. DuplicateIDs never contains PrimaryID
// and no id appears in more than one group per run.
type Group struct {
	PrimaryID    int64
	PrimaryText  string
	DuplicateIDs []int64
	Confidence   float64
	// Pattern is the variant classification of the weakest (primary, duplicate)
	// pair, the one whose confidence set the group confidence.
	Pattern Pattern
	// Edges is the number of similarity edges that linked this cluster.
	Edges int
}

// MergeStats reports the outcome of one committed merge transaction.
// RowsUpdated counts rows touched per referencing table, including junction
// rows collapsed because they became identical after rewriting.
type MergeStats struct {
	PrimaryID   int64
	MergedIDs   []int64
	RowsUpdated map[string]int64
}

// GroupFailure records a group whose merge failed. The run continues past it.
type GroupFailure struct {
	Group Group
	Err   error
}

// Result aggregates everything a deduplication run produced. Merges is empty
// unless merges were executed.
type Result struct {
	RunID                string
	Kind                 Kind
	TotalConsidered      int
	Groups               []Group
	Merges               []MergeStats
	SkippedLowConfidence int
	FailedGroups         []GroupFailure
}
