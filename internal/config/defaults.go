package config

const (
	defaultLibraryDir = "~/books"
	defaultLogDir     = "~/.local/share/folio/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	defaultSimilarityThreshold    = 0.85
	defaultPersonMinConfidence    = 0.90
	defaultPublisherMinConfidence = 0.85
	defaultSeriesMinConfidence    = 0.90
	defaultTagMinConfidence       = 0.85
	defaultMinFrequency           = 1
)

// Default returns a Config populated with repository defaults. Merging stays
// off until a user opts in; dry-run is the baseline behavior.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Dedup: Dedup{
			SimilarityThreshold:    defaultSimilarityThreshold,
			PersonMinConfidence:    defaultPersonMinConfidence,
			PublisherMinConfidence: defaultPublisherMinConfidence,
			SeriesMinConfidence:    defaultSeriesMinConfidence,
			TagMinConfidence:       defaultTagMinConfidence,
			MinFrequency:           defaultMinFrequency,
			AutoMerge:              false,
		},
	}
}
