package dedup

// Reporter surfaces run progress without coupling the core to any UI. The
// orchestrator calls it from a single goroutine; implementations do not need
// to be safe for concurrent use.
type Reporter interface {
	Status(message string)
	Progress(current, total int)
	Error(message string)
}

// NopReporter discards all reports. Used when the engine runs as a library or
// under test.
type NopReporter struct{}

func (NopReporter) Status(string) {}

func (NopReporter) Progress(int, int) {}

func (NopReporter) Error(string) {}
