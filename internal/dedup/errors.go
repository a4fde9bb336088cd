package dedup

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying deduplication and merge failures. Callers use
// errors.Is against these to decide whether a failure is isolated to one group
// or poisons the whole run.
var (
	// ErrValidation marks malformed configuration or arguments. Reported
	// before a run starts.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an entity id that no longer exists at merge time.
	// Fails the specific group; the run continues.
	ErrNotFound = errors.New("not found")
	// ErrTransaction marks an underlying storage write or commit failure.
	// The affected group's transaction is rolled back; the run continues.
	ErrTransaction = errors.New("transaction error")
	// ErrDataIntegrity marks an invalid internal state such as a NaN
	// confidence. Treated as a programming defect: the run aborts.
	ErrDataIntegrity = errors.New("data integrity error")
)

// Wrap builds an error tagged with one of the sentinel markers above so the
// orchestrator can classify it later. Operation and message provide context;
// err, when non-nil, becomes the wrapped cause.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrTransaction
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "dedup failure"
	}
	return strings.Join(parts, ": ")
}

// Fatal reports whether an error must abort the whole run rather than being
// collected as a per-group failure.
func Fatal(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}
