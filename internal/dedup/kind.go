package dedup

import "fmt"

// Kind identifies which catalog entity table a deduplication run operates on.
type Kind string

const (
	KindPerson    Kind = "person"
	KindPublisher Kind = "publisher"
	KindSeries    Kind = "series"
	KindTag       Kind = "tag"
)

// Kinds returns every deduplicatable entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindPerson, KindPublisher, KindSeries, KindTag}
}

// Valid reports whether the kind is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPerson, KindPublisher, KindSeries, KindTag:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(value string) (Kind, error) {
	k := Kind(value)
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind %q (expected person, publisher, series, or tag)", value)
	}
	return k, nil
}
