package dedup

import (
	"fmt"
	"math"

	"folio/internal/textutil"
)

const (
	// abbreviationBonus rewards abbreviation pairs whose initials agree.
	abbreviationBonus = 0.05
	// distantEditBound is the edit distance beyond which a penalty applies.
	distantEditBound   = 3
	distantEditPenalty = 0.05
	// lengthRatioFloor is the shorter/longer length ratio below which the two
	// strings differ in length by more than half.
	lengthRatioFloor   = 0.5
	lengthRatioPenalty = 0.05
)

// PairScore is the scored relationship between a cluster primary and one
// duplicate candidate.
type PairScore struct {
	Similarity float64
	Pattern    Pattern
	Confidence float64
}

// ScorePair computes the confidence that two records denote the same entity.
// The base is the Jaro-Winkler similarity of the canonical keys; an
// abbreviation with matching initials earns a bonus, while large edit
// distances and strongly mismatched lengths are penalized. The result is
// clamped to [0, 1]. A NaN anywhere is a programming defect and surfaces as
// ErrDataIntegrity.
func ScorePair(a, b Record) (PairScore, error) {
	sim := textutil.Similarity(a.Key, b.Key)
	if math.IsNaN(sim) || sim < 0 || sim > 1 {
		return PairScore{}, Wrap(ErrDataIntegrity, "score",
			fmt.Sprintf("similarity %v out of range for ids %d/%d", sim, a.ID, b.ID), nil)
	}

	pattern := ClassifyPair(a, b)
	confidence := sim
	if pattern == PatternAbbreviation {
		confidence += abbreviationBonus
	}
	if textutil.EditDistance(a.Key, b.Key) > distantEditBound {
		confidence -= distantEditPenalty
	}
	if textutil.LengthRatio(a.Key, b.Key) < lengthRatioFloor {
		confidence -= lengthRatioPenalty
	}

	confidence = math.Min(1, math.Max(0, confidence))
	if math.IsNaN(confidence) {
		return PairScore{}, Wrap(ErrDataIntegrity, "score",
			fmt.Sprintf("confidence is NaN for ids %d/%d", a.ID, b.ID), nil)
	}
	return PairScore{Similarity: sim, Pattern: pattern, Confidence: confidence}, nil
}
