package detection

import (
	"image"
	"math/rand"
	"time"
)

// Scorer assigns a class and confidence to a region found by geometry
// extraction. It is the seam where a real classifier replaces the
// placeholder scoring of the heuristic strategy.
//
// Implementations must return a confidence in [minConfidence, 1].
type Scorer interface {
	Score(region image.Rectangle, minConfidence float64) (class string, confidence float64)
}

// RandomScorer is the placeholder scorer. It does not look at the pixels:
// the class is drawn uniformly from a label table and the confidence
// uniformly from [minConfidence, 1].
//
// A RandomScorer is not safe for concurrent use; create one per run.
type RandomScorer struct {
	rng    *rand.Rand
	labels []string
}

// NewRandomScorer returns a placeholder scorer over labels. A seed of 0
// seeds from the clock. A nil or empty labels slice uses the fixed symbol
// vocabulary.
func NewRandomScorer(seed int64, labels []string) *RandomScorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(labels) == 0 {
		labels = SymbolClasses()
	}
	return &RandomScorer{
		rng:    rand.New(rand.NewSource(seed)),
		labels: labels,
	}
}

// Score implements Scorer.
func (s *RandomScorer) Score(_ image.Rectangle, minConfidence float64) (string, float64) {
	if minConfidence < 0 {
		minConfidence = 0
	}
	if minConfidence > 1 {
		minConfidence = 1
	}
	confidence := minConfidence + s.rng.Float64()*(1.0-minConfidence)
	class := s.labels[s.rng.Intn(len(s.labels))]
	return class, confidence
}
