package random

import (
	"math/rand"
)

// seededSource implements Source on top of math/rand
type seededSource struct {
	rng *rand.Rand
}

// NewSeeded creates a Source seeded with the given value. Two sources
// built from the same seed produce identical sequences.
func NewSeeded(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// IntRange implements Source.IntRange
func (s *seededSource) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// WeightedChoice implements Source.WeightedChoice
func (s *seededSource) WeightedChoice(weights []uint32) int {
	var total uint64
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		return -1
	}

	roll := uint64(s.rng.Int63n(int64(total)))
	for i, w := range weights {
		if roll < uint64(w) {
			return i
		}
		roll -= uint64(w)
	}
	return len(weights) - 1
}
