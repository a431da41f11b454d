package random

//go:generate mockgen -destination=mock/mock_source.go -package=mockrandom -source=source.go

// Source provides the random operations object handlers use when
// configuring instances. Implementations must be deterministic for a
// given seed so that map generation is reproducible.
type Source interface {
	// IntRange returns a uniform random integer in [min, max] inclusive
	IntRange(min, max int) int

	// WeightedChoice returns an index into weights with probability
	// proportional to the weight at that index. Returns -1 when no
	// weight is positive.
	WeightedChoice(weights []uint32) int
}
