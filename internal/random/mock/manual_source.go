package mockrandom

import (
	"fmt"
	"sync"
)

// ManualMockSource implements random.Source for testing with
// predetermined results
type ManualMockSource struct {
	mu        sync.Mutex
	values    []int
	valueIdx  int
	choices   []int
	choiceIdx int
}

// NewManualMockSource creates a new mock random source
func NewManualMockSource() *ManualMockSource {
	return &ManualMockSource{}
}

// SetValues sets the results returned by successive IntRange calls
func (m *ManualMockSource) SetValues(values []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = values
	m.valueIdx = 0
}

// SetChoices sets the indices returned by successive WeightedChoice calls
func (m *ManualMockSource) SetChoices(choices []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.choices = choices
	m.choiceIdx = 0
}

// IntRange returns the next predetermined value, clamped to [min, max].
// Panics when the queue is exhausted so tests fail loudly.
func (m *ManualMockSource) IntRange(min, max int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valueIdx >= len(m.values) {
		panic(fmt.Sprintf("no more predetermined values available (used %d of %d)", m.valueIdx, len(m.values)))
	}

	v := m.values[m.valueIdx]
	m.valueIdx++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// WeightedChoice returns the next predetermined choice index
func (m *ManualMockSource) WeightedChoice(weights []uint32) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.choiceIdx >= len(m.choices) {
		panic(fmt.Sprintf("no more predetermined choices available (used %d of %d)", m.choiceIdx, len(m.choices)))
	}

	c := m.choices[m.choiceIdx]
	m.choiceIdx++
	if c >= len(weights) {
		return len(weights) - 1
	}
	return c
}
