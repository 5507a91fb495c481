package mocks

import (
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// FloatResults is a queue of results to return from Float64
	FloatResults []float64
	floatIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// DefaultFloat is returned by Float64 once the queue is drained
	DefaultFloat float64
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining.
// Queued values are clamped into [0, n).
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) || n <= 0 {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	if result >= n {
		result = n - 1
	}
	if result < 0 {
		result = 0
	}
	return result
}

// Float64 returns the next queued result, or DefaultFloat if none remaining
func (r *MockRandom) Float64() float64 {
	if r.floatIndex >= len(r.FloatResults) {
		return r.DefaultFloat
	}
	result := r.FloatResults[r.floatIndex]
	r.floatIndex++
	return result
}

// Shuffle leaves the order unchanged
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueFloat adds values to the Float64 result queue
func (r *MockRandom) QueueFloat(values ...float64) {
	r.FloatResults = append(r.FloatResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.FloatResults = nil
	r.floatIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
}
