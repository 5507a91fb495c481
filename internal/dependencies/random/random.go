package random

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Float64 returns a random float in [0, 1)
	Float64() float64

	// Shuffle randomly permutes n elements using swap
	Shuffle(n int, swap func(i, j int))

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// FastRandom implements Random on top of frand
type FastRandom struct {
	// rng is nil for the shared, goroutine-safe global generator
	rng *frand.RNG
}

// New creates a FastRandom backed by the global generator.
// Safe for concurrent use.
func New() *FastRandom {
	return &FastRandom{}
}

// NewSeeded creates a deterministic FastRandom. Not safe for concurrent use;
// give each goroutine its own.
func NewSeeded(seed uint64) *FastRandom {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return &FastRandom{rng: frand.NewCustom(key[:], 1024, 12)}
}

// Intn returns a random int in [0, n), or 0 when n <= 0
func (r *FastRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if r.rng != nil {
		return r.rng.Intn(n)
	}
	return frand.Intn(n)
}

// Float64 returns a random float in [0, 1)
func (r *FastRandom) Float64() float64 {
	if r.rng != nil {
		return r.rng.Float64()
	}
	return frand.Float64()
}

// Shuffle randomly permutes n elements using swap
func (r *FastRandom) Shuffle(n int, swap func(i, j int)) {
	if r.rng != nil {
		r.rng.Shuffle(n, swap)
		return
	}
	frand.Shuffle(n, swap)
}

// String generates a random string of the given length from the given alphabet
func (r *FastRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}
