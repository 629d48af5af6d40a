package lottery

import (
	"math/rand/v2"
	"sync"
)

// RandomSource supplies uniform integers in [0, n).
//
// Generation is an entertainment utility, so sources are not required to be
// cryptographically strong.
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process wide math/rand/v2 generator.
func DefaultSource() RandomSource {
	return globalSource{}
}

// seededSource is a reproducible PCG generator. rand.Rand is not safe for
// concurrent use so calls are serialized.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
