package lottery

import (
	"fmt"
	"sort"
	"time"
)

// DefaultMaxCombinations bounds a single generation request.
const DefaultMaxCombinations = 100

// Combination is one generated play.
type Combination struct {
	Primary     []int     `json:"primary"`
	Secondary   *int      `json:"secondary,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Sampler draws combinations from a viable pool.
type Sampler struct {
	rng      RandomSource
	now      func() time.Time
	maxCount int
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithRandomSource replaces the default random source.
func WithRandomSource(src RandomSource) SamplerOption {
	return func(s *Sampler) {
		if src != nil {
			s.rng = src
		}
	}
}

// WithClock replaces time.Now for GeneratedAt stamps.
func WithClock(now func() time.Time) SamplerOption {
	return func(s *Sampler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxCombinations sets the upper bound of a request. Values below 1 are ignored.
func WithMaxCombinations(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.maxCount = n
		}
	}
}

// NewSampler creates a Sampler backed by the default random source.
func NewSampler(opts ...SamplerOption) *Sampler {
	s := &Sampler{
		rng:      DefaultSource(),
		now:      time.Now,
		maxCount: DefaultMaxCombinations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxCombinations returns the largest accepted request count.
func (s *Sampler) MaxCombinations() int {
	return s.maxCount
}

// CheckCount validates a request count. Out of range counts are rejected, never clamped.
func (s *Sampler) CheckCount(n int) error {
	if n < 1 || n > s.maxCount {
		return fmt.Errorf("%w: %d not in 1-%d", ErrInvalidRequestCount, n, s.maxCount)
	}
	return nil
}

// CheckPool verifies that pool can satisfy the game's pick rules.
func CheckPool(g Game, pool ViablePool) error {
	if avail := distinctCount(pool.Primary); avail < g.PickCount {
		return fmt.Errorf("%w: %s needs %d primary numbers, %d viable", ErrInsufficientPool, g.ID, g.PickCount, avail)
	}
	if g.HasSecondary() && len(pool.Secondary) == 0 {
		return fmt.Errorf("%w: %s has no viable %s numbers", ErrInsufficientPool, g.ID, secondaryLabel(g))
	}
	return nil
}

// Sample returns n independent combinations for g drawn from pool.
// Nothing is drawn unless every precondition holds.
func (s *Sampler) Sample(g Game, pool ViablePool, n int) ([]Combination, error) {
	if err := s.CheckCount(n); err != nil {
		return nil, err
	}
	if err := CheckPool(g, pool); err != nil {
		return nil, err
	}

	out := make([]Combination, n)
	for i := range out {
		out[i] = s.draw(g, pool)
	}
	return out, nil
}

func (s *Sampler) draw(g Game, pool ViablePool) Combination {
	chosen := make(map[int]struct{}, g.PickCount)
	primary := make([]int, 0, g.PickCount)
	for len(primary) < g.PickCount {
		v := pool.Primary[s.rng.IntN(len(pool.Primary))]
		if _, dup := chosen[v]; dup {
			continue
		}
		chosen[v] = struct{}{}
		primary = append(primary, v)
	}
	sort.Ints(primary)

	c := Combination{Primary: primary, GeneratedAt: s.now()}
	if g.HasSecondary() {
		v := pool.Secondary[s.rng.IntN(len(pool.Secondary))]
		c.Secondary = &v
	}
	return c
}

func secondaryLabel(g Game) string {
	if g.SecondaryName != "" {
		return g.SecondaryName
	}
	return "secondary"
}
