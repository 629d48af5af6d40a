package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Histogram keeps the most recent duration samples in a ring buffer and
// answers percentile queries over them.
type Histogram struct {
	mu      sync.RWMutex
	samples []float64 // milliseconds
	next    int
	full    bool
}

// NewHistogram creates a histogram holding up to size samples.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = 10000
	}
	return &Histogram{samples: make([]float64, size)}
}

// Record adds a sample, overwriting the oldest once the buffer is full.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples[h.next] = float64(d.Microseconds()) / 1000.0
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

// values returns a copy of the live samples. Caller holds the read lock.
func (h *Histogram) values() []float64 {
	n := h.next
	if h.full {
		n = len(h.samples)
	}
	out := make([]float64, n)
	copy(out, h.samples[:n])
	return out
}

// Count returns the number of retained samples.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return len(h.samples)
	}
	return h.next
}

// Summary is a point-in-time view of a histogram, in milliseconds.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// Summarize computes count, mean, extremes and percentiles in one pass over a sorted copy.
func (h *Histogram) Summarize() Summary {
	h.mu.RLock()
	vals := h.values()
	h.mu.RUnlock()

	if len(vals) == 0 {
		return Summary{}
	}
	sort.Float64s(vals)

	var sum float64
	for _, v := range vals {
		sum += v
	}
	return Summary{
		Count: len(vals),
		Mean:  sum / float64(len(vals)),
		Min:   vals[0],
		Max:   vals[len(vals)-1],
		P50:   percentile(vals, 50),
		P95:   percentile(vals, 95),
		P99:   percentile(vals, 99),
	}
}

// Percentile returns the p-th percentile (0-100) with linear interpolation.
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.RLock()
	vals := h.values()
	h.mu.RUnlock()

	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	return percentile(vals, p)
}

func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}
