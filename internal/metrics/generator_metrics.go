package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Generation outcomes used as metric labels.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidGame      = "invalid_game"
	OutcomeInvalidCount     = "invalid_count"
	OutcomeInsufficientPool = "insufficient_pool"
	OutcomeCanceled         = "canceled"
	OutcomeError            = "error"
)

// GeneratorMetrics tracks generation activity in process and mirrors it to
// Prometheus when collectors are attached.
type GeneratorMetrics struct {
	Latency *Histogram

	Requests     atomic.Uint64
	Failures     atomic.Uint64
	Combinations atomic.Uint64

	mu     sync.Mutex
	byGame map[string]uint64

	prom      *Collectors
	startTime time.Time
}

// NewGeneratorMetrics creates a collector. prom may be nil.
func NewGeneratorMetrics(prom *Collectors) *GeneratorMetrics {
	return &GeneratorMetrics{
		Latency:   NewHistogram(10000),
		byGame:    make(map[string]uint64),
		prom:      prom,
		startTime: time.Now(),
	}
}

// Prometheus returns the attached collectors, or nil.
func (m *GeneratorMetrics) Prometheus() *Collectors {
	return m.prom
}

// RecordGeneration records one request and its outcome.
func (m *GeneratorMetrics) RecordGeneration(game, outcome string, combos int, d time.Duration) {
	m.Requests.Add(1)
	if outcome == OutcomeOK {
		m.Latency.Record(d)
		m.Combinations.Add(uint64(combos))
		m.mu.Lock()
		m.byGame[game]++
		m.mu.Unlock()
	} else {
		m.Failures.Add(1)
	}
	if m.prom != nil {
		m.prom.ObserveGeneration(game, outcome, combos, d)
	}
}

// RecordLogin records a login attempt outcome.
func (m *GeneratorMetrics) RecordLogin(outcome string) {
	if m.prom != nil {
		m.prom.ObserveLogin(outcome)
	}
}

// Stats is a snapshot of generator activity.
type Stats struct {
	Uptime       string            `json:"uptime"`
	Requests     uint64            `json:"requests"`
	Failures     uint64            `json:"failures"`
	Combinations uint64            `json:"combinations"`
	ByGame       map[string]uint64 `json:"byGame"`
	LatencyMs    Summary           `json:"latencyMs"`
}

// Snapshot returns the current statistics.
func (m *GeneratorMetrics) Snapshot() Stats {
	m.mu.Lock()
	byGame := make(map[string]uint64, len(m.byGame))
	for k, v := range m.byGame {
		byGame[k] = v
	}
	m.mu.Unlock()

	return Stats{
		Uptime:       time.Since(m.startTime).Round(time.Second).String(),
		Requests:     m.Requests.Load(),
		Failures:     m.Failures.Load(),
		Combinations: m.Combinations.Load(),
		ByGame:       byGame,
		LatencyMs:    m.Latency.Summarize(),
	}
}
