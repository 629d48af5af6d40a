// Package generator turns a generation request into lottery combinations:
// catalog lookup, viable pool derivation and sampling, plus the metrics and
// events around each request.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Noor7086/Obyyo-sub002/internal/events"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
)

// Preference keys consulted when a request omits a field.
const (
	PrefDefaultGame  = "generator.default_game"
	PrefDefaultCount = "generator.default_count"
)

// UnknownGameLabel is the metric label recorded for ids missing from the
// catalog, keeping label cardinality bounded by the catalog size.
const UnknownGameLabel = "unknown"

// PreferenceReader reads a user's stored preference into target.
type PreferenceReader interface {
	GetTyped(ctx context.Context, userID, key string, target interface{}) error
}

// Request asks for Count combinations of GameID.
// An empty GameID or nil Count is filled from the user's preferences, then
// from the service defaults.
type Request struct {
	GameID string
	Count  *int
	UserID string
}

// Result is one successful generation.
type Result struct {
	ID                   string                `json:"id"`
	Game                 lottery.Game          `json:"game"`
	Combinations         []lottery.Combination `json:"combinations"`
	ViablePrimaryCount   int                   `json:"viablePrimaryCount"`
	ViableSecondaryCount int                   `json:"viableSecondaryCount"`
	Duration             time.Duration         `json:"-"`
}

// Options configures a Service.
type Options struct {
	DefaultCount   int
	SimulatedDelay time.Duration

	Preferences PreferenceReader
	Dispatcher  *events.Dispatcher
	Metrics     *metrics.GeneratorMetrics
	Logger      *slog.Logger
}

// Service generates combinations against a catalog.
type Service struct {
	catalog lottery.Catalog
	sampler *lottery.Sampler
	opts    Options
	logger  *slog.Logger
}

// NewService creates a generation service. A nil sampler uses lottery defaults.
func NewService(catalog lottery.Catalog, sampler *lottery.Sampler, opts Options) *Service {
	if sampler == nil {
		sampler = lottery.NewSampler()
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		sampler: sampler,
		opts:    opts,
		logger:  logger.With("component", "generator"),
	}
}

// Catalog returns the catalog the service draws from.
func (s *Service) Catalog() lottery.Catalog {
	return s.catalog
}

// MaxCombinations returns the largest count a request may ask for.
func (s *Service) MaxCombinations() int {
	return s.sampler.MaxCombinations()
}

// Generate runs one request. Either every requested combination is returned
// or none is.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	gameID, count := s.resolve(ctx, req)

	result, err := s.generate(ctx, gameID, count)
	elapsed := time.Since(start)

	outcome := outcomeFor(err)
	combos := 0
	if result != nil {
		combos = len(result.Combinations)
	}
	if s.opts.Metrics != nil {
		label := string(gameID)
		if errors.Is(err, lottery.ErrInvalidGame) {
			label = UnknownGameLabel
		}
		s.opts.Metrics.RecordGeneration(label, outcome, combos, elapsed)
	}

	if err != nil {
		s.logger.Debug("Generation rejected", "game", gameID, "count", count, "outcome", outcome, "error", err)
		return nil, err
	}

	result.Duration = elapsed
	s.logger.Info("Generated combinations",
		"result_id", result.ID,
		"game", gameID,
		"count", count,
		"viable_primary", result.ViablePrimaryCount,
		"duration", elapsed,
	)

	if s.opts.Dispatcher != nil {
		s.opts.Dispatcher.Dispatch(events.NewTypedEvent(ctx, events.TypeGenerationCompleted, req.UserID, events.GenerationCompletedEvent{
			ResultID:      result.ID,
			GameID:        string(gameID),
			Count:         count,
			ViablePrimary: result.ViablePrimaryCount,
			DurationMs:    elapsed.Milliseconds(),
		}))
	}
	return result, nil
}

func (s *Service) generate(ctx context.Context, gameID lottery.GameID, count int) (*Result, error) {
	game, nonViable, err := s.catalog.Lookup(gameID)
	if err != nil {
		return nil, err
	}

	pool := lottery.DerivePool(game, nonViable)
	if err := s.sampler.CheckCount(count); err != nil {
		return nil, err
	}
	if err := lottery.CheckPool(game, pool); err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	combos, err := s.sampler.Sample(game, pool, count)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:                   uuid.NewString(),
		Game:                 game,
		Combinations:         combos,
		ViablePrimaryCount:   len(pool.Primary),
		ViableSecondaryCount: len(pool.Secondary),
	}, nil
}

// wait holds the request for the simulated delay, returning early if ctx ends.
func (s *Service) wait(ctx context.Context) error {
	if s.opts.SimulatedDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.opts.SimulatedDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) resolve(ctx context.Context, req Request) (lottery.GameID, int) {
	gameID := lottery.ParseGameID(req.GameID)
	if gameID == "" && req.UserID != "" && s.opts.Preferences != nil {
		var pref string
		if err := s.opts.Preferences.GetTyped(ctx, req.UserID, PrefDefaultGame, &pref); err == nil {
			gameID = lottery.ParseGameID(pref)
		}
	}

	if req.Count != nil {
		return gameID, *req.Count
	}
	count := s.opts.DefaultCount
	if req.UserID != "" && s.opts.Preferences != nil {
		var pref int
		if err := s.opts.Preferences.GetTyped(ctx, req.UserID, PrefDefaultCount, &pref); err == nil {
			count = pref
		}
	}
	return gameID, count
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, lottery.ErrInvalidGame):
		return metrics.OutcomeInvalidGame
	case errors.Is(err, lottery.ErrInvalidRequestCount):
		return metrics.OutcomeInvalidCount
	case errors.Is(err, lottery.ErrInsufficientPool):
		return metrics.OutcomeInsufficientPool
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

// Frequencies samples n combinations and counts how often each primary number
// appears. Used to eyeball sampler uniformity over a game's viable pool.
func (s *Service) Frequencies(gameID lottery.GameID, n int) (lottery.Game, map[int]int, error) {
	game, nonViable, err := s.catalog.Lookup(gameID)
	if err != nil {
		return lottery.Game{}, nil, err
	}
	pool := lottery.DerivePool(game, nonViable)
	if err := lottery.CheckPool(game, pool); err != nil {
		return lottery.Game{}, nil, err
	}
	if n < 1 {
		return lottery.Game{}, nil, fmt.Errorf("%w: samples must be positive, got %d", lottery.ErrInvalidRequestCount, n)
	}

	counts := make(map[int]int, len(pool.Primary))
	for _, v := range pool.Primary {
		counts[v] = 0
	}

	batch := s.sampler.MaxCombinations()
	for remaining := n; remaining > 0; remaining -= batch {
		size := min(batch, remaining)
		combos, err := s.sampler.Sample(game, pool, size)
		if err != nil {
			return lottery.Game{}, nil, err
		}
		for _, c := range combos {
			for _, v := range c.Primary {
				counts[v]++
			}
		}
	}
	return game, counts, nil
}
