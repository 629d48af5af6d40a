package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noor7086/Obyyo-sub002/internal/events"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/repository"
)

type mapPreferences map[string]map[string]string

func (m mapPreferences) GetTyped(_ context.Context, userID, key string, target interface{}) error {
	value, ok := m[userID][key]
	if !ok {
		return repository.ErrNotFound
	}
	return json.Unmarshal([]byte(value), target)
}

type captureObserver struct {
	mu     sync.Mutex
	events []events.Event
}

func (o *captureObserver) OnEvent(e events.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
	return nil
}

func (o *captureObserver) Name() string             { return "capture" }
func (o *captureObserver) ShouldHandle(string) bool { return true }

func intPtr(n int) *int { return &n }

func newService(t *testing.T, catalog lottery.Catalog, opts Options) (*Service, *captureObserver) {
	t.Helper()
	observer := &captureObserver{}
	if opts.Dispatcher == nil {
		opts.Dispatcher = events.NewDispatcher(nil)
	}
	opts.Dispatcher.Register(observer)
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewGeneratorMetrics(nil)
	}
	sampler := lottery.NewSampler(lottery.WithRandomSource(lottery.NewSeededSource(42)))
	return NewService(catalog, sampler, opts), observer
}

func TestGenerate_Success(t *testing.T) {
	svc, observer := newService(t, lottery.DefaultCatalog(), Options{DefaultCount: 5})

	result, err := svc.Generate(context.Background(), Request{GameID: "Powerball", Count: intPtr(3), UserID: "u1"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, lottery.Powerball, result.Game.ID)
	require.Len(t, result.Combinations, 3)
	for _, c := range result.Combinations {
		assert.Len(t, c.Primary, 5)
		assert.True(t, sortedAscending(c.Primary))
		require.NotNil(t, c.Secondary)
	}
	assert.Positive(t, result.ViablePrimaryCount)
	assert.Positive(t, result.ViableSecondaryCount)

	require.Len(t, observer.events, 1)
	e := observer.events[0]
	assert.Equal(t, events.TypeGenerationCompleted, e.Type)
	assert.Equal(t, "u1", e.UserID)
	payload, ok := events.GetTypedData[events.GenerationCompletedEvent](e)
	require.True(t, ok)
	assert.Equal(t, result.ID, payload.ResultID)
	assert.Equal(t, 3, payload.Count)

	stats := svc.opts.Metrics.Snapshot()
	assert.Equal(t, uint64(1), stats.Requests)
	assert.Equal(t, uint64(3), stats.Combinations)
	assert.Equal(t, uint64(1), stats.ByGame["powerball"])
}

func TestGenerate_Errors(t *testing.T) {
	exhausted, err := lottery.NewStaticCatalog([]lottery.Entry{{
		Game: lottery.Game{ID: "tiny", Name: "Tiny", PrimaryMin: 1, PrimaryMax: 4, PickCount: 3},
		NonViable: lottery.NonViableSet{
			Primary: []int{1, 2},
		},
	}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		catalog lottery.Catalog
		req     Request
		wantErr error
	}{
		{"unknown game", lottery.DefaultCatalog(), Request{GameID: "keno", Count: intPtr(1)}, lottery.ErrInvalidGame},
		{"missing game", lottery.DefaultCatalog(), Request{Count: intPtr(1)}, lottery.ErrInvalidGame},
		{"zero count", lottery.DefaultCatalog(), Request{GameID: "pick3", Count: intPtr(0)}, lottery.ErrInvalidRequestCount},
		{"too many", lottery.DefaultCatalog(), Request{GameID: "pick3", Count: intPtr(101)}, lottery.ErrInvalidRequestCount},
		{"insufficient pool", exhausted, Request{GameID: "tiny", Count: intPtr(1)}, lottery.ErrInsufficientPool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, observer := newService(t, tt.catalog, Options{})

			result, err := svc.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Empty(t, observer.events)

			stats := svc.opts.Metrics.Snapshot()
			assert.Equal(t, uint64(1), stats.Failures)
			assert.Zero(t, stats.Combinations)
		})
	}
}

func TestGenerate_UnknownGamesShareOneMetricSeries(t *testing.T) {
	prom := metrics.NewCollectors()
	svc, _ := newService(t, lottery.DefaultCatalog(), Options{Metrics: metrics.NewGeneratorMetrics(prom)})

	for i := 0; i < 200; i++ {
		_, err := svc.Generate(context.Background(), Request{GameID: fmt.Sprintf("junk-%d", i), Count: intPtr(1)})
		require.ErrorIs(t, err, lottery.ErrInvalidGame)
	}
	_, err := svc.Generate(context.Background(), Request{GameID: "pick3", Count: intPtr(1)})
	require.NoError(t, err)

	families, err := prom.Registry.Gather()
	require.NoError(t, err)

	games := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "obyyo_generations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "game" {
					games[l.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{UnknownGameLabel: 200, "pick3": 1}, games)
}

func TestGenerate_PreferenceDefaults(t *testing.T) {
	prefs := mapPreferences{
		"u1": {PrefDefaultGame: `"pick3"`, PrefDefaultCount: `4`},
	}
	svc, _ := newService(t, lottery.DefaultCatalog(), Options{DefaultCount: 2, Preferences: prefs})

	result, err := svc.Generate(context.Background(), Request{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, lottery.Pick3, result.Game.ID)
	assert.Len(t, result.Combinations, 4)

	// Explicit fields win over preferences.
	result, err = svc.Generate(context.Background(), Request{GameID: "gopher5", Count: intPtr(1), UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, lottery.Gopher5, result.Game.ID)
	assert.Len(t, result.Combinations, 1)

	// Users without preferences get the service default count.
	result, err = svc.Generate(context.Background(), Request{GameID: "gopher5", UserID: "u2"})
	require.NoError(t, err)
	assert.Len(t, result.Combinations, 2)
}

func TestGenerate_SimulatedDelayCanceled(t *testing.T) {
	svc, observer := newService(t, lottery.DefaultCatalog(), Options{SimulatedDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := svc.Generate(ctx, Request{GameID: "pick3", Count: intPtr(1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.Empty(t, observer.events)
}

func TestGenerate_SimulatedDelayCompletes(t *testing.T) {
	svc, _ := newService(t, lottery.DefaultCatalog(), Options{SimulatedDelay: 10 * time.Millisecond})

	result, err := svc.Generate(context.Background(), Request{GameID: "pick3", Count: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, result.Combinations, 2)
	assert.GreaterOrEqual(t, result.Duration, 10*time.Millisecond)
}

func TestFrequencies(t *testing.T) {
	svc, _ := newService(t, lottery.DefaultCatalog(), Options{})

	game, counts, err := svc.Frequencies(lottery.Pick3, 250)
	require.NoError(t, err)
	assert.Equal(t, lottery.Pick3, game.ID)

	total := 0
	for n, c := range counts {
		assert.Equal(t, 1, n%2, "non-viable number %d sampled", n)
		total += c
	}
	assert.Equal(t, 250*game.PickCount, total)

	_, _, err = svc.Frequencies("keno", 10)
	assert.ErrorIs(t, err, lottery.ErrInvalidGame)

	_, _, err = svc.Frequencies(lottery.Pick3, 0)
	assert.ErrorIs(t, err, lottery.ErrInvalidRequestCount)
}

func sortedAscending(nums []int) bool {
	for i := 1; i < len(nums); i++ {
		if nums[i] <= nums[i-1] {
			return false
		}
	}
	return true
}
