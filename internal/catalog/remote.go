package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

const (
	// NonViablePath is appended to the backend base URL.
	NonViablePath = "/api/lotteries/non-viable"

	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 15 * time.Second

	// maxBodyBytes caps the response body read from the backend.
	maxBodyBytes = 1 << 20
)

// FetchError describes a failed request to the backend.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// remoteDoc is the backend response body.
type remoteDoc struct {
	Games map[string]lottery.NonViableSet `json:"games"`
}

// RemoteOptions configures a RemoteCatalog.
type RemoteOptions struct {
	BaseURL         string
	RefreshInterval time.Duration
	RateLimit       rate.Limit // requests per second, default 1
	HTTPClient      *http.Client
	Logger          *slog.Logger
	OnReload        ReloadFunc
}

// RemoteCatalog serves the built-in game rules with non-viable lists fetched
// from the prediction backend. When a refresh fails the previous table stays
// in use; before the first successful fetch the built-in lists are served.
type RemoteCatalog struct {
	base     *lottery.StaticCatalog
	url      string
	interval time.Duration
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	onReload ReloadFunc

	mu        sync.RWMutex
	current   *lottery.StaticCatalog
	fetchedAt time.Time
	lastErr   error
}

// NewRemoteCatalog creates a catalog over base. No request is made until Refresh or Run.
func NewRemoteCatalog(base *lottery.StaticCatalog, opts RemoteOptions) *RemoteCatalog {
	if opts.RateLimit == 0 {
		opts.RateLimit = 1
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 15 * time.Minute
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteCatalog{
		base:     base,
		url:      strings.TrimSuffix(opts.BaseURL, "/") + NonViablePath,
		interval: opts.RefreshInterval,
		client:   client,
		limiter:  rate.NewLimiter(opts.RateLimit, 1),
		logger:   logger.With("component", "catalog", "source", "remote"),
		onReload: opts.OnReload,
		current:  base,
	}
}

// Refresh fetches the non-viable table once and swaps it in when valid.
func (c *RemoteCatalog) Refresh(ctx context.Context) error {
	cat, err := c.fetch(ctx)

	c.mu.Lock()
	c.lastErr = err
	if err == nil {
		c.current = cat
		c.fetchedAt = time.Now()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("catalog refresh failed, serving previous table", "url", c.url, "error", err)
		return err
	}

	games := cat.Games()
	c.logger.Info("catalog refreshed", "games", len(games))
	if c.onReload != nil {
		c.onReload("remote", games)
	}
	return nil
}

// Run refreshes immediately and then on every interval until ctx is done.
func (c *RemoteCatalog) Run(ctx context.Context) {
	_ = c.Refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// FetchedAt returns the time of the last successful refresh, zero if none.
func (c *RemoteCatalog) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// LastError returns the error of the most recent refresh, nil if it succeeded.
func (c *RemoteCatalog) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Lookup implements lottery.Catalog.
func (c *RemoteCatalog) Lookup(id lottery.GameID) (lottery.Game, lottery.NonViableSet, error) {
	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()
	return cur.Lookup(id)
}

// Games implements lottery.Catalog.
func (c *RemoteCatalog) Games() []lottery.Game {
	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()
	return cur.Games()
}

func (c *RemoteCatalog) fetch(ctx context.Context) (*lottery.StaticCatalog, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Message: "rate limiter error", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "obyyo/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Message: "failed to execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var doc remoteDoc
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&doc); err != nil {
		return nil, &FetchError{Message: "failed to parse response", Err: err}
	}

	return c.merge(doc)
}

// merge overlays fetched lists on the built-in games. Unknown games are
// skipped; an out of range value rejects the whole table.
func (c *RemoteCatalog) merge(doc remoteDoc) (*lottery.StaticCatalog, error) {
	entries := c.base.Entries()
	known := make(map[lottery.GameID]int, len(entries))
	for i, e := range entries {
		known[e.Game.ID] = i
	}

	for rawID, nv := range doc.Games {
		id := lottery.ParseGameID(rawID)
		i, ok := known[id]
		if !ok {
			c.logger.Debug("ignoring unknown game from backend", "game", rawID)
			continue
		}
		if err := nv.Validate(entries[i].Game); err != nil {
			return nil, fmt.Errorf("invalid non-viable table: %w", err)
		}
		entries[i].NonViable = nv
	}
	return lottery.NewStaticCatalog(entries)
}

var _ lottery.Catalog = (*RemoteCatalog)(nil)
