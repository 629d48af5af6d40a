// Package catalog provides lottery.Catalog implementations whose non-viable
// tables come from a TOML file or from the prediction backend.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// ReloadFunc is called after a catalog swaps in a new table.
type ReloadFunc func(source string, games []lottery.Game)

// fileGame is one [[games]] table of a catalog file.
type fileGame struct {
	ID                 string `toml:"id"`
	Name               string `toml:"name"`
	PrimaryMin         int    `toml:"primary_min"`
	PrimaryMax         int    `toml:"primary_max"`
	PickCount          int    `toml:"pick_count"`
	SecondaryMin       int    `toml:"secondary_min,omitempty"`
	SecondaryMax       int    `toml:"secondary_max,omitempty"`
	SecondaryName      string `toml:"secondary_name,omitempty"`
	NonViablePrimary   []int  `toml:"non_viable_primary"`
	NonViableSecondary []int  `toml:"non_viable_secondary,omitempty"`
}

type fileDoc struct {
	Games []fileGame `toml:"games"`
}

// ParseFile decodes and validates catalog TOML.
func ParseFile(data []byte) (*lottery.StaticCatalog, error) {
	var doc fileDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Games) == 0 {
		return nil, fmt.Errorf("catalog defines no games")
	}

	entries := make([]lottery.Entry, 0, len(doc.Games))
	for _, g := range doc.Games {
		entries = append(entries, lottery.Entry{
			Game: lottery.Game{
				ID:            lottery.ParseGameID(g.ID),
				Name:          g.Name,
				PrimaryMin:    g.PrimaryMin,
				PrimaryMax:    g.PrimaryMax,
				PickCount:     g.PickCount,
				SecondaryMin:  g.SecondaryMin,
				SecondaryMax:  g.SecondaryMax,
				SecondaryName: g.SecondaryName,
			},
			NonViable: lottery.NonViableSet{
				Primary:   g.NonViablePrimary,
				Secondary: g.NonViableSecondary,
			},
		})
	}
	return lottery.NewStaticCatalog(entries)
}

// EncodeFile renders a catalog in the file format read by ParseFile.
func EncodeFile(c *lottery.StaticCatalog) ([]byte, error) {
	var doc fileDoc
	for _, e := range c.Entries() {
		doc.Games = append(doc.Games, fileGame{
			ID:                 string(e.Game.ID),
			Name:               e.Game.Name,
			PrimaryMin:         e.Game.PrimaryMin,
			PrimaryMax:         e.Game.PrimaryMax,
			PickCount:          e.Game.PickCount,
			SecondaryMin:       e.Game.SecondaryMin,
			SecondaryMax:       e.Game.SecondaryMax,
			SecondaryName:      e.Game.SecondaryName,
			NonViablePrimary:   e.NonViable.Primary,
			NonViableSecondary: e.NonViable.Secondary,
		})
	}
	return toml.Marshal(doc)
}

// FileCatalog serves a catalog loaded from a TOML file. A failed reload keeps
// the last good table.
type FileCatalog struct {
	path     string
	current  atomic.Pointer[lottery.StaticCatalog]
	logger   *slog.Logger
	onReload ReloadFunc
}

// NewFileCatalog loads path. The file must be valid at startup.
func NewFileCatalog(path string, logger *slog.Logger, onReload ReloadFunc) (*FileCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &FileCatalog{
		path:     path,
		logger:   logger.With("component", "catalog", "source", "file"),
		onReload: onReload,
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileCatalog) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", c.path, err)
	}
	cat, err := ParseFile(data)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", c.path, err)
	}
	c.current.Store(cat)
	return nil
}

// Reload re-reads the file and swaps the table in when it is valid.
func (c *FileCatalog) Reload() error {
	if err := c.load(); err != nil {
		c.logger.Warn("catalog reload failed, keeping previous table", "path", c.path, "error", err)
		return err
	}
	games := c.Games()
	c.logger.Info("catalog reloaded", "path", c.path, "games", len(games))
	if c.onReload != nil {
		c.onReload("file", games)
	}
	return nil
}

// Lookup implements lottery.Catalog.
func (c *FileCatalog) Lookup(id lottery.GameID) (lottery.Game, lottery.NonViableSet, error) {
	return c.current.Load().Lookup(id)
}

// Games implements lottery.Catalog.
func (c *FileCatalog) Games() []lottery.Game {
	return c.current.Load().Games()
}

// Watch reloads the catalog whenever the file changes until ctx is done.
// The parent directory is watched so that editors replacing the file are seen.
func (c *FileCatalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	target := filepath.Clean(c.path)
	const settle = 100 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// Coalesce bursts of writes into one reload.
				pending = time.After(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("file watcher error", "error", err)
		case <-pending:
			pending = nil
			_ = c.Reload()
		}
	}
}

var _ lottery.Catalog = (*FileCatalog)(nil)
