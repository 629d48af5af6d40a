package lottery

import (
	"fmt"
	"slices"
)

// Catalog resolves game identifiers to their rules and non-viable numbers.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Lookup returns the game and its non-viable set.
	// Unknown identifiers return an error wrapping ErrInvalidGame.
	Lookup(id GameID) (Game, NonViableSet, error)

	// Games returns all games in display order.
	Games() []Game
}

// Entry pairs a game with its non-viable numbers.
type Entry struct {
	Game      Game
	NonViable NonViableSet
}

// StaticCatalog is an immutable in-memory Catalog.
type StaticCatalog struct {
	order   []GameID
	entries map[GameID]Entry
}

// NewStaticCatalog builds a catalog from the given entries.
// Entries are validated and copied; later duplicates are rejected.
func NewStaticCatalog(entries []Entry) (*StaticCatalog, error) {
	c := &StaticCatalog{
		order:   make([]GameID, 0, len(entries)),
		entries: make(map[GameID]Entry, len(entries)),
	}
	for _, e := range entries {
		if err := e.Game.Validate(); err != nil {
			return nil, err
		}
		if err := e.NonViable.Validate(e.Game); err != nil {
			return nil, err
		}
		if _, dup := c.entries[e.Game.ID]; dup {
			return nil, fmt.Errorf("duplicate game %s", e.Game.ID)
		}
		c.order = append(c.order, e.Game.ID)
		c.entries[e.Game.ID] = Entry{
			Game: e.Game,
			NonViable: NonViableSet{
				Primary:   slices.Clone(e.NonViable.Primary),
				Secondary: slices.Clone(e.NonViable.Secondary),
			},
		}
	}
	return c, nil
}

// Lookup implements Catalog.
func (c *StaticCatalog) Lookup(id GameID) (Game, NonViableSet, error) {
	e, ok := c.entries[id]
	if !ok {
		return Game{}, NonViableSet{}, fmt.Errorf("%w: %q", ErrInvalidGame, id)
	}
	return e.Game, NonViableSet{
		Primary:   slices.Clone(e.NonViable.Primary),
		Secondary: slices.Clone(e.NonViable.Secondary),
	}, nil
}

// Games implements Catalog.
func (c *StaticCatalog) Games() []Game {
	games := make([]Game, 0, len(c.order))
	for _, id := range c.order {
		games = append(games, c.entries[id].Game)
	}
	return games
}

// Entries returns a copy of every entry in display order.
func (c *StaticCatalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		g, nv, _ := c.Lookup(id)
		out = append(out, Entry{Game: g, NonViable: nv})
	}
	return out
}

var _ Catalog = (*StaticCatalog)(nil)
