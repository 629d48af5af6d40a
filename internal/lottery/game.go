// Package lottery holds the game catalog, the non-viable number tables and the
// combination sampler used by the number generator.
package lottery

import (
	"fmt"
	"strings"
)

// GameID identifies a supported lottery game.
type GameID string

const (
	Powerball    GameID = "powerball"
	MegaMillions GameID = "megamillions"
	LottoAmerica GameID = "lottoamerica"
	Gopher5      GameID = "gopher5"
	Pick3        GameID = "pick3"
)

// ParseGameID normalizes a user supplied identifier.
func ParseGameID(s string) GameID {
	return GameID(strings.ToLower(strings.TrimSpace(s)))
}

// Game describes the number rules of a single lottery game.
// SecondaryMin and SecondaryMax are both zero when the game has no bonus ball.
type Game struct {
	ID            GameID `json:"id"`
	Name          string `json:"name"`
	PrimaryMin    int    `json:"primaryMin"`
	PrimaryMax    int    `json:"primaryMax"`
	PickCount     int    `json:"pickCount"`
	SecondaryMin  int    `json:"secondaryMin,omitempty"`
	SecondaryMax  int    `json:"secondaryMax,omitempty"`
	SecondaryName string `json:"secondaryName,omitempty"`
}

// PrimaryRange returns how many numbers the primary range holds.
func (g Game) PrimaryRange() int {
	return g.PrimaryMax - g.PrimaryMin + 1
}

// HasSecondary reports whether the game draws a bonus number.
func (g Game) HasSecondary() bool {
	return g.SecondaryMax > 0
}

// SecondaryRange returns how many numbers the secondary range holds, or 0.
func (g Game) SecondaryRange() int {
	if !g.HasSecondary() {
		return 0
	}
	return g.SecondaryMax - g.SecondaryMin + 1
}

// Validate checks that the game rules are internally consistent.
func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.PrimaryMin < 0 || g.PrimaryMax < g.PrimaryMin {
		return fmt.Errorf("game %s: invalid primary range %d-%d", g.ID, g.PrimaryMin, g.PrimaryMax)
	}
	if g.PickCount <= 0 || g.PickCount > g.PrimaryRange() {
		return fmt.Errorf("game %s: pick count %d outside primary range of %d", g.ID, g.PickCount, g.PrimaryRange())
	}
	if g.HasSecondary() && (g.SecondaryMin < 0 || g.SecondaryMax < g.SecondaryMin) {
		return fmt.Errorf("game %s: invalid secondary range %d-%d", g.ID, g.SecondaryMin, g.SecondaryMax)
	}
	return nil
}

// NonViableSet lists the numbers excluded from a game's candidate pools.
// Order is irrelevant.
type NonViableSet struct {
	Primary   []int `json:"primary"`
	Secondary []int `json:"secondary"`
}

// Validate reports values that fall outside the game's ranges.
func (n NonViableSet) Validate(g Game) error {
	for _, v := range n.Primary {
		if v < g.PrimaryMin || v > g.PrimaryMax {
			return fmt.Errorf("game %s: non-viable primary %d outside %d-%d", g.ID, v, g.PrimaryMin, g.PrimaryMax)
		}
	}
	if len(n.Secondary) > 0 && !g.HasSecondary() {
		return fmt.Errorf("game %s: non-viable secondary numbers given for a game without a secondary draw", g.ID)
	}
	for _, v := range n.Secondary {
		if v < g.SecondaryMin || v > g.SecondaryMax {
			return fmt.Errorf("game %s: non-viable secondary %d outside %d-%d", g.ID, v, g.SecondaryMin, g.SecondaryMax)
		}
	}
	return nil
}
