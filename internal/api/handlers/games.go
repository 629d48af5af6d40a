package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// GamesHandler exposes the lottery catalog.
type GamesHandler struct {
	catalog lottery.Catalog
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(catalog lottery.Catalog) *GamesHandler {
	return &GamesHandler{catalog: catalog}
}

// GameSummary is one entry of the game list.
type GameSummary struct {
	lottery.Game
	ViablePrimaryCount   int `json:"viablePrimaryCount"`
	ViableSecondaryCount int `json:"viableSecondaryCount"`
}

// GameDetail is the full view of a single game.
type GameDetail struct {
	Game      lottery.Game         `json:"game"`
	NonViable lottery.NonViableSet `json:"nonViable"`
	Viable    lottery.ViablePool   `json:"viable"`
}

// ListGames returns every game with the size of its viable pools.
func (h *GamesHandler) ListGames(w http.ResponseWriter, _ *http.Request) {
	games := h.catalog.Games()
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		_, nonViable, err := h.catalog.Lookup(g.ID)
		if err != nil {
			continue
		}
		pool := lottery.DerivePool(g, nonViable)
		out = append(out, GameSummary{
			Game:                 g,
			ViablePrimaryCount:   len(pool.Primary),
			ViableSecondaryCount: len(pool.Secondary),
		})
	}
	response.Success(w, out)
}

// GetGame returns a game's definition, non-viable set and viable pools.
func (h *GamesHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := lottery.ParseGameID(chi.URLParam(r, "gameID"))

	game, nonViable, err := h.catalog.Lookup(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Success(w, GameDetail{
		Game:      game,
		NonViable: nonViable,
		Viable:    lottery.DerivePool(game, nonViable),
	})
}
