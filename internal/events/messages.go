package events

// Event types.
const (
	TypeGenerationCompleted = "generator:completed"
	TypeCatalogReloaded     = "catalog:reloaded"
	TypeUserRegistered      = "auth:registered"
	TypeUserLoggedIn        = "auth:login"
	TypeUserLoggedOut       = "auth:logout"
)

// GenerationCompletedEvent is the payload for generator:completed events.
type GenerationCompletedEvent struct {
	ResultID      string `json:"resultId"`
	GameID        string `json:"gameId"`
	Count         int    `json:"count"`
	ViablePrimary int    `json:"viablePrimary"`
	DurationMs    int64  `json:"durationMs"`
}

// CatalogReloadedEvent is the payload for catalog:reloaded events.
type CatalogReloadedEvent struct {
	Source string   `json:"source"` // "file" or "remote"
	Games  []string `json:"games"`
}

// UserEvent is the payload for account lifecycle events.
type UserEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
