package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/generator"
)

// GeneratorHandler serves combination generation.
type GeneratorHandler struct {
	svc *generator.Service
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *generator.Service) *GeneratorHandler {
	return &GeneratorHandler{svc: svc}
}

// GenerateRequest is the body of POST /generator/generate. Omitted fields
// fall back to the user's preferences.
type GenerateRequest struct {
	Game  string `json:"game"`
	Count *int   `json:"count"`
}

// GenerateResponse is the result returned to clients.
type GenerateResponse struct {
	*generator.Result
	DurationMs int64 `json:"durationMs"`
}

// Generate produces combinations for the authenticated user.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	genReq := generator.Request{GameID: req.Game, Count: req.Count}
	if user := UserFromContext(r.Context()); user != nil {
		genReq.UserID = user.ID
	}

	result, err := h.svc.Generate(r.Context(), genReq)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Success(w, GenerateResponse{Result: result, DurationMs: result.Duration.Milliseconds()})
}
