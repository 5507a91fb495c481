package handler

import (
	"net/http"

	"github.com/mcoot/tilegame-go/internal/api/sse"
	"github.com/mcoot/tilegame-go/internal/services/game"
)

// EventHandler streams game events over server-sent events
type EventHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
}

// NewEventHandler creates a new event handler
func NewEventHandler(gameController *game.Controller, hubManager *sse.HubManager) *EventHandler {
	return &EventHandler{
		gameController: gameController,
		hubManager:     hubManager,
	}
}

// Stream handles GET /api/v1/games/{id}/events
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	// Loads a stored game so its events reach the hub
	if _, err := h.gameController.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id))
}
