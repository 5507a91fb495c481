package handler

import (
	"net/http"

	"github.com/mcoot/tilegame-go/internal/api/response"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/bot"
)

// VariantHandler lists what games can be configured with
type VariantHandler struct {
	registry   *registry.Registry
	botService *bot.Service
}

// NewVariantHandler creates a new variant handler
func NewVariantHandler(reg *registry.Registry, botService *bot.Service) *VariantHandler {
	return &VariantHandler{registry: reg, botService: botService}
}

// List handles GET /api/v1/variants
func (h *VariantHandler) List(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.VariantsResponse{
		TileSets:       h.registry.TileSets(),
		Rulesets:       h.registry.Rulesets(),
		ScoringSystems: h.registry.ScoringSystems(),
		BotStrategies:  h.botService.Strategies(),
	})
}
