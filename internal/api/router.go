package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tilegame-go/internal/api/handler"
	"github.com/mcoot/tilegame-go/internal/api/middleware"
	"github.com/mcoot/tilegame-go/internal/api/sse"
	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/board"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	"github.com/mcoot/tilegame-go/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *registry.Registry
	GameController *game.Controller
	BoardService   *board.Service
	BotService     *bot.Service

	// Event streaming. When HubManager is nil the router creates its own
	// and subscribes it to the game controller.
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	// DefaultGameConfig is used for POST /games without a body
	DefaultGameConfig model.GameConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	hubManager, broadcaster := cfg.HubManager, cfg.Broadcaster
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
		broadcaster = sse.NewBroadcaster(hubManager, cfg.Logger)
		cfg.GameController.OnEvent(broadcaster.Publish)
	}
	if broadcaster == nil {
		broadcaster = sse.NewBroadcaster(hubManager, cfg.Logger)
	}

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BoardService, cfg.BotService, broadcaster, cfg.DefaultGameConfig)
	eventHandler := handler.NewEventHandler(cfg.GameController, hubManager)
	variantHandler := handler.NewVariantHandler(cfg.Registry, cfg.BotService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/new", gameHandler.NewGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/select", gameHandler.Select).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/rotate", gameHandler.Rotate).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/moves", gameHandler.Moves).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/place", gameHandler.Place).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/skip", gameHandler.Skip).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/autoplay", gameHandler.Autoplay).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/snapshot", gameHandler.Snapshot).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/restore", gameHandler.Restore).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/tiles/{tile_id}/render", gameHandler.RenderTile).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/events", eventHandler.Stream).Methods(http.MethodGet)

	api.HandleFunc("/variants", variantHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
