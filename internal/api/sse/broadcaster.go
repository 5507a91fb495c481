package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/tilegame-go/internal/model"
)

// Message is the data line of a streamed game event
type Message struct {
	Type      model.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	GameID    model.GameID    `json:"game_id"`
	PlayerID  model.PlayerID  `json:"player_id,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

// Broadcaster forwards session events to the hub of their game
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish streams e to the game's watchers. Games nobody watches are
// skipped.
func (b *Broadcaster) Publish(e model.Event) {
	hub := b.hubManager.GetHub(e.GameID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(Message{
		Type:      e.Type,
		Timestamp: e.Timestamp,
		GameID:    e.GameID,
		PlayerID:  e.PlayerID,
		Payload:   e.Payload,
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("game_id", string(e.GameID)),
			slog.String("type", string(e.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(e.Type), string(data))
}

// RemoveGame disconnects everyone watching a game
func (b *Broadcaster) RemoveGame(gameID model.GameID) {
	b.hubManager.RemoveHub(gameID)
}
