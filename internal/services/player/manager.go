package player

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// Manager tracks the seated players, their racks and whose turn it is.
// It is not safe for concurrent use; the owning session serializes access.
type Manager struct {
	catalog  tileset.Catalog
	rackSize int
	players  []*model.Player
	current  int
}

// NewManager creates a Manager that deals racks of rackSize from catalog
func NewManager(catalog tileset.Catalog, rackSize int) *Manager {
	return &Manager{
		catalog:  catalog,
		rackSize: rackSize,
	}
}

// Initialize seats one player per setup, assigns colours and deals racks
func (m *Manager) Initialize(setups []model.PlayerSetup) error {
	if len(setups) == 0 {
		return model.ErrNoPlayers
	}

	m.players = make([]*model.Player, len(setups))
	m.current = 0
	for i, setup := range setups {
		color := setup.Color
		if color == "" {
			color = model.PlayerColor(i, len(setups))
		}
		m.players[i] = &model.Player{
			ID:    PlayerIDFor(i),
			Name:  setup.Name,
			Color: color,
			Rack:  make([]model.Tile, 0, m.rackSize),
		}
	}

	for i, p := range m.players {
		for range m.rackSize {
			p.AddTile(m.DrawTile(i))
		}
	}
	return nil
}

// Restore replaces the seated players with copies of players
func (m *Manager) Restore(players []model.Player, current int) error {
	if len(players) == 0 {
		return model.ErrNoPlayers
	}
	if current < 0 || current >= len(players) {
		return fmt.Errorf("%w: current player index %d out of range", model.ErrInvalidConfig, current)
	}
	m.players = lo.Map(players, func(p model.Player, _ int) *model.Player {
		return p.Clone()
	})
	m.current = current
	return nil
}

// PlayerIDFor returns the ID of the seat at index
func PlayerIDFor(index int) model.PlayerID {
	return model.PlayerID(fmt.Sprintf("player-%d", index+1))
}

// DrawTile generates a fresh rack tile for the seat at index. Owned tiles
// take the player's colour so custom colours still form paths.
func (m *Manager) DrawTile(index int) model.Tile {
	tile := m.catalog.GenerateTile(index, len(m.players))
	if tile.Color != "" && index >= 0 && index < len(m.players) {
		tile.Color = m.players[index].Color
	}
	return tile
}

// Current returns the player whose turn it is
func (m *Manager) Current() *model.Player {
	if len(m.players) == 0 {
		return nil
	}
	return m.players[m.current]
}

// CurrentIndex returns the seat index of the current player
func (m *Manager) CurrentIndex() int {
	return m.current
}

// Next advances the turn cyclically and returns the new current player
func (m *Manager) Next() *model.Player {
	if len(m.players) == 0 {
		return nil
	}
	m.current = (m.current + 1) % len(m.players)
	return m.players[m.current]
}

// ByID returns the player with the given ID
func (m *Manager) ByID(id model.PlayerID) (*model.Player, error) {
	p, ok := lo.Find(m.players, func(p *model.Player) bool {
		return p.ID == id
	})
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}

// ReplaceTile removes tileID from the player's rack and appends newTile
func (m *Manager) ReplaceTile(playerID model.PlayerID, tileID model.TileID, newTile model.Tile) error {
	p, err := m.ByID(playerID)
	if err != nil {
		return err
	}
	if !p.RemoveTile(tileID) {
		return model.ErrTileNotInRack
	}
	p.AddTile(newTile)
	return nil
}

// UpdateScore credits points to the player
func (m *Manager) UpdateScore(playerID model.PlayerID, points int, isBonus bool) (*model.Player, error) {
	p, err := m.ByID(playerID)
	if err != nil {
		return nil, err
	}
	p.AddScore(points, isBonus)
	return p, nil
}

// Players returns the seated players in seat order
func (m *Manager) Players() []*model.Player {
	return m.players
}

// Count returns the number of seated players
func (m *Manager) Count() int {
	return len(m.players)
}

// Snapshot returns deep copies of the seated players
func (m *Manager) Snapshot() []model.Player {
	return lo.Map(m.players, func(p *model.Player, _ int) model.Player {
		return *p.Clone()
	})
}
