package model

// PlayerID uniquely identifies a player within a game
type PlayerID string

// Player represents a seated participant
type Player struct {
	ID         PlayerID `json:"id"`
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	BonusScore int      `json:"bonus_score"`
	Rack       []Tile   `json:"rack"`
	Color      Color    `json:"color"`

	// BestPathLength is the longest source-to-sink path already credited
	// under incremental path scoring
	BestPathLength int `json:"best_path_length"`
}

// AddScore credits points; bonus points are also tallied separately
func (p *Player) AddScore(points int, isBonus bool) {
	p.Score += points
	if isBonus {
		p.BonusScore += points
	}
}

// FindTile returns the rack tile with the given ID
func (p *Player) FindTile(id TileID) (Tile, bool) {
	for _, t := range p.Rack {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// RemoveTile removes the rack tile with the given ID, preserving order
func (p *Player) RemoveTile(id TileID) bool {
	for i, t := range p.Rack {
		if t.ID == id {
			p.Rack = append(p.Rack[:i], p.Rack[i+1:]...)
			return true
		}
	}
	return false
}

// AddTile appends a tile to the end of the rack
func (p *Player) AddTile(tile Tile) {
	p.Rack = append(p.Rack, tile)
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	clone := *p
	clone.Rack = make([]Tile, len(p.Rack))
	copy(clone.Rack, p.Rack)
	return &clone
}

// PlayerSetup is the setup-time description of one seat
type PlayerSetup struct {
	Name  string `json:"name" yaml:"name"`
	Color Color  `json:"color,omitempty" yaml:"color,omitempty"`
}

var playerColors = [...]Color{
	"#FFFFFF", // single player
	"#df0000",
	"#008bda",
	"#FFE600",
	"#1f9100",
}

// fallbackColor is used for seats beyond the colour table
const fallbackColor Color = "#000000"

// PlayerColor returns the default colour for the seat at index
func PlayerColor(index, playerCount int) Color {
	if playerCount == 1 {
		return playerColors[0]
	}
	if index < 0 || index+1 >= len(playerColors) {
		return fallbackColor
	}
	return playerColors[index+1]
}
