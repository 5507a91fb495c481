package seeder

import (
	"log/slog"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/services/rules"
	"github.com/mcoot/tilegame-go/internal/services/tileset"
)

// borderSearch is one chronological-backtracking walk around the
// perimeter. The scratch board is private to the search, so cells may be
// cleared on backtrack.
type borderSearch struct {
	seeder   *Seeder
	ruleset  rules.Ruleset
	catalog  tileset.Catalog
	path     []model.Position
	scratch  *model.Board
	placed   []model.Tile
	steps    int
	best     []Placement
	exceeded bool
}

func (s *Seeder) seedBorder(board *model.Board, ruleset rules.Ruleset, catalog tileset.Catalog) []Placement {
	path := PerimeterPath(board.Size)
	var best []Placement

	for restart := 0; restart < s.limits.MaxRestarts; restart++ {
		search := &borderSearch{
			seeder:  s,
			ruleset: ruleset,
			catalog: catalog,
			path:    path,
			scratch: board.Clone(),
			placed:  make([]model.Tile, 0, len(path)),
		}
		if search.place(0) {
			return search.placements()
		}
		if len(search.best) > len(best) {
			best = search.best
		}
		s.logger.Debug("border seeding restart",
			slog.Int("attempt", restart+1),
			slog.Int("best_placed", len(best)),
			slog.Bool("step_budget_exceeded", search.exceeded),
		)
	}

	s.logger.Warn("border seeding incomplete",
		slog.Int("placed", len(best)),
		slog.Int("perimeter", len(path)),
	)
	return best
}

func (b *borderSearch) place(index int) bool {
	if index >= len(b.path) {
		return true
	}
	pos := b.path[index]
	if !b.scratch.IsEmpty(pos) {
		// Occupied before seeding began
		return false
	}

	for range b.seeder.limits.BorderCandidateAttempts {
		candidate := b.seeder.starterTile(b.catalog)
		for r := 0; r < 4; r++ {
			b.steps++
			if b.steps > b.seeder.limits.MaxSearchSteps {
				b.exceeded = true
				return false
			}

			rotated := candidate.WithRotation(r)
			if !fits(b.scratch, pos, rotated, b.ruleset) {
				continue
			}

			b.scratch.Place(pos, rotated)
			b.placed = append(b.placed, rotated)
			if len(b.placed) > len(b.best) {
				b.best = b.placements()
			}

			if b.place(index + 1) {
				return true
			}

			b.placed = b.placed[:len(b.placed)-1]
			b.scratch.Cells[pos.Y][pos.X] = nil
			if b.exceeded {
				return false
			}
		}
	}
	return false
}

func (b *borderSearch) placements() []Placement {
	out := make([]Placement, len(b.placed))
	for i, t := range b.placed {
		out[i] = Placement{Position: b.path[i], Tile: t}
	}
	return out
}
