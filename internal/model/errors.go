package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrTileNotInRack  = errors.New("tile is not in the current player's rack")
	ErrNoPlayers      = errors.New("at least one player is required")

	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameEnded        = errors.New("game has ended")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrNoTileSelected   = errors.New("no tile selected")
	ErrPositionOccupied = errors.New("position already occupied")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidPosition  = errors.New("invalid board position")

	// Bot errors
	ErrUnknownBotStrategy = errors.New("unknown bot strategy")

	// Config errors
	ErrInvalidConfig        = errors.New("invalid game config")
	ErrUnknownTileSet       = errors.New("unknown tile set")
	ErrUnknownRuleset       = errors.New("unknown ruleset")
	ErrUnknownScoring       = errors.New("unknown scoring system")
	ErrConflictingPathModes = errors.New("incremental and end-game path scoring cannot both be enabled")

	// Registry errors
	ErrInvalidRegistration   = errors.New("invalid registration")
	ErrDuplicateRegistration = errors.New("name is already registered")

	// Tile errors
	ErrTileNotFound = errors.New("tile not found")
	ErrInvalidTile  = errors.New("tile does not belong to the tile set")
)
