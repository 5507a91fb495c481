package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tilegame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPosition    = "INVALID_POSITION"
	CodeInvalidConfig      = "INVALID_CONFIG"
	CodeUnknownVariant     = "UNKNOWN_VARIANT"
	CodeUnknownBotStrategy = "UNKNOWN_BOT_STRATEGY"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeGameNotStarted     = "GAME_NOT_STARTED"
	CodeGameEnded          = "GAME_ENDED"
	CodeTileNotInRack      = "TILE_NOT_IN_RACK"
	CodeTileNotFound       = "TILE_NOT_FOUND"
	CodeNoTileSelected     = "NO_TILE_SELECTED"
	CodePositionOccupied   = "POSITION_OCCUPIED"
	CodeInvalidPlacement   = "INVALID_PLACEMENT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrTileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTileNotFound, "Tile not found"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started"}}
	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusConflict, APIError{CodeGameEnded, "Game has ended"}}
	case errors.Is(err, model.ErrNoTileSelected):
		return &httpError{http.StatusConflict, APIError{CodeNoTileSelected, "No tile selected"}}
	case errors.Is(err, model.ErrPositionOccupied):
		return &httpError{http.StatusConflict, APIError{CodePositionOccupied, "Position is already occupied"}}
	case errors.Is(err, model.ErrInvalidPlacement):
		return &httpError{http.StatusConflict, APIError{CodeInvalidPlacement, "Tile does not fit there"}}
	case errors.Is(err, model.ErrTileNotInRack):
		return &httpError{http.StatusBadRequest, APIError{CodeTileNotInRack, "Tile is not in the current player's rack"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrUnknownBotStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownBotStrategy, err.Error()}}
	case errors.Is(err, model.ErrUnknownTileSet),
		errors.Is(err, model.ErrUnknownRuleset),
		errors.Is(err, model.ErrUnknownScoring):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownVariant, err.Error()}}
	case errors.Is(err, model.ErrInvalidConfig),
		errors.Is(err, model.ErrConflictingPathModes),
		errors.Is(err, model.ErrNoPlayers),
		errors.Is(err, model.ErrInvalidTile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
