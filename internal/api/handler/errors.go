package handler

import (
	"net/http"

	"github.com/mcoot/tilegame-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeInvalidPosition    = apierr.CodeInvalidPosition
	CodeInvalidConfig      = apierr.CodeInvalidConfig
	CodeUnknownVariant     = apierr.CodeUnknownVariant
	CodeUnknownBotStrategy = apierr.CodeUnknownBotStrategy
	CodeGameNotFound       = apierr.CodeGameNotFound
	CodeGameNotStarted     = apierr.CodeGameNotStarted
	CodeGameEnded          = apierr.CodeGameEnded
	CodeTileNotInRack      = apierr.CodeTileNotInRack
	CodeTileNotFound       = apierr.CodeTileNotFound
	CodeNoTileSelected     = apierr.CodeNoTileSelected
	CodePositionOccupied   = apierr.CodePositionOccupied
	CodeInvalidPlacement   = apierr.CodeInvalidPlacement
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
