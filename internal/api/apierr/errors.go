package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/seabattle-go/internal/model"
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

// Error codes, shared by the HTTP API and websocket replies
const (
	CodeInvalidCredential     = "INVALID_CREDENTIAL"
	CodePlayerAlreadyOnline   = "PLAYER_ALREADY_ONLINE"
	CodeNotRegistered         = "NOT_REGISTERED"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodeAlreadyInRoomOrGame   = "ALREADY_IN_ROOM_OR_GAME"
	CodeRoomNotFound          = "ROOM_NOT_FOUND"
	CodeRoomFull              = "ROOM_FULL"
	CodeAlreadyInRoom         = "ALREADY_IN_ROOM"
	CodeGameNotFound          = "GAME_NOT_FOUND"
	CodeNotInGame             = "NOT_IN_GAME"
	CodeGameNotStarted        = "GAME_NOT_STARTED"
	CodeFleetAlreadySubmitted = "FLEET_ALREADY_SUBMITTED"
	CodeInvalidPlacement      = "INVALID_PLACEMENT"
	CodeNotYourTurn           = "NOT_YOUR_TURN"
	CodeAlreadyAttacked       = "ALREADY_ATTACKED"
	CodeOutOfBounds           = "OUT_OF_BOUNDS"
	CodeSessionFinished       = "SESSION_FINISHED"
	CodeUnknownMessageType    = "UNKNOWN_MESSAGE_TYPE"
	CodeMalformedMessage      = "MALFORMED_MESSAGE"
	CodeInternalError         = "INTERNAL_ERROR"
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

// Describe returns the HTTP status and wire error for err
func Describe(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// InvalidPlacement is wrapped with the rule that failed, so keep its text
	if errors.Is(err, model.ErrInvalidPlacement) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlacement, err.Error()}}
	}

	switch {
	// Player errors
	case errors.Is(err, model.ErrInvalidCredential):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredential, "Invalid credentials"}}
	case errors.Is(err, model.ErrPlayerAlreadyOnline):
		return &httpError{http.StatusConflict, APIError{CodePlayerAlreadyOnline, "Player is already logged in"}}
	case errors.Is(err, model.ErrNotRegistered):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotRegistered, "Register before playing"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	// Room errors
	case errors.Is(err, model.ErrAlreadyInRoomOrGame):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoomOrGame, "Already in a room or game"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "You are already in this room"}}

	// Game errors
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodeNotInGame, "Player not found in game"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game not started"}}
	case errors.Is(err, model.ErrFleetAlreadySubmitted):
		return &httpError{http.StatusConflict, APIError{CodeFleetAlreadySubmitted, "Ships already placed"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrAlreadyAttacked):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAttacked, "Cell already attacked"}}
	case errors.Is(err, model.ErrOutOfBounds):
		return &httpError{http.StatusBadRequest, APIError{CodeOutOfBounds, "Coordinates out of bounds"}}
	case errors.Is(err, model.ErrSessionFinished):
		return &httpError{http.StatusConflict, APIError{CodeSessionFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrNoUntriedCells):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAttacked, "No cells left to attack"}}

	// Protocol errors
	case errors.Is(err, model.ErrUnknownMessageType):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownMessageType, "Unknown message type"}}
	case errors.Is(err, model.ErrMalformedMessage):
		return &httpError{http.StatusBadRequest, APIError{CodeMalformedMessage, "Malformed message"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
