package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	// Notice is the localized text to show the players.
	Notice string `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeGameError maps an engine error to a status and a localized notice.
func writeGameError(w http.ResponseWriter, err error, lang boardquiz.Language) {
	writeJSON(w, gameErrorStatus(err), ErrorResponse{
		Error:  err.Error(),
		Notice: game.Notice(err, lang),
	})
}

func gameErrorStatus(err error) int {
	var pe *game.ProviderError
	switch {
	case errors.As(err, &pe):
		return http.StatusBadGateway
	case errors.Is(err, game.ErrStaleQuestion),
		errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrFetchInProgress),
		errors.Is(err, game.ErrQuestionLoaded),
		errors.Is(err, game.ErrTurnAnswered),
		errors.Is(err, game.ErrTurnNotAnswered),
		errors.Is(err, game.ErrToolsLocked):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnknownTeam),
		errors.Is(err, game.ErrUnknownCategory),
		errors.Is(err, game.ErrUnknownTool):
		return http.StatusNotFound
	case game.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
