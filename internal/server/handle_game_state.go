package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
)

// SetupRequest is the request body for POST /api/game/setup.
type SetupRequest struct {
	Language  boardquiz.Language `json:"language"`
	TeamCount int                `json:"teamCount"`
}

// LanguageRequest is the request body for PUT /api/game/language.
type LanguageRequest struct {
	Language boardquiz.Language `json:"language"`
}

// respond writes the fresh snapshot on success, or the mapped error.
func respond(w http.ResponseWriter, sess *game.Session, err error) {
	if err != nil {
		writeGameError(w, err, sess.Language())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleAction adapts a body-less session action to a handler.
func handleAction(sess *game.Session, action func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, sess, action())
	}
}

func handleSnapshot(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

func handleSetup(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetupRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		respond(w, sess, sess.Configure(req.Language, req.TeamCount))
	}
}

func handleSetLanguage(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LanguageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		respond(w, sess, sess.SetLanguage(req.Language))
	}
}

func handleConfirmTeams(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.ConfirmTeams)
}

func handleToggleCategory(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, sess, sess.ToggleCategory(chi.URLParam(r, "categoryID")))
	}
}

func handleStartPlaying(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.StartPlaying)
}

func handleBack(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.Back)
}

func handleEndGame(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.EndGame)
}

func handleReset(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.Reset)
}
