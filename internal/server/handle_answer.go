package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
)

// CellRequest is the request body for POST /api/game/turn/cell.
type CellRequest struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// PitTargetRequest is the request body for PUT /api/game/turn/pit-target.
type PitTargetRequest struct {
	Team int `json:"team"`
}

// AnswerRequest is the request body for POST /api/game/turn/answer.
type AnswerRequest struct {
	Option int `json:"option"`
}

// AnswerResponse reports how the submission was resolved.
type AnswerResponse struct {
	Outcome game.Outcome  `json:"outcome"`
	State   game.Snapshot `json:"state"`
}

func handleSelectCell(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CellRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		respond(w, sess, sess.SelectCell(req.Category, req.Value))
	}
}

func handleToggleTool(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, sess, sess.ToggleTool(boardquiz.ToolID(chi.URLParam(r, "toolID"))))
	}
}

func handleSetPitTarget(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PitTargetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		respond(w, sess, sess.SetPitTarget(req.Team))
	}
}

func handleFetchQuestion(sess *game.Session, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		respond(w, sess, sess.FetchQuestion(ctx))
	}
}

func handleAnswer(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		out, err := sess.Answer(req.Option)
		if err != nil {
			writeGameError(w, err, sess.Language())
			return
		}
		writeJSON(w, http.StatusOK, AnswerResponse{
			Outcome: out,
			State:   sess.Snapshot(),
		})
	}
}

func handleNextTurn(sess *game.Session) http.HandlerFunc {
	return handleAction(sess, sess.NextTurn)
}
