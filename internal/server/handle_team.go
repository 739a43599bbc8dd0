package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
)

// RenameTeamRequest is the request body for PUT /api/game/teams/{teamID}/name.
type RenameTeamRequest struct {
	Name string `json:"name"`
}

func teamIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	return id, err == nil
}

func handleRenameTeam(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := teamIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		var req RenameTeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		respond(w, sess, sess.RenameTeam(teamID, req.Name))
	}
}

func handleToggleTeamTool(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := teamIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		tool := boardquiz.ToolID(chi.URLParam(r, "toolID"))
		respond(w, sess, sess.ToggleTeamTool(teamID, tool))
	}
}
