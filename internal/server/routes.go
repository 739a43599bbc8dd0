package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/boardquiz/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	sess := deps.Session

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Board Quiz API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	r.Get("/ws", handleSnapshotSocket(logger, sess, deps.Broker))

	// Reference data.
	r.Get("/api/categories", handleListCategories(sess.Catalog()))
	r.Get("/api/groups", handleListGroups(sess))
	r.Get("/api/tools", handleListTools())

	r.Route("/api/game", func(r chi.Router) {
		r.Get("/", handleSnapshot(sess))
		r.Get("/events", handleEvents(sess, deps.Broker))

		r.Group(func(r chi.Router) {
			r.Use(hostAuthMiddleware(deps.HostPasswordHash))

			r.Post("/setup", handleSetup(sess))
			r.Put("/language", handleSetLanguage(sess))
			r.Put("/teams/{teamID}/name", handleRenameTeam(sess))
			r.Post("/teams/{teamID}/tools/{toolID}", handleToggleTeamTool(sess))
			r.Post("/teams/confirm", handleConfirmTeams(sess))
			r.Post("/categories/{categoryID}", handleToggleCategory(sess))
			r.Post("/start", handleStartPlaying(sess))
			r.Post("/back", handleBack(sess))
			r.Post("/end", handleEndGame(sess))
			r.Post("/reset", handleReset(sess))

			r.Post("/turn/cell", handleSelectCell(sess))
			r.Post("/turn/tools/{toolID}", handleToggleTool(sess))
			r.Put("/turn/pit-target", handleSetPitTarget(sess))
			r.Post("/turn/question", handleFetchQuestion(sess, deps.QuestionTimeout))
			r.Post("/turn/answer", handleAnswer(sess))
			r.Post("/turn/next", handleNextTurn(sess))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving board renderer", "dir", deps.SPADir)
			r.NotFound(handleRenderer(logger, deps.SPADir))
		}
	}
}
