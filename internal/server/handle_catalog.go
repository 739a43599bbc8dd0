package server

import (
	"net/http"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/catalog"
	"github.com/playperu/boardquiz/internal/game"
)

// CategoryListResponse is returned by GET /api/categories.
type CategoryListResponse struct {
	Total      int                  `json:"total"`
	Categories []boardquiz.Category `json:"categories"`
}

func handleListCategories(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list := cat.Filter(q.Get("q"), q.Get("group"))
		writeJSON(w, http.StatusOK, CategoryListResponse{
			Total:      len(list),
			Categories: list,
		})
	}
}

// handleListGroups lists group names in the requested language, or in the
// session's current language when none is given.
func handleListGroups(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := boardquiz.Language(r.URL.Query().Get("lang"))
		if lang == "" {
			lang = sess.Language()
		}
		if !lang.Valid() {
			writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}
		writeJSON(w, http.StatusOK, sess.Catalog().Groups(lang))
	}
}

func handleListTools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, boardquiz.Tools())
	}
}
