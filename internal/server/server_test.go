package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
	"github.com/playperu/boardquiz/internal/handler/health"
	"github.com/playperu/boardquiz/internal/metrics"
	"github.com/playperu/boardquiz/internal/question"
)

// idleTicker never fires; HTTP tests drive turns by answering.
type idleTicker struct{}

func (idleTicker) Start(time.Duration, func()) func() { return func() {} }

type testOptions struct {
	Provider     question.Provider
	PasswordHash string
}

// answerOne serves a question whose correct option is 1.
var answerOne = question.ProviderFunc(func(_ context.Context, req question.Request) (boardquiz.Question, error) {
	return question.Finalize(boardquiz.Question{
		Text:          "Question for " + req.Category.ID,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 1,
		Explanation:   "b is right",
	}, req)
})

func newTestServer(t *testing.T, opts testOptions) (http.Handler, *game.Session) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Provider == nil {
		opts.Provider = answerOne
	}

	rec := metrics.New()
	broker := NewBroker()
	sess := game.NewSession(game.Options{
		Logger:   logger,
		Provider: opts.Provider,
		Ticker:   idleTicker{},
		Metrics:  rec,
		OnChange: broker.Publish,
	})
	t.Cleanup(sess.Close)

	srv := New(":0", logger, Deps{
		Session:          sess,
		Broker:           broker,
		Metrics:          rec,
		Checks:           map[string]health.Checker{"session": sess},
		HostPasswordHash: opts.PasswordHash,
		QuestionTimeout:  time.Second,
	})
	return srv.Handler(), sess
}

func do(t *testing.T, h http.Handler, method, path string, body any, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mods {
		m(req)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// mustOK fails unless w is 200 and decodes the body into v.
func mustOK(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if v == nil {
		return
	}
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp
}

// startPlaying drives a fresh English session with two teams to PLAYING
// with juz_1 and juz_2 on the board. tools are picked by team 0.
func startPlaying(t *testing.T, h http.Handler, tools ...boardquiz.ToolID) {
	t.Helper()
	mustOK(t, do(t, h, http.MethodPost, "/api/game/setup", SetupRequest{Language: boardquiz.LanguageEnglish, TeamCount: 2}), nil)
	for _, tool := range tools {
		mustOK(t, do(t, h, http.MethodPost, "/api/game/teams/0/tools/"+string(tool), nil), nil)
	}
	mustOK(t, do(t, h, http.MethodPost, "/api/game/teams/confirm", nil), nil)
	mustOK(t, do(t, h, http.MethodPost, "/api/game/categories/juz_1", nil), nil)
	mustOK(t, do(t, h, http.MethodPost, "/api/game/categories/juz_2", nil), nil)
	mustOK(t, do(t, h, http.MethodPost, "/api/game/start", nil), nil)
}
