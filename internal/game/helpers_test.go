package game

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/question"
)

// manualTicker records the scheduled countdown; tests fire it by hand.
type manualTicker struct {
	mu      sync.Mutex
	fn      func()
	running bool
	starts  int
}

func (m *manualTicker) Start(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	m.running = true
	m.starts++
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.running = false
	}
}

func (m *manualTicker) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Fire invokes the tick callback n times while the ticker runs.
func (m *manualTicker) Fire(n int) {
	for range n {
		m.mu.Lock()
		fn, running := m.fn, m.running
		m.mu.Unlock()
		if !running {
			return
		}
		fn()
	}
}

// fixedProvider answers every request with option correct as the right one.
func fixedProvider(correct int) question.Provider {
	return question.ProviderFunc(func(_ context.Context, req question.Request) (boardquiz.Question, error) {
		return question.Finalize(boardquiz.Question{
			Text:          "Q " + req.Category.ID,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: correct,
			Explanation:   "because",
		}, req)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newPlayingSession builds a session in PLAYING with the given teams' tools
// and categories juz_1 and juz_2 on the board.
func newPlayingSession(t *testing.T, teamTools ...[]boardquiz.ToolID) (*Session, *manualTicker) {
	t.Helper()
	ticker := &manualTicker{}
	s := NewSession(Options{
		Logger:   discardLogger(),
		Provider: fixedProvider(1),
		Ticker:   ticker,
	})
	t.Cleanup(s.Close)

	require.NoError(t, s.Configure(boardquiz.LanguageEnglish, len(teamTools)))
	for i, tools := range teamTools {
		for _, id := range tools {
			require.NoError(t, s.ToggleTeamTool(i, id))
		}
	}
	require.NoError(t, s.ConfirmTeams())
	require.NoError(t, s.ToggleCategory("juz_1"))
	require.NoError(t, s.ToggleCategory("juz_2"))
	require.NoError(t, s.StartPlaying())
	return s, ticker
}

func loadQuestion(t *testing.T, s *Session, category string, value int) {
	t.Helper()
	require.NoError(t, s.SelectCell(category, value))
	require.NoError(t, s.FetchQuestion(context.Background()))
}
