package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/question"
)

func TestCorrectAnswerScoresCell(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 400)

	snap := s.Snapshot()
	require.NotNil(t, snap.Turn.Question)
	assert.Nil(t, snap.Turn.Question.CorrectAnswer, "answer hidden before resolution")
	assert.Equal(t, DefaultTurnSeconds, snap.Turn.TimeLeft)
	assert.True(t, ticker.Running())

	out, err := s.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, out)
	assert.False(t, ticker.Running())

	snap = s.Snapshot()
	assert.Equal(t, 400, snap.Teams[0].Score)
	assert.Equal(t, 0, snap.Teams[1].Score)
	assert.Equal(t, []int{400}, snap.Teams[0].CompletedCells["juz_1"])
	assert.Empty(t, snap.Teams[1].CompletedCells)
	assert.True(t, snap.Turn.Answered)
	require.NotNil(t, snap.Turn.Question.CorrectAnswer)
	assert.Equal(t, 1, *snap.Turn.Question.CorrectAnswer)
	assert.Equal(t, "because", snap.Turn.Question.Explanation)
}

func TestDoublePoints(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolDoublePoints}, nil)
	require.NoError(t, s.SelectCell("juz_2", 600))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoublePoints))
	require.NoError(t, s.FetchQuestion(context.Background()))

	_, err := s.Answer(1)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, 1200, snap.Teams[0].Score)
	assert.Equal(t, []boardquiz.ToolID{boardquiz.ToolDoublePoints}, snap.Teams[0].UsedTools)
}

func TestPitTransfersOnCorrectAnswer(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolPit}, nil)
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.ToggleTool(boardquiz.ToolPit))

	assert.ErrorIs(t, s.FetchQuestion(context.Background()), ErrPitTargetRequired)
	assert.Nil(t, s.Snapshot().Turn.Question)

	assert.ErrorIs(t, s.SetPitTarget(0), ErrInvalidPitTarget)
	assert.ErrorIs(t, s.SetPitTarget(2), ErrInvalidPitTarget)
	require.NoError(t, s.SetPitTarget(1))
	require.NoError(t, s.FetchQuestion(context.Background()))

	_, err := s.Answer(1)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, 200, snap.Teams[0].Score)
	assert.Equal(t, -200, snap.Teams[1].Score)
}

func TestPitWithoutEffectOnWrongAnswer(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolPit, boardquiz.ToolDoublePoints}, nil)
	require.NoError(t, s.SelectCell("juz_1", 400))
	require.NoError(t, s.ToggleTool(boardquiz.ToolPit))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoublePoints))
	require.NoError(t, s.SetPitTarget(1))
	require.NoError(t, s.FetchQuestion(context.Background()))

	out, err := s.Answer(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, out)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Teams[0].Score)
	assert.Equal(t, 0, snap.Teams[1].Score)
	assert.Equal(t, []int{400}, snap.Teams[0].CompletedCells["juz_1"])
	assert.ElementsMatch(t, []boardquiz.ToolID{boardquiz.ToolPit, boardquiz.ToolDoublePoints}, snap.Teams[0].UsedTools)
}

func TestTogglingPitOffClearsTarget(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolPit}, nil)
	assert.ErrorIs(t, s.SetPitTarget(1), ErrPitNotActive)

	require.NoError(t, s.ToggleTool(boardquiz.ToolPit))
	require.NoError(t, s.SetPitTarget(1))
	require.NotNil(t, s.Snapshot().Turn.PitTarget)

	require.NoError(t, s.ToggleTool(boardquiz.ToolPit))
	snap := s.Snapshot()
	assert.Nil(t, snap.Turn.PitTarget)
	assert.Empty(t, snap.Turn.ActiveTools)
}

func TestDoubleTryAllowsSecondAttempt(t *testing.T) {
	s, ticker := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolDoubleTry}, nil)
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoubleTry))
	require.NoError(t, s.FetchQuestion(context.Background()))

	out, err := s.Answer(3)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetry, out)
	assert.True(t, ticker.Running())
	assert.False(t, s.Snapshot().Turn.Answered)

	out, err = s.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, out)

	snap := s.Snapshot()
	assert.Equal(t, 200, snap.Teams[0].Score)
	assert.Equal(t, []int{3, 1}, snap.Turn.SelectedOptions)
}

func TestDoubleTryExhausted(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolDoubleTry}, nil)
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoubleTry))
	require.NoError(t, s.FetchQuestion(context.Background()))

	_, _ = s.Answer(0)
	out, err := s.Answer(2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, out)

	out, err = s.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	assert.Equal(t, 0, s.Snapshot().Teams[0].Score)
}

func TestWrongAnswerWithoutDoubleTryCommits(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_2", 200)

	out, err := s.Answer(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, out)
	assert.False(t, ticker.Running())
	assert.Equal(t, []int{200}, s.Snapshot().Teams[0].CompletedCells["juz_2"])
}

func TestAnswerGuards(t *testing.T) {
	s, _ := newPlayingSession(t, nil, nil)

	out, err := s.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)

	loadQuestion(t, s, "juz_1", 200)
	_, err = s.Answer(4)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Empty(t, s.Snapshot().Turn.SelectedOptions)
}

func TestTimeoutCommitsIncorrect(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 600)

	ticker.Fire(DefaultTurnSeconds - 1)
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Turn.TimeLeft)
	assert.False(t, snap.Turn.Answered)

	ticker.Fire(1)
	snap = s.Snapshot()
	assert.Equal(t, 0, snap.Turn.TimeLeft)
	assert.True(t, snap.Turn.Answered)
	assert.Equal(t, OutcomeTimeout, snap.Turn.Outcome)
	assert.Equal(t, 0, snap.Teams[0].Score)
	assert.Equal(t, []int{600}, snap.Teams[0].CompletedCells["juz_1"])
	assert.False(t, ticker.Running())

	out, err := s.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
}

func TestStaleTickIgnored(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 200)

	ticker.mu.Lock()
	staleTick := ticker.fn
	ticker.mu.Unlock()

	_, err := s.Answer(0)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())
	loadQuestion(t, s, "juz_1", 200)

	staleTick()
	assert.Equal(t, DefaultTurnSeconds, s.Snapshot().Turn.TimeLeft)
}

func TestCompletedCellRejectedForSameTeamOnly(t *testing.T) {
	s, _ := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 200)
	_, err := s.Answer(1)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())

	// Team 1 may still play the cell.
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.NextTurn())

	assert.ErrorIs(t, s.SelectCell("juz_1", 200), ErrCellCompleted)
	assert.Empty(t, s.Snapshot().Turn.SelectedCategory)
}

func TestSelectCellGuards(t *testing.T) {
	s, _ := newPlayingSession(t, nil, nil)

	assert.ErrorIs(t, s.SelectCell("juz_1", 300), ErrInvalidValue)
	assert.ErrorIs(t, s.SelectCell("juz_9", 200), ErrUnknownCategory)
	assert.ErrorIs(t, s.FetchQuestion(context.Background()), ErrNoCellSelected)

	loadQuestion(t, s, "juz_1", 200)
	assert.ErrorIs(t, s.SelectCell("juz_2", 200), ErrQuestionLoaded)
	assert.ErrorIs(t, s.FetchQuestion(context.Background()), ErrQuestionLoaded)
}

func TestToolWindows(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolSkip, boardquiz.ToolCallFriend}, nil)

	assert.ErrorIs(t, s.ToggleTool(boardquiz.ToolSkip), ErrToolAfterQuestion)
	assert.ErrorIs(t, s.ToggleTool(boardquiz.ToolPit), ErrToolNotOwned)
	assert.ErrorIs(t, s.ToggleTool("warp"), ErrUnknownTool)

	loadQuestion(t, s, "juz_1", 200)
	assert.ErrorIs(t, s.ToggleTool(boardquiz.ToolCallFriend), ErrToolBeforeQuestion)
	assert.Empty(t, s.Snapshot().Turn.ActiveTools)
}

func TestSkipAdvancesWithoutScoring(t *testing.T) {
	s, ticker := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolSkip, boardquiz.ToolDoublePoints}, nil)
	require.NoError(t, s.SelectCell("juz_1", 400))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoublePoints))
	require.NoError(t, s.FetchQuestion(context.Background()))

	require.NoError(t, s.ToggleTool(boardquiz.ToolSkip))
	assert.False(t, ticker.Running())

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.CurrentTeam)
	assert.Nil(t, snap.Turn.Question)
	assert.Equal(t, 0, snap.Teams[0].Score)
	assert.Equal(t, []boardquiz.ToolID{boardquiz.ToolSkip}, snap.Teams[0].UsedTools)
	assert.Empty(t, snap.Teams[0].CompletedCells)
}

func TestExhaustedToolRejected(t *testing.T) {
	s, _ := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolDoublePoints}, nil)
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.ToggleTool(boardquiz.ToolDoublePoints))
	require.NoError(t, s.FetchQuestion(context.Background()))
	_, err := s.Answer(1)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())
	require.NoError(t, s.NextTurn())

	assert.ErrorIs(t, s.ToggleTool(boardquiz.ToolDoublePoints), ErrToolExhausted)

	snap := s.Snapshot()
	assert.Equal(t, []boardquiz.ToolID{boardquiz.ToolDoublePoints}, snap.Teams[0].UsedTools)
	assert.LessOrEqual(t, len(snap.Teams[0].Tools), boardquiz.MaxToolsPerTeam)
}

func TestNextTurnWraps(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		tools := make([][]boardquiz.ToolID, n)
		s, _ := newPlayingSession(t, tools...)
		for i := 1; i <= 2*n; i++ {
			require.NoError(t, s.NextTurn())
			assert.Equal(t, i%n, s.Snapshot().CurrentTeam)
		}
	}
}

func TestNextTurnClearsTurnState(t *testing.T) {
	s, ticker := newPlayingSession(t, []boardquiz.ToolID{boardquiz.ToolPit}, nil)
	require.NoError(t, s.SelectCell("juz_1", 200))
	require.NoError(t, s.ToggleTool(boardquiz.ToolPit))
	require.NoError(t, s.SetPitTarget(1))

	// No question was shown, so the host may pass a stuck turn.
	require.NoError(t, s.NextTurn())
	assert.False(t, ticker.Running())
	assert.Equal(t, 1, s.Snapshot().CurrentTeam)

	turn := s.Snapshot().Turn
	assert.Empty(t, turn.SelectedCategory)
	assert.Zero(t, turn.SelectedValue)
	assert.Nil(t, turn.Question)
	assert.Nil(t, turn.PitTarget)
	assert.Empty(t, turn.ActiveTools)
	assert.False(t, turn.Answered)
	// The abandoned turn consumed nothing.
	assert.Empty(t, s.Snapshot().Teams[0].UsedTools)
}

func TestNextTurnRequiresResolvedQuestion(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 400)

	err := s.NextTurn()
	assert.ErrorIs(t, err, ErrTurnNotAnswered)
	assert.True(t, IsValidation(err))

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.CurrentTeam)
	assert.NotNil(t, snap.Turn.Question)
	assert.True(t, ticker.Running())
	assert.False(t, snap.Teams[0].HasCompleted("juz_1", 400))

	_, err = s.Answer(1)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())
	assert.Equal(t, 1, s.Snapshot().CurrentTeam)
}

func TestProviderFailureKeepsSelection(t *testing.T) {
	boom := errors.New("api down")
	calls := 0
	provider := question.ProviderFunc(func(ctx context.Context, req question.Request) (boardquiz.Question, error) {
		calls++
		if calls == 1 {
			return boardquiz.Question{}, boom
		}
		return fixedProvider(1).Generate(ctx, req)
	})

	ticker := &manualTicker{}
	s := NewSession(Options{Logger: discardLogger(), Provider: provider, Ticker: ticker})
	t.Cleanup(s.Close)
	require.NoError(t, s.Configure(boardquiz.LanguageEnglish, 2))
	require.NoError(t, s.ConfirmTeams())
	require.NoError(t, s.ToggleCategory("v_0"))
	require.NoError(t, s.StartPlaying())
	require.NoError(t, s.SelectCell("v_0", 400))

	err := s.FetchQuestion(context.Background())
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))

	snap := s.Snapshot()
	assert.Nil(t, snap.Turn.Question)
	assert.False(t, snap.Turn.Loading)
	assert.Equal(t, "v_0", snap.Turn.SelectedCategory)
	assert.Equal(t, 400, snap.Turn.SelectedValue)
	assert.False(t, ticker.Running())

	require.NoError(t, s.FetchQuestion(context.Background()))
	assert.NotNil(t, s.Snapshot().Turn.Question)
}

func TestRecentQuestionsPassedAsExclusions(t *testing.T) {
	var mu sync.Mutex
	var seen [][]string
	provider := question.ProviderFunc(func(ctx context.Context, req question.Request) (boardquiz.Question, error) {
		mu.Lock()
		seen = append(seen, req.Exclude)
		mu.Unlock()
		return fixedProvider(1).Generate(ctx, req)
	})

	s := NewSession(Options{Logger: discardLogger(), Provider: provider, Ticker: &manualTicker{}, RecentQuestions: 1})
	t.Cleanup(s.Close)
	require.NoError(t, s.Configure(boardquiz.LanguageEnglish, 2))
	require.NoError(t, s.ConfirmTeams())
	require.NoError(t, s.ToggleCategory("juz_1"))
	require.NoError(t, s.ToggleCategory("juz_2"))
	require.NoError(t, s.StartPlaying())

	loadQuestion(t, s, "juz_1", 200)
	_, err := s.Answer(0)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())
	loadQuestion(t, s, "juz_2", 200)
	_, err = s.Answer(0)
	require.NoError(t, err)
	require.NoError(t, s.NextTurn())
	loadQuestion(t, s, "juz_1", 400)

	assert.Equal(t, [][]string{{}, {"Q juz_1"}, {"Q juz_2"}}, seen)
}

// blockingProvider parks requests until released.
type blockingProvider struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingProvider) Generate(ctx context.Context, req question.Request) (boardquiz.Question, error) {
	b.started <- struct{}{}
	<-b.release
	return fixedProvider(1).Generate(ctx, req)
}

func TestInFlightFetchGuards(t *testing.T) {
	bp := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(Options{Logger: discardLogger(), Provider: bp, Ticker: &manualTicker{}})
	t.Cleanup(s.Close)
	require.NoError(t, s.Configure(boardquiz.LanguageEnglish, 2))
	require.NoError(t, s.ConfirmTeams())
	require.NoError(t, s.ToggleCategory("juz_1"))
	require.NoError(t, s.StartPlaying())
	require.NoError(t, s.SelectCell("juz_1", 200))

	done := make(chan error, 1)
	go func() { done <- s.FetchQuestion(context.Background()) }()
	<-bp.started

	assert.True(t, s.Snapshot().Turn.Loading)
	assert.ErrorIs(t, s.FetchQuestion(context.Background()), ErrFetchInProgress)
	assert.ErrorIs(t, s.SelectCell("juz_1", 400), ErrFetchInProgress)

	close(bp.release)
	require.NoError(t, <-done)
	assert.NotNil(t, s.Snapshot().Turn.Question)
}

func TestStaleFetchDiscarded(t *testing.T) {
	bp := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	ticker := &manualTicker{}
	s := NewSession(Options{Logger: discardLogger(), Provider: bp, Ticker: ticker})
	t.Cleanup(s.Close)
	require.NoError(t, s.Configure(boardquiz.LanguageEnglish, 2))
	require.NoError(t, s.ConfirmTeams())
	require.NoError(t, s.ToggleCategory("juz_1"))
	require.NoError(t, s.StartPlaying())
	require.NoError(t, s.SelectCell("juz_1", 200))

	done := make(chan error, 1)
	go func() { done <- s.FetchQuestion(context.Background()) }()
	<-bp.started

	require.NoError(t, s.Back())
	close(bp.release)
	assert.ErrorIs(t, <-done, ErrStaleQuestion)

	snap := s.Snapshot()
	assert.Nil(t, snap.Turn.Question)
	assert.False(t, snap.Turn.Loading)
	assert.Equal(t, "juz_1", snap.Turn.SelectedCategory)
	assert.False(t, ticker.Running())
}

func TestBackPausesAndResumesCountdown(t *testing.T) {
	s, ticker := newPlayingSession(t, nil, nil)
	loadQuestion(t, s, "juz_1", 200)
	ticker.Fire(5)

	require.NoError(t, s.Back())
	assert.False(t, ticker.Running())

	require.NoError(t, s.StartPlaying())
	assert.True(t, ticker.Running())
	ticker.Fire(1)
	assert.Equal(t, DefaultTurnSeconds-6, s.Snapshot().Turn.TimeLeft)
}

func TestStandings(t *testing.T) {
	s, _ := newPlayingSession(t, nil, nil, nil)
	require.NoError(t, s.NextTurn())
	loadQuestion(t, s, "juz_1", 600)
	_, err := s.Answer(1)
	require.NoError(t, err)
	require.NoError(t, s.EndGame())

	snap := s.Snapshot()
	require.Len(t, snap.Standings, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{snap.Standings[0].ID, snap.Standings[1].ID, snap.Standings[2].ID})
	assert.Equal(t, []int{1}, snap.Winners)
}

func TestScoreCommitProperty(t *testing.T) {
	for _, value := range boardquiz.Values {
		for _, double := range []bool{false, true} {
			for _, correct := range []bool{false, true} {
				var tools []boardquiz.ToolID
				if double {
					tools = []boardquiz.ToolID{boardquiz.ToolDoublePoints}
				}
				s, _ := newPlayingSession(t, tools, nil)
				require.NoError(t, s.SelectCell("juz_1", value))
				if double {
					require.NoError(t, s.ToggleTool(boardquiz.ToolDoublePoints))
				}
				require.NoError(t, s.FetchQuestion(context.Background()))

				option := 0
				if correct {
					option = 1
				}
				_, err := s.Answer(option)
				require.NoError(t, err)

				want := 0
				if correct {
					want = value
					if double {
						want *= 2
					}
				}
				assert.Equal(t, want, s.Snapshot().Teams[0].Score, "value=%d double=%v correct=%v", value, double, correct)
			}
		}
	}
}
