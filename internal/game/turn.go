package game

import (
	"context"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/metrics"
	"github.com/playperu/boardquiz/internal/question"
)

// Outcome is the result of an answer submission.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeRetry     Outcome = "retry"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeTimeout   Outcome = "timeout"
)

const noTarget = -1

type turn struct {
	category    string
	value       int
	question    *boardquiz.Question
	answered    bool
	selections  []int
	activeTools []boardquiz.ToolID
	pitTarget   int
	timeLeft    int
	loading     bool
	outcome     Outcome
	points      int
}

func newTurn() turn {
	return turn{pitTarget: noTarget}
}

func (t *turn) active(id boardquiz.ToolID) bool {
	return slices.Contains(t.activeTools, id)
}

func (s *Session) requirePlaying() error {
	if s.state != boardquiz.StatePlaying {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Session) activeTeam() *boardquiz.Team {
	return s.teams[s.current]
}

// SelectCell holds (category, value) as the pending cell of the turn.
func (s *Session) SelectCell(categoryID string, value int) error {
	return s.update(func() error {
		if err := s.requirePlaying(); err != nil {
			return err
		}
		if s.turn.loading {
			return ErrFetchInProgress
		}
		if s.turn.question != nil {
			return ErrQuestionLoaded
		}
		if !s.hasCategory(categoryID) {
			return ErrUnknownCategory
		}
		if !boardquiz.ValidValue(value) {
			return ErrInvalidValue
		}
		if s.activeTeam().HasCompleted(categoryID, value) {
			return ErrCellCompleted
		}
		s.turn.category = categoryID
		s.turn.value = value
		return nil
	})
}

// ToggleTool activates or deactivates one of the active team's tools for
// this turn. Skip, used while a question is shown, abandons the turn.
func (s *Session) ToggleTool(id boardquiz.ToolID) error {
	return s.update(func() error {
		if err := s.requirePlaying(); err != nil {
			return err
		}
		tool, ok := boardquiz.LookupTool(id)
		if !ok {
			return ErrUnknownTool
		}
		team := s.activeTeam()
		if !team.Owns(id) {
			return ErrToolNotOwned
		}
		if team.HasUsed(id) {
			return ErrToolExhausted
		}
		if s.turn.loading {
			return ErrFetchInProgress
		}

		if s.turn.question != nil {
			if s.turn.answered {
				return ErrTurnAnswered
			}
			if tool.UsageTime == boardquiz.UsageBefore {
				return ErrToolBeforeQuestion
			}
			if id == boardquiz.ToolSkip {
				s.skipLocked()
				return nil
			}
		} else if tool.UsageTime == boardquiz.UsageAfter {
			return ErrToolAfterQuestion
		}

		if s.turn.active(id) {
			s.turn.activeTools = lo.Without(s.turn.activeTools, id)
			if id == boardquiz.ToolPit {
				s.turn.pitTarget = noTarget
			}
			return nil
		}
		s.turn.activeTools = append(s.turn.activeTools, id)
		return nil
	})
}

// SetPitTarget designates the team that loses points if the pit succeeds.
func (s *Session) SetPitTarget(teamID int) error {
	return s.update(func() error {
		if err := s.requirePlaying(); err != nil {
			return err
		}
		if !s.turn.active(boardquiz.ToolPit) {
			return ErrPitNotActive
		}
		if s.turn.question != nil {
			return ErrQuestionLoaded
		}
		if teamID < 0 || teamID >= len(s.teams) || teamID == s.current {
			return ErrInvalidPitTarget
		}
		s.turn.pitTarget = teamID
		return nil
	})
}

// FetchQuestion requests a question for the pending cell. The session lock
// is released while the provider runs; a result that arrives after the turn
// changed is discarded with ErrStaleQuestion.
func (s *Session) FetchQuestion(ctx context.Context) error {
	s.mu.Lock()
	req, epoch, err := s.beginFetchLocked()
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("action rejected", "action", "fetch question", "error", err)
		return err
	}
	s.publishLocked()
	s.mu.Unlock()

	start := time.Now()
	q, genErr := s.provider.Generate(ctx, req)
	elapsed := time.Since(start).Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.metrics.QuestionFetched(metrics.FetchStale, elapsed)
		s.logger.Info("discarding stale question", "category", req.Category.ID, "value", req.Value)
		return ErrStaleQuestion
	}
	s.turn.loading = false

	if genErr != nil {
		s.metrics.QuestionFetched(metrics.FetchFailed, elapsed)
		s.logger.Warn("question request failed", "category", req.Category.ID, "value", req.Value, "error", genErr)
		s.publishLocked()
		return &ProviderError{Err: genErr}
	}

	s.metrics.QuestionFetched(metrics.FetchOK, elapsed)
	s.recent.Add(q.Text)
	s.turn.question = &q
	s.turn.answered = false
	s.turn.selections = nil
	s.turn.timeLeft = s.turnSeconds
	s.startTimerLocked()
	s.logger.Info("question loaded", "team", s.current, "category", req.Category.ID, "value", req.Value)
	s.publishLocked()
	return nil
}

func (s *Session) beginFetchLocked() (question.Request, uint64, error) {
	if err := s.requirePlaying(); err != nil {
		return question.Request{}, 0, err
	}
	if s.turn.category == "" || s.turn.value == 0 {
		return question.Request{}, 0, ErrNoCellSelected
	}
	if s.turn.active(boardquiz.ToolPit) && s.turn.pitTarget == noTarget {
		return question.Request{}, 0, ErrPitTargetRequired
	}
	if s.turn.loading {
		return question.Request{}, 0, ErrFetchInProgress
	}
	if s.turn.question != nil {
		return question.Request{}, 0, ErrQuestionLoaded
	}

	cat, ok := s.catalog.Lookup(s.turn.category)
	if !ok {
		return question.Request{}, 0, ErrUnknownCategory
	}
	s.turn.loading = true
	return question.Request{
		Category: cat,
		Value:    s.turn.value,
		Language: s.lang,
		Exclude:  s.recent.List(),
	}, s.epoch, nil
}

// Answer submits option for the active team. Submissions after the turn is
// resolved, or before a question is loaded, are ignored.
func (s *Session) Answer(option int) (Outcome, error) {
	var out Outcome
	err := s.update(func() error {
		if err := s.requirePlaying(); err != nil {
			return err
		}
		if option < 0 || option >= boardquiz.AnswerOptionCount {
			return ErrInvalidOption
		}
		if s.turn.answered || s.turn.question == nil {
			out = OutcomeIgnored
			return nil
		}

		s.turn.selections = append(s.turn.selections, option)
		switch {
		case option == s.turn.question.CorrectAnswer:
			out = OutcomeCorrect
		case s.turn.active(boardquiz.ToolDoubleTry) && len(s.turn.selections) < 2:
			out = OutcomeRetry
			return nil
		default:
			out = OutcomeIncorrect
		}
		s.commitLocked(out)
		return nil
	})
	return out, err
}

// commitLocked resolves the turn: it scores the active team, consumes the
// cell and every active tool, and applies the pit.
func (s *Session) commitLocked(out Outcome) {
	s.cancelTimerLocked()
	s.turn.answered = true
	s.turn.outcome = out

	correct := out == OutcomeCorrect
	points := s.turn.value
	if s.turn.active(boardquiz.ToolDoublePoints) {
		points *= 2
	}

	team := s.activeTeam()
	if correct {
		team.Score += points
		s.turn.points = points
	}
	team.CompletedCells[s.turn.category] = append(team.CompletedCells[s.turn.category], s.turn.value)
	for _, id := range s.turn.activeTools {
		if !team.HasUsed(id) {
			team.UsedTools = append(team.UsedTools, id)
			s.metrics.ToolConsumed(string(id))
		}
	}
	if correct && s.turn.active(boardquiz.ToolPit) && s.turn.pitTarget != noTarget {
		s.teams[s.turn.pitTarget].Score -= points
	}

	awarded := 0
	if correct {
		awarded = points
	}
	s.metrics.TurnCommitted(string(out), awarded)
	s.logger.Info("turn committed",
		"team", team.ID,
		"category", s.turn.category,
		"value", s.turn.value,
		"outcome", out,
		"points", awarded,
		"tools", s.turn.activeTools,
	)
}

// skipLocked abandons the turn without scoring. Only the skip tool is
// consumed and the cell stays playable.
func (s *Session) skipLocked() {
	team := s.activeTeam()
	team.UsedTools = append(team.UsedTools, boardquiz.ToolSkip)
	s.metrics.ToolConsumed(string(boardquiz.ToolSkip))
	s.metrics.TurnCommitted(metrics.OutcomeSkipped, 0)
	s.logger.Info("turn skipped", "team", team.ID, "category", s.turn.category, "value", s.turn.value)
	s.advanceLocked()
}

// NextTurn discards the turn state and passes play to the next team. A
// shown question must be resolved first; only the skip tool abandons it.
func (s *Session) NextTurn() error {
	return s.update(func() error {
		if err := s.requirePlaying(); err != nil {
			return err
		}
		if s.turn.question != nil && !s.turn.answered {
			return ErrTurnNotAnswered
		}
		s.advanceLocked()
		return nil
	})
}

func (s *Session) advanceLocked() {
	s.cancelTimerLocked()
	s.epoch++
	s.turn = newTurn()
	s.current = (s.current + 1) % len(s.teams)
}

// invalidateFetchLocked drops any in-flight question request.
func (s *Session) invalidateFetchLocked() {
	s.epoch++
	s.turn.loading = false
}

func (s *Session) startTimerLocked() {
	s.cancelTimerLocked()
	s.timerGen++
	gen := s.timerGen
	s.stopTimer = s.ticker.Start(s.tickEvery, func() { s.tick(gen) })
}

func (s *Session) cancelTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	s.timerGen++
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen || s.turn.question == nil || s.turn.answered {
		return
	}
	s.turn.timeLeft--
	if s.turn.timeLeft <= 0 {
		s.turn.timeLeft = 0
		s.commitLocked(OutcomeTimeout)
	}
	s.publishLocked()
}
