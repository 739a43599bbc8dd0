// Package game runs one board-quiz session: the game state machine, the
// per-turn scoring engine and the turn countdown.
//
// A Session is safe for concurrent use. Every mutation happens under the
// session lock; the only call made without it is the question request, which
// is keyed by the turn epoch so a late result for an abandoned turn is dropped.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/catalog"
	"github.com/playperu/boardquiz/internal/metrics"
	"github.com/playperu/boardquiz/internal/question"
)

const (
	DefaultTurnSeconds     = 40
	DefaultRecentQuestions = 20
)

type Options struct {
	Logger   *slog.Logger
	Provider question.Provider
	Catalog  *catalog.Catalog
	Ticker   Ticker
	Metrics  *metrics.Recorder

	TurnSeconds     int
	TickInterval    time.Duration
	RecentQuestions int

	// OnChange receives a snapshot after every mutation. It runs under the
	// session lock and must not block or call back into the session.
	OnChange func(Snapshot)
}

type Session struct {
	mu sync.Mutex

	id          string
	logger      *slog.Logger
	provider    question.Provider
	catalog     *catalog.Catalog
	ticker      Ticker
	metrics     *metrics.Recorder
	turnSeconds int
	tickEvery   time.Duration
	onChange    func(Snapshot)

	state      boardquiz.GameState
	lang       boardquiz.Language
	teams      []*boardquiz.Team
	categories []boardquiz.Category
	current    int
	turn       turn
	epoch      uint64
	recent     *question.Recent

	stopTimer func()
	timerGen  uint64
	closed    bool

	// started is set once play begins; team tools are fixed from then on.
	started bool
}

func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New()
	}
	if opts.Provider == nil {
		opts.Provider = question.NewFixture()
	}
	if opts.Ticker == nil {
		opts.Ticker = TimeTicker{}
	}
	if opts.TurnSeconds <= 0 {
		opts.TurnSeconds = DefaultTurnSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.RecentQuestions <= 0 {
		opts.RecentQuestions = DefaultRecentQuestions
	}

	id := uuid.NewString()
	return &Session{
		id:          id,
		logger:      opts.Logger.With("session", id),
		provider:    opts.Provider,
		catalog:     opts.Catalog,
		ticker:      opts.Ticker,
		metrics:     opts.Metrics,
		turnSeconds: opts.TurnSeconds,
		tickEvery:   opts.TickInterval,
		onChange:    opts.OnChange,
		state:       boardquiz.StateStart,
		lang:        boardquiz.LanguageArabic,
		turn:        newTurn(),
		recent:      question.NewRecent(opts.RecentQuestions),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// update runs fn under the lock and publishes a snapshot if it succeeded.
func (s *Session) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		if IsValidation(err) {
			s.logger.Debug("action rejected", "state", s.state, "error", err)
		}
		return err
	}
	s.publishLocked()
	return nil
}

func (s *Session) publishLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

func (s *Session) setState(to boardquiz.GameState) {
	s.logger.Info("state changed", "from", s.state, "to", to)
	s.state = to
}

// Configure leaves START: it fixes the language and creates teamCount
// default-named teams.
func (s *Session) Configure(lang boardquiz.Language, teamCount int) error {
	return s.update(func() error {
		if s.state != boardquiz.StateStart {
			return ErrInvalidTransition
		}
		if !lang.Valid() {
			return ErrInvalidLanguage
		}
		if teamCount < boardquiz.MinTeams || teamCount > boardquiz.MaxTeams {
			return ErrInvalidTeamCount
		}

		s.lang = lang
		s.teams = make([]*boardquiz.Team, teamCount)
		for i := range s.teams {
			s.teams[i] = &boardquiz.Team{
				ID:             i,
				Name:           defaultTeamName(lang, i),
				Tools:          []boardquiz.ToolID{},
				UsedTools:      []boardquiz.ToolID{},
				CompletedCells: map[string][]int{},
			}
		}
		s.current = 0
		s.turn = newTurn()
		s.started = false
		s.setState(boardquiz.StateSetup)
		return nil
	})
}

func defaultTeamName(lang boardquiz.Language, i int) string {
	if lang == boardquiz.LanguageArabic {
		return fmt.Sprintf("فريق %d", i+1)
	}
	return fmt.Sprintf("Team %d", i+1)
}

// SetLanguage switches the session language. Allowed in every state.
func (s *Session) SetLanguage(lang boardquiz.Language) error {
	return s.update(func() error {
		if !lang.Valid() {
			return ErrInvalidLanguage
		}
		s.lang = lang
		return nil
	})
}

func (s *Session) Language() boardquiz.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *Session) team(id int) (*boardquiz.Team, error) {
	if id < 0 || id >= len(s.teams) {
		return nil, ErrUnknownTeam
	}
	return s.teams[id], nil
}

// RenameTeam edits a team name during SETUP. Names are checked when the
// setup is confirmed.
func (s *Session) RenameTeam(teamID int, name string) error {
	return s.update(func() error {
		if s.state != boardquiz.StateSetup {
			return ErrInvalidTransition
		}
		t, err := s.team(teamID)
		if err != nil {
			return err
		}
		t.Name = name
		return nil
	})
}

// ToggleTeamTool adds or removes a tool from a team's setup selection.
// Selections are locked once the game has started, even after Back.
func (s *Session) ToggleTeamTool(teamID int, tool boardquiz.ToolID) error {
	return s.update(func() error {
		if s.state != boardquiz.StateSetup {
			return ErrInvalidTransition
		}
		if s.started {
			return ErrToolsLocked
		}
		t, err := s.team(teamID)
		if err != nil {
			return err
		}
		if _, ok := boardquiz.LookupTool(tool); !ok {
			return ErrUnknownTool
		}

		if t.Owns(tool) {
			t.Tools = lo.Without(t.Tools, tool)
			return nil
		}
		if len(t.Tools) >= boardquiz.MaxToolsPerTeam {
			return ErrTooManyTools
		}
		t.Tools = append(t.Tools, tool)
		return nil
	})
}

// ConfirmTeams moves SETUP to CATEGORY_SELECTION once every trimmed team
// name is non-empty and unique.
func (s *Session) ConfirmTeams() error {
	return s.update(func() error {
		if s.state != boardquiz.StateSetup {
			return ErrInvalidTransition
		}
		names := make([]string, len(s.teams))
		for i, t := range s.teams {
			names[i] = strings.TrimSpace(t.Name)
			if names[i] == "" {
				return ErrEmptyTeamName
			}
		}
		if len(lo.Uniq(names)) != len(names) {
			return ErrDuplicateTeamNames
		}
		for i, t := range s.teams {
			t.Name = names[i]
		}
		s.setState(boardquiz.StateCategorySelection)
		return nil
	})
}

// ToggleCategory adds or removes a board category.
func (s *Session) ToggleCategory(categoryID string) error {
	return s.update(func() error {
		if s.state != boardquiz.StateCategorySelection {
			return ErrInvalidTransition
		}
		cat, ok := s.catalog.Lookup(categoryID)
		if !ok {
			return ErrUnknownCategory
		}

		if s.hasCategory(categoryID) {
			s.categories = lo.Reject(s.categories, func(c boardquiz.Category, _ int) bool {
				return c.ID == categoryID
			})
			return nil
		}
		if len(s.categories) >= boardquiz.MaxCategories {
			return ErrTooManyCategories
		}
		s.categories = append(s.categories, cat)
		return nil
	})
}

func (s *Session) hasCategory(id string) bool {
	return lo.ContainsBy(s.categories, func(c boardquiz.Category) bool { return c.ID == id })
}

// StartPlaying moves CATEGORY_SELECTION to PLAYING.
func (s *Session) StartPlaying() error {
	return s.update(func() error {
		if s.state != boardquiz.StateCategorySelection {
			return ErrInvalidTransition
		}
		if len(s.categories) == 0 {
			return ErrNoCategories
		}

		if s.turn.question == nil && s.turn.category != "" && !s.hasCategory(s.turn.category) {
			s.turn.category, s.turn.value = "", 0
		}
		s.started = true
		s.setState(boardquiz.StatePlaying)
		if s.turn.question != nil && !s.turn.answered && s.turn.timeLeft > 0 {
			s.startTimerLocked()
		}
		return nil
	})
}

// Back rewinds the state pointer one step. Teams and categories are kept.
func (s *Session) Back() error {
	return s.update(func() error {
		switch s.state {
		case boardquiz.StateSetup:
			s.setState(boardquiz.StateStart)
		case boardquiz.StateCategorySelection:
			s.setState(boardquiz.StateSetup)
		case boardquiz.StatePlaying:
			s.cancelTimerLocked()
			s.invalidateFetchLocked()
			s.setState(boardquiz.StateCategorySelection)
		default:
			return ErrInvalidTransition
		}
		return nil
	})
}

// EndGame jumps from PLAYING to SUMMARY regardless of the turn's progress.
func (s *Session) EndGame() error {
	return s.update(func() error {
		if s.state != boardquiz.StatePlaying {
			return ErrInvalidTransition
		}
		s.cancelTimerLocked()
		s.epoch++
		s.turn = newTurn()
		s.setState(boardquiz.StateSummary)
		return nil
	})
}

// Reset discards every team and category and returns to START.
func (s *Session) Reset() error {
	return s.update(func() error {
		if s.state != boardquiz.StateSummary {
			return ErrInvalidTransition
		}
		s.cancelTimerLocked()
		s.epoch++
		s.teams = nil
		s.categories = nil
		s.current = 0
		s.turn = newTurn()
		s.started = false
		s.recent.Reset()
		s.setState(boardquiz.StateStart)
		return nil
	})
}

// Close stops the countdown. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.epoch++
	s.closed = true
}

// Check reports ErrSessionClosed once Close has run.
func (s *Session) Check(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
