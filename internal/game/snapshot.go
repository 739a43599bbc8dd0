package game

import (
	"sort"

	"github.com/samber/lo"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

// Snapshot is a complete read-only view of the session for rendering.
type Snapshot struct {
	SessionID   string               `json:"sessionId"`
	State       boardquiz.GameState  `json:"state"`
	Language    boardquiz.Language   `json:"language"`
	Teams       []boardquiz.Team     `json:"teams"`
	CurrentTeam int                  `json:"currentTeam"`
	Categories  []boardquiz.Category `json:"categories"`
	Turn        TurnView             `json:"turn"`
	Standings   []boardquiz.Team     `json:"standings"`
	Winners     []int                `json:"winners"`
}

type TurnView struct {
	SelectedCategory string             `json:"selectedCategory"`
	SelectedValue    int                `json:"selectedValue"`
	Question         *QuestionView      `json:"question"`
	Answered         bool               `json:"answered"`
	SelectedOptions  []int              `json:"selectedOptions"`
	ActiveTools      []boardquiz.ToolID `json:"activeTools"`
	PitTarget        *int               `json:"pitTarget"`
	TimeLeft         int                `json:"timeLeft"`
	Loading          bool               `json:"loading"`
	Outcome          Outcome            `json:"outcome,omitempty"`
	Points           int                `json:"points"`
}

// QuestionView hides the correct answer and explanation until the turn is
// resolved.
type QuestionView struct {
	ID            string               `json:"id"`
	Text          string               `json:"text"`
	Options       []string             `json:"options"`
	Category      string               `json:"category"`
	Value         int                  `json:"value"`
	Difficulty    boardquiz.Difficulty `json:"difficulty"`
	CorrectAnswer *int                 `json:"correctAnswer,omitempty"`
	Explanation   string               `json:"explanation,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	teams := lo.Map(s.teams, func(t *boardquiz.Team, _ int) boardquiz.Team { return t.Clone() })

	snap := Snapshot{
		SessionID:   s.id,
		State:       s.state,
		Language:    s.lang,
		Teams:       teams,
		CurrentTeam: s.current,
		Categories:  append([]boardquiz.Category{}, s.categories...),
		Turn: TurnView{
			SelectedCategory: s.turn.category,
			SelectedValue:    s.turn.value,
			Answered:         s.turn.answered,
			SelectedOptions:  append([]int{}, s.turn.selections...),
			ActiveTools:      append([]boardquiz.ToolID{}, s.turn.activeTools...),
			TimeLeft:         s.turn.timeLeft,
			Loading:          s.turn.loading,
			Outcome:          s.turn.outcome,
			Points:           s.turn.points,
		},
	}
	if s.turn.pitTarget != noTarget {
		target := s.turn.pitTarget
		snap.Turn.PitTarget = &target
	}
	if q := s.turn.question; q != nil {
		view := &QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Options:    append([]string{}, q.Options...),
			Category:   q.Category,
			Value:      q.Value,
			Difficulty: q.Difficulty,
		}
		if s.turn.answered {
			correct := q.CorrectAnswer
			view.CorrectAnswer = &correct
			view.Explanation = q.Explanation
		}
		snap.Turn.Question = view
	}
	snap.Standings, snap.Winners = standings(teams)
	return snap
}

// standings ranks teams by score, ties keeping id order, and returns the
// ids sharing the top score.
func standings(teams []boardquiz.Team) ([]boardquiz.Team, []int) {
	ranked := append([]boardquiz.Team{}, teams...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	winners := []int{}
	for _, t := range ranked {
		if t.Score != ranked[0].Score {
			break
		}
		winners = append(winners, t.ID)
	}
	return ranked, winners
}
