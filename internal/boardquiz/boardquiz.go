// Package boardquiz defines the core domain types of the trivia board game.
// It has no external dependencies, so every other package can import it.
package boardquiz

import (
	"slices"
	"strings"
)

type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageEnglish
}

// Text is a bilingual string.
type Text struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// In returns the variant for lang, falling back to English.
func (t Text) In(lang Language) string {
	if lang == LanguageArabic {
		return t.AR
	}
	return t.EN
}

type GameState string

const (
	StateStart             GameState = "START"
	StateSetup             GameState = "SETUP"
	StateCategorySelection GameState = "CATEGORY_SELECTION"
	StatePlaying           GameState = "PLAYING"
	StateSummary           GameState = "SUMMARY"
)

// Board values. A cell is a (category, value) pair.
var Values = []int{200, 400, 600}

func ValidValue(v int) bool {
	return slices.Contains(Values, v)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyFor maps a board value to its difficulty tier.
func DifficultyFor(value int) Difficulty {
	switch value {
	case 200:
		return DifficultyEasy
	case 400:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

const (
	MinTeams          = 2
	MaxTeams          = 4
	MaxToolsPerTeam   = 3
	MaxCategories     = 6
	AnswerOptionCount = 4
)

type Category struct {
	ID    string `json:"id"`
	Name  Text   `json:"name"`
	Group Text   `json:"group"`
	Icon  string `json:"icon"`
}

// Matches reports whether term is a case-insensitive substring of the name
// or group in either language.
func (c Category) Matches(term string) bool {
	s := strings.ToLower(term)
	for _, v := range []string{c.Name.AR, c.Name.EN, c.Group.AR, c.Group.EN} {
		if strings.Contains(strings.ToLower(v), s) {
			return true
		}
	}
	return false
}

type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Category      string     `json:"category"`
	Value         int        `json:"value"`
	Difficulty    Difficulty `json:"difficulty"`
}

type Team struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Score          int              `json:"score"`
	Tools          []ToolID         `json:"tools"`
	UsedTools      []ToolID         `json:"usedTools"`
	CompletedCells map[string][]int `json:"completedCells"`
}

// HasCompleted reports whether the team already played the cell.
func (t *Team) HasCompleted(categoryID string, value int) bool {
	return slices.Contains(t.CompletedCells[categoryID], value)
}

func (t *Team) Owns(id ToolID) bool {
	return slices.Contains(t.Tools, id)
}

func (t *Team) HasUsed(id ToolID) bool {
	return slices.Contains(t.UsedTools, id)
}

// Clone returns a deep copy safe to hand to readers.
func (t *Team) Clone() Team {
	c := *t
	c.Tools = append([]ToolID{}, t.Tools...)
	c.UsedTools = append([]ToolID{}, t.UsedTools...)
	c.CompletedCells = make(map[string][]int, len(t.CompletedCells))
	for k, v := range t.CompletedCells {
		c.CompletedCells[k] = append([]int{}, v...)
	}
	return c
}
