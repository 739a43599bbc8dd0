package question

import (
	"context"
	"slices"
	"sync"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

type fixtureItem struct {
	text        boardquiz.Text
	options     [boardquiz.AnswerOptionCount]boardquiz.Text
	correct     int
	explanation boardquiz.Text
}

var fixtures = []fixtureItem{
	{
		text: boardquiz.Text{AR: "ما هو أكبر كوكب في المجموعة الشمسية؟", EN: "What is the largest planet in the solar system?"},
		options: [4]boardquiz.Text{
			{AR: "زحل", EN: "Saturn"}, {AR: "المشتري", EN: "Jupiter"}, {AR: "نبتون", EN: "Neptune"}, {AR: "الأرض", EN: "Earth"},
		},
		correct:     1,
		explanation: boardquiz.Text{AR: "المشتري أكبر كواكب المجموعة الشمسية.", EN: "Jupiter is the largest planet in the solar system."},
	},
	{
		text: boardquiz.Text{AR: "ما هو الرمز الكيميائي للذهب؟", EN: "What is the chemical symbol for gold?"},
		options: [4]boardquiz.Text{
			{AR: "Ag", EN: "Ag"}, {AR: "Gd", EN: "Gd"}, {AR: "Au", EN: "Au"}, {AR: "Go", EN: "Go"},
		},
		correct:     2,
		explanation: boardquiz.Text{AR: "الرمز Au مشتق من الكلمة اللاتينية aurum.", EN: "Au comes from the Latin word aurum."},
	},
	{
		text: boardquiz.Text{AR: "كم عدد أجزاء القرآن الكريم؟", EN: "How many Juz does the Quran have?"},
		options: [4]boardquiz.Text{
			{AR: "30", EN: "30"}, {AR: "60", EN: "60"}, {AR: "114", EN: "114"}, {AR: "20", EN: "20"},
		},
		correct:     0,
		explanation: boardquiz.Text{AR: "يقسم القرآن الكريم إلى ثلاثين جزءاً.", EN: "The Quran is divided into thirty Juz."},
	},
	{
		text: boardquiz.Text{AR: "ما هي عاصمة اليابان؟", EN: "What is the capital of Japan?"},
		options: [4]boardquiz.Text{
			{AR: "أوساكا", EN: "Osaka"}, {AR: "كيوتو", EN: "Kyoto"}, {AR: "هيروشيما", EN: "Hiroshima"}, {AR: "طوكيو", EN: "Tokyo"},
		},
		correct:     3,
		explanation: boardquiz.Text{AR: "طوكيو هي عاصمة اليابان.", EN: "Tokyo is the capital of Japan."},
	},
}

// Fixture serves a small built-in question bank. It is used when no
// Gemini API key is configured.
type Fixture struct {
	mu   sync.Mutex
	next int
}

func NewFixture() *Fixture {
	return &Fixture{}
}

// Generate returns the next bank question not listed in req.Exclude,
// wrapping around when every question was excluded.
func (f *Fixture) Generate(ctx context.Context, req Request) (boardquiz.Question, error) {
	if err := ctx.Err(); err != nil {
		return boardquiz.Question{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	item := fixtures[f.next%len(fixtures)]
	for i := range fixtures {
		cand := fixtures[(f.next+i)%len(fixtures)]
		if !slices.Contains(req.Exclude, cand.text.In(req.Language)) {
			item = cand
			f.next += i
			break
		}
	}
	f.next++

	opts := make([]string, len(item.options))
	for i, o := range item.options {
		opts[i] = o.In(req.Language)
	}
	return Finalize(boardquiz.Question{
		Text:          item.text.In(req.Language),
		Options:       opts,
		CorrectAnswer: item.correct,
		Explanation:   item.explanation.In(req.Language),
	}, req)
}
