// Package question generates board questions for a (category, value, language)
// request and tracks the recently asked question texts of a session.
package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

var (
	ErrMalformed = errors.New("malformed question")
	ErrThrottled = errors.New("question provider request budget exhausted")
)

// Request describes the cell a question is wanted for.
type Request struct {
	Category boardquiz.Category
	Value    int
	Language boardquiz.Language
	// Exclude lists recent question texts the provider should avoid repeating.
	Exclude []string
}

// Provider generates one question per request.
type Provider interface {
	Generate(ctx context.Context, req Request) (boardquiz.Question, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (boardquiz.Question, error)

func (f ProviderFunc) Generate(ctx context.Context, req Request) (boardquiz.Question, error) {
	return f(ctx, req)
}

// Finalize validates q and stamps it with the request's cell.
func Finalize(q boardquiz.Question, req Request) (boardquiz.Question, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return boardquiz.Question{}, fmt.Errorf("%w: empty text", ErrMalformed)
	}
	if len(q.Options) != boardquiz.AnswerOptionCount {
		return boardquiz.Question{}, fmt.Errorf("%w: %d options", ErrMalformed, len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= boardquiz.AnswerOptionCount {
		return boardquiz.Question{}, fmt.Errorf("%w: correct answer %d out of range", ErrMalformed, q.CorrectAnswer)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Category = req.Category.ID
	q.Value = req.Value
	q.Difficulty = boardquiz.DifficultyFor(req.Value)
	return q, nil
}
