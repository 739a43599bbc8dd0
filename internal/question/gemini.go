package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

// contentGenerator is the slice of the genai client the provider needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates questions with the Gemini API.
type Gemini struct {
	models  contentGenerator
	model   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

type GeminiOptions struct {
	APIKey string
	Model  string
	// PerMinute caps outgoing requests; zero disables the limit.
	PerMinute int
}

func NewGemini(ctx context.Context, logger *slog.Logger, opts GeminiOptions) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return newGemini(client.Models, logger, opts), nil
}

func newGemini(models contentGenerator, logger *slog.Logger, opts GeminiOptions) *Gemini {
	limit := rate.Inf
	burst := 1
	if opts.PerMinute > 0 {
		limit = rate.Limit(float64(opts.PerMinute) / 60)
		burst = max(1, opts.PerMinute/10)
	}
	return &Gemini{
		models:  models,
		model:   opts.Model,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

func (g *Gemini) Generate(ctx context.Context, req Request) (boardquiz.Question, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return boardquiz.Question{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(req.Language), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	})
	if err != nil {
		return boardquiz.Question{}, fmt.Errorf("generating content: %w", err)
	}

	q, err := parseQuestion(resp.Text())
	if err != nil {
		g.logger.Warn("unparseable question", "category", req.Category.ID, "value", req.Value, "error", err)
		return boardquiz.Question{}, err
	}
	return Finalize(q, req)
}

// Check fails while the request budget is spent, so a probe can surface
// throttling before a turn hits it.
func (g *Gemini) Check(_ context.Context) error {
	if g.limiter.Limit() == rate.Inf {
		return nil
	}
	if g.limiter.Tokens() < 1 {
		return ErrThrottled
	}
	return nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"id":   {Type: genai.TypeString},
		"text": {Type: genai.TypeString},
		"options": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"correctAnswer": {Type: genai.TypeInteger},
		"explanation":   {Type: genai.TypeString},
		"category":      {Type: genai.TypeString},
		"difficulty":    {Type: genai.TypeString},
	},
	Required: []string{"id", "text", "options", "correctAnswer", "explanation"},
}

func systemInstruction(lang boardquiz.Language) string {
	if lang == boardquiz.LanguageArabic {
		return "أنت خبير في المسابقات الثقافية. ولد سؤالاً واحداً جديداً تماماً لم يسبق ذكره."
	}
	return "You are a trivia expert. Generate one unique, never-before-seen question."
}

func buildPrompt(req Request) string {
	language := "English"
	if req.Language == boardquiz.LanguageArabic {
		language = "Arabic"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Category: %q, Difficulty: %q, Value: \"%d\" points.\n",
		req.Category.Name.In(req.Language), boardquiz.DifficultyFor(req.Value), req.Value)
	fmt.Fprintf(&b, "Language: %s.\n", language)
	b.WriteString("Requirements: 4 options, one correct answer (index 0-3), an explanation, and ensure it is different from common trivia.\n")
	fmt.Fprintf(&b, "Excluded previous concepts: %s", strings.Join(req.Exclude, ", "))
	return b.String()
}

func parseQuestion(raw string) (boardquiz.Question, error) {
	var q boardquiz.Question
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &q); err != nil {
		return boardquiz.Question{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return q, nil
}
