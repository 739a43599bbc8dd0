package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// GeminiAPIKey selects the Gemini question provider; empty falls back
	// to the built-in fixture bank.
	GeminiAPIKey          string        `env:"GEMINI_API_KEY"`
	GeminiModel           string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	QuestionTimeout       time.Duration `env:"QUESTION_TIMEOUT" envDefault:"30s"`
	QuestionRatePerMinute int           `env:"QUESTION_RATE_PER_MINUTE" envDefault:"30"`

	TurnSeconds     int `env:"TURN_SECONDS" envDefault:"40"`
	RecentQuestions int `env:"RECENT_QUESTIONS" envDefault:"20"`

	HostPasswordHash string `env:"HOST_PASSWORD_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TurnSeconds <= 0 {
		return nil, fmt.Errorf("TURN_SECONDS must be positive, got %d", cfg.TurnSeconds)
	}
	if cfg.RecentQuestions <= 0 {
		return nil, fmt.Errorf("RECENT_QUESTIONS must be positive, got %d", cfg.RecentQuestions)
	}
	return &cfg, nil
}
