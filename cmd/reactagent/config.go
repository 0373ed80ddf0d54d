package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/leofalp/reactloop/providers/tool"
)

// config is the environment-backed configuration of the agent. Flags
// override the corresponding fields after parsing.
type config struct {
	SerperAPIKey  string `env:"SERPER_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_API_BASE_URL"`
	Model         string `env:"REACT_MODEL" envDefault:"gpt-4o"`
	MaxSteps      int    `env:"REACT_MAX_STEPS" envDefault:"10"`
	ReasoningMode string `env:"REACT_REASONING_MODE" envDefault:"parameter"`
	TextProtocol  bool   `env:"REACT_TEXT_PROTOCOL" envDefault:"false"`

	LLMTimeout time.Duration `env:"REACT_LLM_TIMEOUT" envDefault:"60s"`
	LLMRetries int           `env:"REACT_LLM_RETRIES" envDefault:"2"`
}

// loadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func loadConfig(envFile string) (config, error) {
	if envFile != "" {
		// a missing file is fine, the environment may be complete
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max steps must be at least 1, got %d", c.MaxSteps)
	}
	if c.LLMRetries < 0 {
		return fmt.Errorf("llm retries must not be negative, got %d", c.LLMRetries)
	}
	if _, err := tool.ParseReasoningMode(c.ReasoningMode); err != nil {
		return err
	}
	return nil
}
