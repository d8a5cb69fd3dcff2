// Package config loads the settings file shared by the scraper commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/mediascrape/mediascrape/engine/domain"
)

// DefaultPath is the settings file read when none is given.
const DefaultPath = "env.json"

// DefaultEmbedModel is used by the vector sink when no embed_model is set.
const DefaultEmbedModel = "nomic-embed-text"

// Settings holds the model service settings and tool paths. LLMURL must point
// at a service that speaks the Ollama HTTP API (/api/generate and
// /api/embeddings). LM Studio's OpenAI-style endpoints are not supported.
type Settings struct {
	APIKey     string `json:"apikey"`
	LLMURL     string `json:"llm_url"`
	LLMModel   string `json:"llm_model"`
	Prompt     string `json:"prompt,omitempty"`
	EmbedModel string `json:"embed_model,omitempty"`
	YtDlpPath  string `json:"ytdlp_path,omitempty"`
}

// Load reads the JSON settings at path, then applies environment overrides.
// A .env file in the working directory is loaded first when present; it never
// overrides variables that are already set. A missing settings file is fine as
// long as the environment provides the required values.
func Load(path string) (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("config: .env: %w", err)
	}

	var (
		s      Settings
		legacy struct {
			URL string `json:"lm_studio_url"`
		}
	)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		json.Unmarshal(data, &legacy)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	s.APIKey = envOr("LLM_API_KEY", s.APIKey)
	s.LLMURL = envOr("LLM_URL", s.LLMURL)
	s.LLMModel = envOr("LLM_MODEL", s.LLMModel)
	s.EmbedModel = envOr("EMBED_MODEL", s.EmbedModel)
	s.YtDlpPath = envOr("YTDLP_PATH", s.YtDlpPath)
	if s.EmbedModel == "" {
		s.EmbedModel = DefaultEmbedModel
	}
	if s.LLMURL == "" && legacy.URL != "" {
		return Settings{}, fmt.Errorf("config: llm_url: %w (lm_studio_url is no longer read; set llm_url to an Ollama-compatible endpoint)", domain.ErrMissingSetting)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the model service is configured.
func (s Settings) Validate() error {
	if s.LLMURL == "" {
		return fmt.Errorf("config: llm_url: %w", domain.ErrMissingSetting)
	}
	if s.LLMModel == "" {
		return fmt.Errorf("config: llm_model: %w", domain.ErrMissingSetting)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
