// Package summarize turns transcripts into summaries with a language model,
// splitting long transcripts into chunks and reducing the chunk summaries.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mediascrape/mediascrape/engine/chunk"
	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/fn"
	"github.com/mediascrape/mediascrape/pkg/ollama"
)

// DefaultMaxChars is the longest text submitted in a single request.
const DefaultMaxChars = 5000

// DefaultPrompt is the instruction placed before the text. The text is
// appended on the line after it.
const DefaultPrompt = "Summarize the following video transcript in a few concise paragraphs. " +
	"Keep the speaker's main points, claims and conclusions. Do not add opinions or information " +
	"that is not in the transcript.\n\nTranscript:"

// DefaultSampling is the sampling configuration used for every request.
var DefaultSampling = ollama.Options{
	Temperature: 0.7,
	MaxTokens:   2000,
	TopP:        0.8,
	TopK:        20,
	MinP:        0,
}

// Completer is the language-model call the summarizer depends on.
type Completer interface {
	Generate(ctx context.Context, prompt string, opts ollama.Options) (string, error)
}

// Options tunes the summarizer. Zero values take the defaults.
type Options struct {
	MaxChars  int
	ChunkSize int
	Prompt    string
	Sampling  *ollama.Options
}

// Summarizer produces summaries through a Completer.
type Summarizer struct {
	client Completer
	opts   Options
	logger *slog.Logger
}

// New creates a Summarizer.
func New(client Completer, opts Options, logger *slog.Logger) *Summarizer {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultSize
	}
	if strings.TrimSpace(opts.Prompt) == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Sampling == nil {
		s := DefaultSampling
		opts.Sampling = &s
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{client: client, opts: opts, logger: logger}
}

// Summarize submits text (truncated to MaxChars characters) with the
// instruction prompt and returns the model's summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) fn.Result[string] {
	if runes := []rune(text); len(runes) > s.opts.MaxChars {
		s.logger.Info("truncating text", "chars", len(runes), "max_chars", s.opts.MaxChars)
		text = string(runes[:s.opts.MaxChars])
	}

	out, err := s.client.Generate(ctx, s.prompt(text), *s.opts.Sampling)
	if err != nil {
		s.logger.Error("summary request failed", "error", err)
		return fn.Err[string](domain.NewExternalError("llm", "generate", "", err))
	}
	return fn.Ok(strings.TrimSpace(out))
}

// SummarizeLong summarizes text of any length. A single chunk is summarized
// directly; otherwise each chunk is summarized in order and the newline-joined
// chunk summaries are summarized once more. The first failure aborts.
func (s *Summarizer) SummarizeLong(ctx context.Context, text string) fn.Result[string] {
	chunks, err := chunk.Split(text, s.opts.ChunkSize)
	if err != nil {
		return fn.Err[string](err)
	}
	if len(chunks) == 0 {
		return fn.Err[string](fmt.Errorf("summarize: empty text"))
	}
	if len(chunks) == 1 {
		return s.Summarize(ctx, chunks[0])
	}

	parts := make([]fn.Result[string], 0, len(chunks))
	for i, c := range chunks {
		s.logger.Info("summarizing chunk", "chunk", i+1, "chunks", len(chunks))
		r := s.Summarize(ctx, c)
		if !r.IsOk() {
			return r
		}
		parts = append(parts, r)
	}

	summaries, err := fn.Collect(parts).Unwrap()
	if err != nil {
		return fn.Err[string](err)
	}
	return s.Summarize(ctx, strings.Join(summaries, "\n"))
}

// Chunks reports how many chunks SummarizeLong splits text into.
func (s *Summarizer) Chunks(text string) int {
	chunks, _ := chunk.Split(text, s.opts.ChunkSize)
	return len(chunks)
}

func (s *Summarizer) prompt(text string) string {
	return s.opts.Prompt + "\n" + text
}
