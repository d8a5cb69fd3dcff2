// Package ollama is a small client for an Ollama-compatible HTTP API: text
// generation for summaries and embeddings for the vector store.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single HTTP call to the model service.
const DefaultTimeout = 10 * time.Minute

// Client calls the model service.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the service at baseURL. A non-empty apiKey
// is sent as a bearer token. timeout <= 0 means DefaultTimeout.
func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetRateLimit caps requests at perMinute. perMinute <= 0 removes the cap.
func (c *Client) SetRateLimit(perMinute int) {
	if perMinute <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Model returns the generation model name.
func (c *Client) Model() string { return c.model }

// Options is the sampling configuration for one generation.
type Options struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
	MinP        float64 `json:"min_p"`
}

type generateReq struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type generateResp struct {
	Response *string `json:"response"`
}

// Generate sends prompt and returns the model's text. When the reply has no
// text field the raw body is returned as the text.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	body, err := c.post(ctx, "/api/generate", generateReq{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: opts,
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var result generateResp
	if err := json.Unmarshal(body, &result); err != nil || result.Response == nil {
		return strings.TrimSpace(string(body)), nil
	}
	return *result.Response, nil
}

type embedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResp struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding of text computed by model.
func (c *Client) Embed(ctx context.Context, model, text string) ([]float32, error) {
	body, err := c.post(ctx, "/api/embeddings", embedReq{Model: model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	var result embedResp
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embed: empty embedding")
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

// StatusError is returned for non-200 replies.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(snippet)}
	}
	return body, nil
}
