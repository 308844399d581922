// Package ai talks to the remote inference service (embeddings and text
// generation) over its OpenAI-compatible HTTP surface.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// InputType tags an embedding request with how the inputs will be used.
// Documents and queries use different model-side representations and must
// not be confused.
type InputType string

const (
	InputDocument InputType = "search_document"
	InputQuery    InputType = "search_query"
)

// EmbeddingConfig holds the embedding endpoint settings.
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// GenerationConfig holds the text-generation endpoint settings.
type GenerationConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopK        int
	TopP        float64
}

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		// The service applies its own fixed connect/read limits; this is the
		// sole timeout control on the transport.
		httpClient: &http.Client{Timeout: 240 * time.Second},
	}
}

// EmbedBatch returns one vector per input, positionally aligned. The service
// is asked to truncate any input that still exceeds its hard limit when
// truncate is set; chunking already bounds input length, so this is a
// backstop against a smaller service-side cap.
func (c *Client) EmbedBatch(ctx context.Context, cfg EmbeddingConfig, inputs []string, kind InputType, truncate bool) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	reqBody := map[string]interface{}{
		"model":      cfg.Model,
		"input":      inputs,
		"input_type": string(kind),
	}
	if truncate {
		reqBody["truncate"] = "END"
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build embedding request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding json failed: %w", err)
	}
	if len(parsed.Data) != len(inputs) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d inputs, got %d vectors", len(inputs), len(parsed.Data))
	}

	result := make([][]float32, len(parsed.Data))
	for i := range parsed.Data {
		if len(parsed.Data[i].Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at position %d", i)
		}
		result[i] = parsed.Data[i].Embedding
	}
	return result, nil
}

// Generate runs one non-streaming completion for the prompt and returns the
// first candidate text.
func (c *Client) Generate(ctx context.Context, cfg GenerationConfig, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":       cfg.Model,
		"prompt":      prompt,
		"stream":      false,
		"max_tokens":  cfg.MaxTokens,
		"temperature": cfg.Temperature,
		"top_k":       cfg.TopK,
		"top_p":       cfg.TopP,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generation request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build generation request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse generation json failed: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Text == "" {
		return "", fmt.Errorf("no generated text in response")
	}
	return parsed.Choices[0].Text, nil
}

// BoundGenerator binds a Client to one generation configuration.
type BoundGenerator struct {
	Client *Client
	Config GenerationConfig
}

func (g BoundGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.Client.Generate(ctx, g.Config, prompt)
}
