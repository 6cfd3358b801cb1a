package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hpungsan/sortd/internal/errors"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openaiChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *openaiFormat   `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiFormat struct {
	Type string `json:"type"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

type openaiEmbedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type openaiEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func openaiPost(ctx context.Context, client *http.Client, baseURL, apiKey, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewInternal(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewProviderAPI(fmt.Sprintf("request to %s failed: %v", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return errors.NewProviderAPI(fmt.Sprintf("API error (status %d): %s", resp.StatusCode, truncate(string(b), 200)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewProviderParse(fmt.Sprintf("invalid JSON from %s: %v", path, err))
	}
	return nil
}

// OpenAIGenerator talks to any OpenAI-compatible chat completions API.
// Schema constraints are not forwarded; the endpoint is asked for a JSON
// object and the caller's repair pass covers the rest.
type OpenAIGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIGenerator returns a generator for an OpenAI-compatible endpoint.
func NewOpenAIGenerator(baseURL, apiKey, model string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Available reports whether the endpoint is usable. A remote endpoint has
// no cheap probe; a configured key is the readiness signal.
func (g *OpenAIGenerator) Available(ctx context.Context) bool {
	return g.apiKey != ""
}

func (g *OpenAIGenerator) Model() string { return g.model }

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, schema []byte) (string, error) {
	var result openaiChatResponse
	err := openaiPost(ctx, g.client, g.baseURL, g.apiKey, "/chat/completions", openaiChatRequest{
		Model:          g.model,
		Messages:       []openaiMessage{{Role: "user", Content: prompt}},
		Temperature:    genTemperature,
		ResponseFormat: &openaiFormat{Type: "json_object"},
	}, &result)
	if err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", errors.NewProviderParse("no choices in completion response")
	}
	return result.Choices[0].Message.Content, nil
}

// OpenAIEmbedder generates embeddings via an OpenAI-compatible API.
type OpenAIEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIEmbedder returns an embedder for an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(baseURL, apiKey, model string) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: embedTimeout},
	}
}

func (e *OpenAIEmbedder) Available(ctx context.Context) bool {
	return e.apiKey != ""
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var result openaiEmbedResponse
	err := openaiPost(ctx, e.client, e.baseURL, e.apiKey, "/embeddings", openaiEmbedRequest{
		Input: text,
		Model: e.model,
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, errors.NewProviderParse("no embedding returned")
	}
	return result.Data[0].Embedding, nil
}
