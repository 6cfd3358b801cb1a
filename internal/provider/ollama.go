package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/sortd/internal/errors"
)

const (
	probeTimeout   = 5 * time.Second
	requestTimeout = 120 * time.Second
	embedTimeout   = 60 * time.Second
)

// Generation options tuned for structured multi-suggestion output.
const (
	genTemperature = 0.5
	genNumPredict  = 6000
	genNumCtx      = 8192
)

// Vision options: low temperature, short answers.
const (
	visionTemperature = 0.3
	visionNumPredict  = 500
)

type ollamaGenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  json.RawMessage `json:"format,omitempty"`
	Images  []string        `json:"images,omitempty"`
	Options map[string]any  `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListOllamaModels returns the names of models installed on the host.
func ListOllamaModels(ctx context.Context, host string) ([]string, error) {
	tags, err := fetchTags(ctx, host, &http.Client{Timeout: probeTimeout})
	if err != nil {
		return nil, errors.NewProviderUnavailable(fmt.Sprintf("cannot reach Ollama at %s: %v", host, err))
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func fetchTags(ctx context.Context, host string, client *http.Client) (*ollamaTagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}
	return &tags, nil
}

// hasModel reports whether any installed model name contains want
// (matches "llava:7b" against want "llava").
func hasModel(tags *ollamaTagsResponse, want string) bool {
	base := strings.ToLower(strings.SplitN(want, ":", 2)[0])
	for _, m := range tags.Models {
		if strings.Contains(strings.ToLower(m.Name), base) {
			return true
		}
	}
	return false
}

func postGenerate(ctx context.Context, client *http.Client, host string, payload ollamaGenerateRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.NewProviderAPI(fmt.Sprintf("Ollama request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", errors.NewProviderAPI(fmt.Sprintf("Ollama API error (status %d): %s", resp.StatusCode, truncate(string(b), 200)))
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.NewProviderParse(fmt.Sprintf("invalid JSON from Ollama: %v", err))
	}
	return result.Response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// OllamaGenerator issues schema-constrained generation requests against
// a local Ollama instance.
type OllamaGenerator struct {
	host   string
	model  string
	client *http.Client
	probe  *http.Client
}

// NewOllamaGenerator returns a generator for the given host and model.
func NewOllamaGenerator(host, model string) *OllamaGenerator {
	return &OllamaGenerator{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
		probe:  &http.Client{Timeout: probeTimeout},
	}
}

func (g *OllamaGenerator) Available(ctx context.Context) bool {
	_, err := fetchTags(ctx, g.host, g.probe)
	return err == nil
}

func (g *OllamaGenerator) Model() string { return g.model }

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, schema []byte) (string, error) {
	return postGenerate(ctx, g.client, g.host, ollamaGenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
		Format: schema,
		Options: map[string]any{
			"temperature": genTemperature,
			"num_predict": genNumPredict,
			"num_ctx":     genNumCtx,
		},
	})
}

// OllamaVision describes images via a vision-capable Ollama model.
type OllamaVision struct {
	host   string
	model  string
	client *http.Client
	probe  *http.Client
}

// NewOllamaVision returns a vision provider for the given host and model.
func NewOllamaVision(host, model string) *OllamaVision {
	return &OllamaVision{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
		probe:  &http.Client{Timeout: probeTimeout},
	}
}

// Available requires both a live host and an installed model variant.
func (v *OllamaVision) Available(ctx context.Context) bool {
	tags, err := fetchTags(ctx, v.host, v.probe)
	if err != nil {
		return false
	}
	return hasModel(tags, v.model)
}

func (v *OllamaVision) Describe(ctx context.Context, prompt, imageB64 string) (string, error) {
	return postGenerate(ctx, v.client, v.host, ollamaGenerateRequest{
		Model:  v.model,
		Prompt: prompt,
		Stream: false,
		Images: []string{imageB64},
		Options: map[string]any{
			"temperature": visionTemperature,
			"num_predict": visionNumPredict,
		},
	})
}

// OllamaEmbedder generates embeddings via Ollama.
type OllamaEmbedder struct {
	host   string
	model  string
	client *http.Client
	probe  *http.Client
}

// NewOllamaEmbedder returns an embedder for the given host and model.
func NewOllamaEmbedder(host, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: embedTimeout},
		probe:  &http.Client{Timeout: probeTimeout},
	}
}

func (e *OllamaEmbedder) Available(ctx context.Context) bool {
	tags, err := fetchTags(ctx, e.host, e.probe)
	if err != nil {
		return false
	}
	return hasModel(tags, e.model)
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.host+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.NewProviderAPI(fmt.Sprintf("Ollama embed request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, errors.NewProviderAPI(fmt.Sprintf("Ollama embed API error (status %d): %s", resp.StatusCode, truncate(string(b), 200)))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewProviderParse(fmt.Sprintf("invalid embed JSON from Ollama: %v", err))
	}
	if len(result.Embedding) == 0 {
		return nil, errors.NewProviderParse("no embedding returned")
	}
	return result.Embedding, nil
}
