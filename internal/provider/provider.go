// Package provider implements the model-service clients the pipeline
// talks to: structured text generation, image description, and text
// embedding. Local Ollama is the default; an OpenAI-compatible remote
// endpoint covers generation and embeddings.
package provider

import (
	"context"
	"os"

	"github.com/hpungsan/sortd/internal/config"
)

// Generator produces schema-constrained JSON text from a prompt.
type Generator interface {
	// Available reports whether the service answers at all. Callers probe
	// once per run and degrade instead of retrying.
	Available(ctx context.Context) bool
	// Generate returns the raw model output. schema, when non-nil, is a
	// JSON schema the output must conform to.
	Generate(ctx context.Context, prompt string, schema []byte) (string, error)
	// Model returns the model name requests are issued against.
	Model() string
}

// Vision describes a single image given a prompt.
type Vision interface {
	Available(ctx context.Context) bool
	Describe(ctx context.Context, prompt, imageB64 string) (string, error)
}

// Embedder turns text into a float32 vector.
type Embedder interface {
	Available(ctx context.Context) bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Set bundles the providers a pipeline run uses. Vision and Embedder may
// be nil when the configured backend does not offer them; callers treat
// nil as unavailable.
type Set struct {
	Generator Generator
	Vision    Vision
	Embedder  Embedder
}

// New builds the provider set for the configuration. The OpenAI API key
// comes from the OPENAI_API_KEY environment variable, never from the
// config file.
func New(cfg *config.Config) Set {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		return Set{
			Generator: NewOpenAIGenerator(cfg.OpenAIBaseURL, key, cfg.Model),
			Embedder:  NewOpenAIEmbedder(cfg.OpenAIBaseURL, key, cfg.EmbedModel),
		}
	default:
		return Set{
			Generator: NewOllamaGenerator(cfg.OllamaHost, cfg.Model),
			Vision:    NewOllamaVision(cfg.OllamaHost, cfg.VisionModel),
			Embedder:  NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbedModel),
		}
	}
}
