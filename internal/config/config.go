package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Provider kinds supported for model inference.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds application configuration.
type Config struct {
	// Provider selects the inference backend: "ollama" (local) or "openai"
	// (any OpenAI-compatible remote API).
	Provider string `json:"provider,omitempty"`

	// OllamaHost is the base URL of the local Ollama instance.
	OllamaHost string `json:"ollama_host,omitempty"`

	// Model is the text-generation model used for suggestion generation
	// and text enrichment.
	Model string `json:"model,omitempty"`

	// VisionModel is the model used for per-image analysis.
	VisionModel string `json:"vision_model,omitempty"`

	// EmbedModel is the model used to embed file summaries into the
	// local index after a successful organization.
	EmbedModel string `json:"embed_model,omitempty"`

	// OpenAIBaseURL overrides the remote API base URL when Provider is
	// "openai". The API key is always read from OPENAI_API_KEY.
	OpenAIBaseURL string `json:"openai_base_url,omitempty"`

	// PreviewChars is the maximum number of characters read from text
	// files as a content preview.
	PreviewChars int `json:"preview_chars,omitempty"`

	// MaxFileSizeMB is the per-file size limit during scanning. Larger
	// files are skipped with a warning.
	MaxFileSizeMB int `json:"max_file_size_mb,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:      ProviderOllama,
		OllamaHost:    "http://localhost:11434",
		Model:         "llama3.2:3b",
		VisionModel:   "llava:7b",
		EmbedModel:    "nomic-embed-text",
		PreviewChars:  1000,
		MaxFileSizeMB: 500,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.sortd.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Provider = overlayString(base.Provider, overlay.Provider)
	result.OllamaHost = overlayString(base.OllamaHost, overlay.OllamaHost)
	result.Model = overlayString(base.Model, overlay.Model)
	result.VisionModel = overlayString(base.VisionModel, overlay.VisionModel)
	result.EmbedModel = overlayString(base.EmbedModel, overlay.EmbedModel)
	result.OpenAIBaseURL = overlayString(base.OpenAIBaseURL, overlay.OpenAIBaseURL)

	result.PreviewChars = overlay.PreviewChars
	if result.PreviewChars == 0 {
		result.PreviewChars = base.PreviewChars
	}

	result.MaxFileSizeMB = overlay.MaxFileSizeMB
	if result.MaxFileSizeMB == 0 {
		result.MaxFileSizeMB = base.MaxFileSizeMB
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func overlayString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// MaxFileSizeBytes returns the scan size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}
