package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOllama)
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	if cfg.PreviewChars != 1000 {
		t.Errorf("PreviewChars = %d, want 1000", cfg.PreviewChars)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{"model": "qwen2.5:7b", "preview_chars": 500, "disabled_tools": ["organize_execute"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "qwen2.5:7b" {
		t.Errorf("Model = %q, want overlay value", cfg.Model)
	}
	if cfg.PreviewChars != 500 {
		t.Errorf("PreviewChars = %d, want 500", cfg.PreviewChars)
	}
	// Untouched fields keep defaults
	if cfg.VisionModel != "llava:7b" {
		t.Errorf("VisionModel = %q, want default", cfg.VisionModel)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "organize_execute" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_Slices(t *testing.T) {
	base := &Config{DisabledTools: []string{"a", "b"}}
	overlay := &Config{DisabledTools: []string{" b ", "c", ""}}

	got := Merge(base, overlay).DisabledTools
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg := &Config{MaxFileSizeMB: 500}
	if got := cfg.MaxFileSizeBytes(); got != 500*1024*1024 {
		t.Errorf("MaxFileSizeBytes = %d", got)
	}
}
