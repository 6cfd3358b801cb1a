package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sortd/internal/config"
)

// newOllamaStub serves just enough of the Ollama API for a pipeline run:
// the model listing probe and a generate endpoint that always returns a
// fixed suggestion set covering the given file names.
func newOllamaStub(t *testing.T, names []string) *httptest.Server {
	t.Helper()

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	files := strings.Join(quoted, ", ")
	suggestion := fmt.Sprintf(`{
		"suggestions": [{
			"folder_structure": {"base_path": "Organized", "folders": [{"name": "Notes", "files": [%s]}]},
			"confidence": 0.9,
			"reasoning": "all plain notes"
		}],
		"file_count": %d,
		"analysis_summary": "stub"
	}`, files, len(names))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			fmt.Fprint(w, `{"models":[{"name":"llama3.2:3b"}]}`)
		case "/api/generate":
			resp := map[string]string{"response": suggestion}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSetup(t *testing.T, names []string) (*Handlers, string) {
	t.Helper()

	stub := newOllamaStub(t, names)
	cfg := config.DefaultConfig()
	cfg.OllamaHost = stub.URL

	baseDir := t.TempDir()
	return NewHandlers(baseDir, cfg), baseDir
}

func writeFiles(t *testing.T, names []string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("note: "+name), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleSuggest(t *testing.T) {
	names := []string{"meeting.txt", "recipe.txt"}
	h, _ := testSetup(t, names)
	dir := writeFiles(t, names)
	ctx := context.Background()

	result, err := h.HandleSuggest(ctx, makeRequest(map[string]any{
		"paths": []any{dir},
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var payload SuggestResult
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if payload.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(payload.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(payload.Suggestions))
	}
	if payload.Suggestions[0].FolderStructure.BasePath != "Organized" {
		t.Errorf("base path = %q", payload.Suggestions[0].FolderStructure.BasePath)
	}

	// suggest never moves anything
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("source %s gone after suggest: %v", name, err)
		}
	}
}

func TestHandleSuggest_Errors(t *testing.T) {
	h, _ := testSetup(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		errorCode string
	}{
		{
			name:      "no paths",
			args:      map[string]any{"paths": []any{}},
			errorCode: "NO_INPUT_PATHS",
		},
		{
			name:      "nonexistent path",
			args:      map[string]any{"paths": []any{"/no/such/place"}},
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "malformed paths argument",
			args:      map[string]any{"paths": "not-an-array"},
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleSuggest(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error result, got success")
			}
			assertErrorCode(t, result, tt.errorCode)
		})
	}
}

func TestHandleExecute_DryRun(t *testing.T) {
	names := []string{"meeting.txt"}
	h, _ := testSetup(t, names)
	dir := writeFiles(t, names)

	result, err := h.HandleExecute(context.Background(), makeRequest(map[string]any{
		"paths":   []any{dir},
		"dry_run": true,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var payload ExecuteResult
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if payload.Result.Status != "dry_run" {
		t.Errorf("status = %q, want dry_run", payload.Result.Status)
	}
	if _, err := os.Stat(filepath.Join(dir, "meeting.txt")); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
}

func TestHandleExecute_MovesAndLearns(t *testing.T) {
	names := []string{"meeting.txt", "recipe.txt"}
	h, _ := testSetup(t, names)
	dir := writeFiles(t, names)
	ctx := context.Background()

	result, err := h.HandleExecute(ctx, makeRequest(map[string]any{
		"paths": []any{dir},
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var payload ExecuteResult
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if payload.Result.Status != "success" {
		t.Fatalf("status = %q, want success", payload.Result.Status)
	}
	if payload.Result.FilesProcessed != 2 {
		t.Errorf("processed = %d, want 2", payload.Result.FilesProcessed)
	}

	for _, name := range names {
		moved := filepath.Join(dir, "Organized", "Notes", name)
		if _, err := os.Stat(moved); err != nil {
			t.Errorf("expected %s at destination: %v", name, err)
		}
	}

	// the run is visible through prefs_stats
	statsResult, err := h.HandleStats(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("stats handler returned error: %v", err)
	}
	var stats StatsResult
	if err := json.Unmarshal([]byte(statsResult.Content[0].(mcp.TextContent).Text), &stats); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}
	if stats.Stats.TotalOrganizations != 1 {
		t.Errorf("total organizations = %d, want 1", stats.Stats.TotalOrganizations)
	}
	if stats.HistorySize != 1 {
		t.Errorf("history size = %d, want 1", stats.HistorySize)
	}
}

func TestHandleStats_Defaults(t *testing.T) {
	h, _ := testSetup(t, nil)

	result, err := h.HandleStats(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	var stats StatsResult
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &stats); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}
	if stats.Stats.TotalOrganizations != 0 {
		t.Errorf("total organizations = %d, want 0", stats.Stats.TotalOrganizations)
	}
	if len(stats.Ranking) != 3 {
		t.Errorf("ranking size = %d, want 3", len(stats.Ranking))
	}
}

func TestProviderUnreachable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OllamaHost = "http://127.0.0.1:1"
	h := NewHandlers(t.TempDir(), cfg)

	dir := writeFiles(t, []string{"meeting.txt"})

	result, err := h.HandleSuggest(context.Background(), makeRequest(map[string]any{
		"paths": []any{dir},
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "PROVIDER_UNAVAILABLE")
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"organize_suggest", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 3 {
		t.Errorf("tool count = %d, want 3", len(names))
	}
}

// assertErrorCode checks that an error result carries the expected code.
func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}
	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

// extractErrorMessage pulls the raw text out of an error result for messages.
func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
