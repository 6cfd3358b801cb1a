package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sortd/internal/config"
	"github.com/hpungsan/sortd/internal/errors"
	"github.com/hpungsan/sortd/internal/index"
	"github.com/hpungsan/sortd/internal/mover"
	"github.com/hpungsan/sortd/internal/organize"
	"github.com/hpungsan/sortd/internal/prefs"
	"github.com/hpungsan/sortd/internal/provider"
	"github.com/hpungsan/sortd/internal/suggest"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	baseDir string
	cfg     *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(baseDir string, cfg *config.Config) *Handlers {
	return &Handlers{baseDir: baseDir, cfg: cfg}
}

// Request types for each tool

// SuggestRequest represents the arguments for organize_suggest.
type SuggestRequest struct {
	Paths     []string `json:"paths"`
	Recursive *bool    `json:"recursive,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// ExecuteRequest represents the arguments for organize_execute.
type ExecuteRequest struct {
	Paths     []string `json:"paths"`
	Recursive *bool    `json:"recursive,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty"`
	Copy      bool     `json:"copy,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// SuggestResult is the payload returned by organize_suggest.
type SuggestResult struct {
	RunID       string               `json:"run_id"`
	FileCount   int                  `json:"file_count"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Summary     string               `json:"analysis_summary,omitempty"`
	Preview     string               `json:"preview,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// ExecuteResult is the payload returned by organize_execute.
type ExecuteResult struct {
	RunID    string        `json:"run_id"`
	BasePath string        `json:"base_path"`
	Result   *mover.Result `json:"result"`
	Warnings []string      `json:"warnings,omitempty"`
}

// StatsResult is the payload returned by prefs_stats.
type StatsResult struct {
	StrategyScores map[string]int    `json:"strategy_scores"`
	Ranking        []string          `json:"strategy_ranking"`
	FolderNames    map[string]string `json:"folder_names"`
	Stats          prefs.Stats       `json:"stats"`
	HistorySize    int               `json:"history_size"`
}

// runConfig applies a per-request model override to the base config.
func (h *Handlers) runConfig(model string) *config.Config {
	if model == "" {
		return h.cfg
	}
	cfg := *h.cfg
	cfg.Model = model
	return &cfg
}

func (h *Handlers) newPipeline(cfg *config.Config, idx *index.Store) (*organize.Pipeline, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &organize.Pipeline{
		Providers: provider.New(cfg),
		Prefs:     prefs.Open(h.baseDir),
		Index:     idx,
		Reporter:  organize.NewQuietReporter(),
		In:        strings.NewReader(""),
		Out:       out,
	}, out
}

// HandleSuggest handles the organize_suggest tool call. It runs the
// pipeline in dry-run mode so the caller gets ranked suggestions and a
// preview of what execution would do, with nothing touched on disk.
func (h *Handlers) HandleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cfg := h.runConfig(input.Model)
	p, out := h.newPipeline(cfg, nil)

	state := p.Run(ctx, input.Paths, organize.Options{
		Recursive:    input.Recursive == nil || *input.Recursive,
		DryRun:       true,
		AutoYes:      true,
		PreviewChars: cfg.PreviewChars,
		MaxFileSize:  cfg.MaxFileSizeBytes(),
	})
	if state.HasFatal() {
		return errorResult(state.Fatal[0]), nil
	}

	return successResult(SuggestResult{
		RunID:       state.RunID,
		FileCount:   state.Suggestions.FileCount,
		Suggestions: state.Suggestions.Suggestions,
		Summary:     state.Suggestions.AnalysisSummary,
		Preview:     out.String(),
		Warnings:    state.Warnings,
	})
}

// HandleExecute handles the organize_execute tool call. The
// highest-confidence suggestion is selected without prompting.
func (h *Handlers) HandleExecute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExecuteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cfg := h.runConfig(input.Model)

	var idx *index.Store
	if !input.DryRun {
		if opened, err := index.Open(h.baseDir); err == nil {
			idx = opened
			defer idx.Close()
		}
	}

	p, _ := h.newPipeline(cfg, idx)

	state := p.Run(ctx, input.Paths, organize.Options{
		Recursive:    input.Recursive == nil || *input.Recursive,
		DryRun:       input.DryRun,
		Copy:         input.Copy,
		AutoYes:      true,
		OutputDir:    input.OutputDir,
		PreviewChars: cfg.PreviewChars,
		MaxFileSize:  cfg.MaxFileSizeBytes(),
	})
	if state.HasFatal() {
		return errorResult(state.Fatal[0]), nil
	}

	return successResult(ExecuteResult{
		RunID:    state.RunID,
		BasePath: state.Selected.FolderStructure.BasePath,
		Result:   state.ExecResult,
		Warnings: state.Warnings,
	})
}

// HandleStats handles the prefs_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := prefs.Open(h.baseDir)
	doc := store.Preferences()

	return successResult(StatsResult{
		StrategyScores: doc.StrategyScores,
		Ranking:        store.StrategyRanking(),
		FolderNames:    doc.FolderNames,
		Stats:          doc.Stats,
		HistorySize:    len(doc.History),
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.SortdError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
