package mcp

import "github.com/mark3labs/mcp-go/mcp"

var suggestToolDef = mcp.NewTool("organize_suggest",
	mcp.WithDescription("Analyze files and propose folder organization structures without moving anything. Returns ranked suggestions with confidence scores and a dry-run preview."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Files or directories to analyze"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("recursive",
		mcp.Description("Descend into subdirectories (default true)"),
	),
	mcp.WithString("model",
		mcp.Description("Override the configured generation model"),
	),
)

var executeToolDef = mcp.NewTool("organize_execute",
	mcp.WithDescription("Analyze files, auto-select the highest-confidence organization, and move (or copy) files into it. Set dry_run to preview without touching anything."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Files or directories to organize"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("recursive",
		mcp.Description("Descend into subdirectories (default true)"),
	),
	mcp.WithBoolean("dry_run",
		mcp.Description("Preview the plan without moving files"),
	),
	mcp.WithBoolean("copy",
		mcp.Description("Copy files instead of moving them"),
	),
	mcp.WithString("output_dir",
		mcp.Description("Base directory for the organized structure (default: parent of the first file)"),
	),
	mcp.WithString("model",
		mcp.Description("Override the configured generation model"),
	),
)

var statsToolDef = mcp.NewTool("prefs_stats",
	mcp.WithDescription("Report learned organization preferences: strategy scores, folder name mappings, and usage counters."),
)
