// Package mcp exposes the organizer as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/sortd/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"organize_suggest": {
		def:     suggestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggest },
	},
	"organize_execute": {
		def:     executeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExecute },
	},
	"prefs_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Sortd tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(baseDir string, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"sortd",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(baseDir, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(baseDir string, cfg *config.Config, version string) error {
	s := NewServer(baseDir, cfg, version)
	return server.ServeStdio(s)
}
