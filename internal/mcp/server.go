package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/divdata/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"divdata_command": {
		def:     commandToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommand },
	},
	"divdata_retrieve": {
		def:     retrieveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRetrieve },
	},
	"divdata_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
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

// NewServer creates a new MCP server with divdata tools registered.
// Tools listed in env.Config.DisabledTools are excluded from registration.
func NewServer(env ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"divdata",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)

	disabled := make(map[string]bool)
	if env.Config != nil {
		for _, name := range env.Config.DisabledTools {
			disabled[name] = true
		}
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
// Report lines are discarded: stdout carries the protocol.
func Run(env ops.Env, version string) error {
	env.Out = nil
	for _, name := range ValidateDisabledTools(configDisabled(env)) {
		env.Log.Warn().Str("tool", name).Msg("unknown tool in disabled_tools")
	}
	return server.ServeStdio(NewServer(env, version))
}

func configDisabled(env ops.Env) []string {
	if env.Config == nil {
		return nil
	}
	return env.Config.DisabledTools
}
