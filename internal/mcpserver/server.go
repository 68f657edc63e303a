// Package mcpserver exposes the tool handlers over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"switchbot-mcp/internal/tools"
)

// Name is the server name announced during initialization.
const Name = "switchbot-mcp"

// New builds an MCP server with every tool registered.
func New(h *tools.Handlers, version string, log logr.Logger) *server.MCPServer {
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	RegisterDeviceTools(s, h, log)
	RegisterSceneTools(s, h, log)
	return s
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult reports a failed call to the agent as a tool error.
func errorResult(log logr.Logger, tool string, err error) *mcp.CallToolResult {
	log.Info("tool call failed", "tool", tool, "error", err.Error())
	return mcp.NewToolResultError(err.Error())
}

// ServeStdio serves s on in/out until ctx is done or in is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
