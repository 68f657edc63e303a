package mcpserver

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"switchbot-mcp/internal/tools"
)

// RegisterSceneTools registers list_scenes and execute_scene.
func RegisterSceneTools(s *server.MCPServer, h *tools.Handlers, log logr.Logger) {
	s.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription(`List all SwitchBot scenes. Scenes are pre-configured automations that can control multiple devices at once. `+
			`Example response: [{"name": "Good Night"}, {"name": "Good Morning"}]`),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scenes, err := h.ListScenes(ctx)
		if err != nil {
			return errorResult(log, "list_scenes", err), nil
		}
		return jsonResult(scenes)
	})

	s.AddTool(mcp.NewTool("execute_scene",
		mcp.WithDescription(`Execute a SwitchBot scene by name. Use list_scenes first to see available scenes. `+
			`Example: execute_scene({ sceneName: "Good Night" })`),
		mcp.WithString("sceneName",
			mcp.Required(),
			mcp.Description("scene name as shown by list_scenes"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("sceneName")
		if err != nil {
			return errorResult(log, "execute_scene", err), nil
		}
		result, err := h.ExecuteScene(ctx, name)
		if err != nil {
			return errorResult(log, "execute_scene", err), nil
		}
		return jsonResult(result)
	})
}
