package mcpserver

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"switchbot-mcp/internal/tools"
)

// RegisterDeviceTools registers list_devices, get_device_status and control_device.
func RegisterDeviceTools(s *server.MCPServer, h *tools.Handlers, log logr.Logger) {
	s.AddTool(mcp.NewTool("list_devices",
		mcp.WithDescription(`List all SwitchBot devices with their names, types, and available commands. `+
			`Use this first to see what devices you can control. `+
			`Example response: [{"name": "Living Room Light", "type": "Color Bulb", "commands": [{"command": "turnOn", ...}]}]`),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		devices, err := h.ListDevices(ctx)
		if err != nil {
			return errorResult(log, "list_devices", err), nil
		}
		return jsonResult(devices)
	})

	s.AddTool(mcp.NewTool("get_device_status",
		mcp.WithDescription(`Get the current status of a SwitchBot device by name. `+
			`Returns power state, temperature, humidity, etc. depending on device type. `+
			`Example: get_device_status({ deviceName: "Living Room Light" })`),
		mcp.WithString("deviceName",
			mcp.Required(),
			mcp.Description("device name as shown by list_devices"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("deviceName")
		if err != nil {
			return errorResult(log, "get_device_status", err), nil
		}
		res, err := h.GetDeviceStatus(ctx, name)
		if err != nil {
			return errorResult(log, "get_device_status", err), nil
		}
		if res.Advisory != "" {
			return mcp.NewToolResultText(res.Advisory), nil
		}
		return jsonResult(res.Status)
	})

	s.AddTool(mcp.NewTool("control_device",
		mcp.WithDescription(`Send a command to a SwitchBot device by name. `+
			`Use list_devices first to see available commands for each device. `+
			`Examples: control_device({ deviceName: "Living Room Light", command: "turnOn" }), `+
			`control_device({ deviceName: "Living Room Light", command: "setBrightness", parameter: "50" }), `+
			`control_device({ deviceName: "Living Room Light", command: "setColor", parameter: "255:0:0" })`),
		mcp.WithString("deviceName",
			mcp.Required(),
			mcp.Description("device name as shown by list_devices"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("command to run, as shown by list_devices"),
		),
		mcp.WithString("parameter",
			mcp.Description("command parameter, only when the command takes one"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("deviceName")
		if err != nil {
			return errorResult(log, "control_device", err), nil
		}
		command, err := req.RequireString("command")
		if err != nil {
			return errorResult(log, "control_device", err), nil
		}
		result, err := h.ControlDevice(ctx, name, command, req.GetString("parameter", ""))
		if err != nil {
			return errorResult(log, "control_device", err), nil
		}
		return jsonResult(result)
	})
}
