// Package tools implements the five agent-facing operations on top of the
// registry and the SwitchBot client.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"switchbot-mcp/internal/events"
	"switchbot-mcp/internal/registry"
	"switchbot-mcp/internal/switchbot"
)

// API is the part of the SwitchBot client the handlers call directly.
type API interface {
	GetDeviceStatus(ctx context.Context, deviceID string) (map[string]any, error)
	SendCommand(ctx context.Context, deviceID, command, parameter string, commandType switchbot.CommandType) (map[string]any, error)
	ExecuteScene(ctx context.Context, sceneID string) (map[string]any, error)
}

// Resolver is the part of the registry the handlers use.
type Resolver interface {
	ResolveDevice(ctx context.Context, name string) (registry.Device, error)
	ResolveScene(ctx context.Context, name string) (registry.Scene, error)
	ListDevices(ctx context.Context) ([]registry.DeviceSummary, error)
	ListScenes(ctx context.Context) ([]registry.SceneSummary, error)
}

// Handlers answers tool calls.
type Handlers struct {
	api      API
	registry Resolver
	events   events.Sink
	log      logr.Logger
	now      func() time.Time
}

// New creates handlers. A nil sink disables event publishing.
func New(api API, reg Resolver, sink events.Sink, log logr.Logger) *Handlers {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Handlers{
		api:      api,
		registry: reg,
		events:   sink,
		log:      log,
		now:      time.Now,
	}
}

// StatusResult is either a device status or an advisory message for
// remotes, which have no status endpoint.
type StatusResult struct {
	Status   map[string]any
	Advisory string
}

// ListDevices returns every device with its documented commands.
func (h *Handlers) ListDevices(ctx context.Context) ([]registry.DeviceSummary, error) {
	return h.registry.ListDevices(ctx)
}

// GetDeviceStatus returns the live status of the named device without its id.
func (h *Handlers) GetDeviceStatus(ctx context.Context, deviceName string) (StatusResult, error) {
	device, err := h.registry.ResolveDevice(ctx, deviceName)
	if err != nil {
		return StatusResult{}, err
	}

	if device.IsRemote {
		return StatusResult{
			Advisory: fmt.Sprintf("infrared remote device %q does not report status; use control_device to send it commands", device.Name),
		}, nil
	}

	status, err := h.api.GetDeviceStatus(ctx, device.ID)
	if err != nil {
		return StatusResult{}, err
	}
	delete(status, "deviceId")
	if status == nil {
		status = map[string]any{}
	}
	return StatusResult{Status: status}, nil
}

// ControlDevice sends command to the named device. Remotes get the
// customize command type for anything outside their built-in catalog.
func (h *Handlers) ControlDevice(ctx context.Context, deviceName, command, parameter string) (map[string]any, error) {
	device, err := h.registry.ResolveDevice(ctx, deviceName)
	if err != nil {
		return nil, err
	}

	commandType := CommandTypeFor(device, command)
	result, err := h.api.SendCommand(ctx, device.ID, command, parameter, commandType)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, events.Event{
		Kind:        events.KindCommand,
		Name:        device.Name,
		DeviceType:  device.Type,
		Remote:      device.IsRemote,
		Command:     command,
		Parameter:   parameter,
		CommandType: string(commandType),
		Timestamp:   h.now().UTC(),
	})
	return result, nil
}

// ListScenes returns every scene name.
func (h *Handlers) ListScenes(ctx context.Context) ([]registry.SceneSummary, error) {
	return h.registry.ListScenes(ctx)
}

// ExecuteScene runs the named scene.
func (h *Handlers) ExecuteScene(ctx context.Context, sceneName string) (map[string]any, error) {
	scene, err := h.registry.ResolveScene(ctx, sceneName)
	if err != nil {
		return nil, err
	}

	result, err := h.api.ExecuteScene(ctx, scene.ID)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, events.Event{
		Kind:      events.KindScene,
		Name:      scene.Name,
		Timestamp: h.now().UTC(),
	})
	return result, nil
}

// CommandTypeFor picks the command type the API expects for command on device.
func CommandTypeFor(device registry.Device, command string) switchbot.CommandType {
	if device.IsRemote && !switchbot.IsBuiltinIRCommand(device.Type, command) {
		return switchbot.CommandTypeCustomize
	}
	return switchbot.CommandTypeCommand
}

func (h *Handlers) publish(ctx context.Context, e events.Event) {
	if err := h.events.Publish(ctx, e); err != nil {
		h.log.Error(err, "failed to publish event", "kind", e.Kind, "name", e.Name)
	}
}
