// Package registry caches the SwitchBot device and scene inventory and
// resolves human-supplied names to vendor ids.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"switchbot-mcp/internal/switchbot"
)

// Source is the part of the SwitchBot client the registry reads from.
type Source interface {
	GetDevices(ctx context.Context) (*switchbot.DevicesBody, error)
	GetScenes(ctx context.Context) ([]switchbot.Scene, error)
}

// Device is a physical device or an infrared remote.
type Device struct {
	ID       string
	Name     string
	Type     string
	IsRemote bool
}

// Scene is a manual scene.
type Scene struct {
	ID   string
	Name string
}

// DeviceSummary is a device without its id, plus its documented commands.
type DeviceSummary struct {
	Name     string                  `json:"name"`
	Type     string                  `json:"type"`
	Commands []switchbot.CommandInfo `json:"commands"`
}

// SceneSummary is a scene without its id.
type SceneSummary struct {
	Name string `json:"name"`
}

// Snapshot is one complete inventory. It is replaced, never edited.
type Snapshot struct {
	Devices []Device
	Scenes  []Scene
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(log logr.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithOnRefresh registers a callback run after every successful refresh.
func WithOnRefresh(fn func(ctx context.Context, snap Snapshot)) Option {
	return func(r *Registry) { r.onRefresh = fn }
}

// Registry holds the cached inventory of one client session.
type Registry struct {
	source    Source
	log       logr.Logger
	onRefresh func(ctx context.Context, snap Snapshot)

	mu          sync.RWMutex
	snap        Snapshot
	initialized bool
}

// New creates an empty, uninitialized registry.
func New(source Source, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh fetches devices and scenes concurrently and replaces the cached
// snapshot. On failure the previous snapshot is kept.
func (r *Registry) Refresh(ctx context.Context) error {
	var (
		devicesBody *switchbot.DevicesBody
		scenes      []switchbot.Scene
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := r.source.GetDevices(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch devices: %w", err)
		}
		devicesBody = body
		return nil
	})
	g.Go(func() error {
		s, err := r.source.GetScenes(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch scenes: %w", err)
		}
		scenes = s
		return nil
	})
	if err := g.Wait(); err != nil {
		r.log.Error(err, "refresh failed")
		return err
	}

	snap := buildSnapshot(devicesBody, scenes)

	r.mu.Lock()
	r.snap = snap
	r.initialized = true
	r.mu.Unlock()

	r.log.V(1).Info("inventory refreshed", "devices", len(snap.Devices), "scenes", len(snap.Scenes))

	if r.onRefresh != nil {
		r.onRefresh(ctx, snap)
	}
	return nil
}

// Initialized reports whether a refresh has completed.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

func (r *Registry) ensureInitialized(ctx context.Context) error {
	if r.Initialized() {
		return nil
	}
	return r.Refresh(ctx)
}

func (r *Registry) snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// ResolveDevice returns the device called name, refreshing only if the
// cache has never been filled.
func (r *Registry) ResolveDevice(ctx context.Context, name string) (Device, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return Device{}, err
	}
	return resolveByName(r.snapshot().Devices, name, func(d Device) string { return d.Name }, "device")
}

// ResolveScene returns the scene called name, refreshing only if the
// cache has never been filled.
func (r *Registry) ResolveScene(ctx context.Context, name string) (Scene, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return Scene{}, err
	}
	return resolveByName(r.snapshot().Scenes, name, func(s Scene) string { return s.Name }, "scene")
}

// ListDevices refreshes the cache and returns every device without ids.
func (r *Registry) ListDevices(ctx context.Context) ([]DeviceSummary, error) {
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	devices := r.snapshot().Devices
	out := make([]DeviceSummary, len(devices))
	for i, d := range devices {
		out[i] = DeviceSummary{
			Name:     d.Name,
			Type:     d.Type,
			Commands: switchbot.CommandsForDevice(d.Type, d.IsRemote),
		}
	}
	return out, nil
}

// ListScenes refreshes the cache and returns every scene without ids.
func (r *Registry) ListScenes(ctx context.Context) ([]SceneSummary, error) {
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	scenes := r.snapshot().Scenes
	out := make([]SceneSummary, len(scenes))
	for i, s := range scenes {
		out[i] = SceneSummary{Name: s.Name}
	}
	return out, nil
}

// buildSnapshot merges physical devices and remotes, physical first.
func buildSnapshot(body *switchbot.DevicesBody, scenes []switchbot.Scene) Snapshot {
	var snap Snapshot
	if body != nil {
		snap.Devices = make([]Device, 0, len(body.DeviceList)+len(body.InfraredRemoteList))
		for _, d := range body.DeviceList {
			snap.Devices = append(snap.Devices, Device{
				ID:   d.DeviceID,
				Name: d.DeviceName,
				Type: d.DeviceType,
			})
		}
		for _, d := range body.InfraredRemoteList {
			snap.Devices = append(snap.Devices, Device{
				ID:       d.DeviceID,
				Name:     d.DeviceName,
				Type:     d.RemoteType,
				IsRemote: true,
			})
		}
	}
	snap.Scenes = make([]Scene, len(scenes))
	for i, s := range scenes {
		snap.Scenes[i] = Scene{ID: s.SceneID, Name: s.SceneName}
	}
	return snap
}
