package events

import (
	"time"

	"switchbot-mcp/internal/registry"
)

// Kind identifies what happened
type Kind string

const (
	// KindCommand is published after a device command succeeds.
	KindCommand Kind = "command"
	// KindScene is published after a scene runs.
	KindScene Kind = "scene"
)

// Event is the payload published for a command or scene execution. It
// never carries vendor ids.
type Event struct {
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	DeviceType  string    `json:"deviceType,omitempty"`
	Remote      bool      `json:"remote,omitempty"`
	Command     string    `json:"command,omitempty"`
	Parameter   string    `json:"parameter,omitempty"`
	CommandType string    `json:"commandType,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Inventory is the retained payload describing the current snapshot
type Inventory struct {
	Devices   []InventoryDevice `json:"devices"`
	Scenes    []string          `json:"scenes"`
	Timestamp time.Time         `json:"timestamp"`
}

// InventoryDevice is one device entry of the inventory payload
type InventoryDevice struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Remote bool   `json:"remote"`
}

// NewInventory projects a registry snapshot into a publishable inventory
func NewInventory(snap registry.Snapshot, at time.Time) Inventory {
	inv := Inventory{
		Devices:   make([]InventoryDevice, len(snap.Devices)),
		Scenes:    make([]string, len(snap.Scenes)),
		Timestamp: at.UTC(),
	}
	for i, d := range snap.Devices {
		inv.Devices[i] = InventoryDevice{Name: d.Name, Type: d.Type, Remote: d.IsRemote}
	}
	for i, s := range snap.Scenes {
		inv.Scenes[i] = s.Name
	}
	return inv
}
