package switchbot

// StatusSuccess is the envelope statusCode the API returns on success.
const StatusSuccess = 100

// Envelope wraps every API response body
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Body       T      `json:"body"`
}

// DevicesBody is the body of GET /v1.1/devices
type DevicesBody struct {
	DeviceList         []PhysicalDevice `json:"deviceList"`
	InfraredRemoteList []InfraredDevice `json:"infraredRemoteList"`
}

// PhysicalDevice is a cloud-connected device
type PhysicalDevice struct {
	DeviceID           string `json:"deviceId"`
	DeviceName         string `json:"deviceName"`
	DeviceType         string `json:"deviceType"`
	EnableCloudService bool   `json:"enableCloudService"`
	HubDeviceID        string `json:"hubDeviceId"`
}

// InfraredDevice is a virtual remote learned by a hub
type InfraredDevice struct {
	DeviceID    string `json:"deviceId"`
	DeviceName  string `json:"deviceName"`
	RemoteType  string `json:"remoteType"`
	HubDeviceID string `json:"hubDeviceId"`
}

// Scene is a manual scene configured in the SwitchBot app
type Scene struct {
	SceneID   string `json:"sceneId"`
	SceneName string `json:"sceneName"`
}

// CommandType selects how the API interprets a command name
type CommandType string

const (
	// CommandTypeCommand is used for documented commands.
	CommandTypeCommand CommandType = "command"
	// CommandTypeCustomize is used for buttons taught to an infrared remote.
	CommandTypeCustomize CommandType = "customize"
)

// DefaultParameter is sent when a command takes no parameter
const DefaultParameter = "default"

// CommandRequest is the body of POST /v1.1/devices/{id}/commands
type CommandRequest struct {
	Command     string      `json:"command"`
	Parameter   string      `json:"parameter,omitempty"`
	CommandType CommandType `json:"commandType,omitempty"`
}

// CommandInfo documents one command a device type accepts
type CommandInfo struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Parameter   string `json:"parameter,omitempty"`
}
