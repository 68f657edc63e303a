package switchbot

import "slices"

// Shared command sets. Entries are never mutated after init.
var (
	curtainCommands = []CommandInfo{
		{Command: "turnOn", Description: "open the curtain"},
		{Command: "turnOff", Description: "close the curtain"},
		{Command: "setPosition", Description: "set the position", Parameter: "index,mode,position (0=open, 100=closed)"},
	}
	lockCommands = []CommandInfo{
		{Command: "lock", Description: "lock"},
		{Command: "unlock", Description: "unlock"},
	}
	plugCommands = []CommandInfo{
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
		{Command: "toggle", Description: "toggle power"},
	}
	ceilingLightCommands = []CommandInfo{
		{Command: "turnOn", Description: "light on"},
		{Command: "turnOff", Description: "light off"},
		{Command: "toggle", Description: "toggle the light"},
		{Command: "setBrightness", Description: "set brightness", Parameter: "1-100"},
		{Command: "setColorTemperature", Description: "set color temperature", Parameter: "2700-6500"},
	}
	vacuumCommands = []CommandInfo{
		{Command: "start", Description: "start cleaning"},
		{Command: "stop", Description: "stop cleaning"},
		{Command: "dock", Description: "return to the charging dock"},
	}
)

// deviceCommands lists the commands of cloud-connected devices by deviceType.
var deviceCommands = map[string][]CommandInfo{
	"Bot": {
		{Command: "turnOn", Description: "switch on"},
		{Command: "turnOff", Description: "switch off"},
		{Command: "press", Description: "press the button"},
	},
	"Curtain":        curtainCommands,
	"Curtain 3":      curtainCommands,
	"Lock":           lockCommands,
	"Lock Pro":       lockCommands,
	"Lock Ultra":     lockCommands,
	"Plug Mini (US)": plugCommands,
	"Plug Mini (JP)": plugCommands,
	"Color Bulb": {
		{Command: "turnOn", Description: "light on"},
		{Command: "turnOff", Description: "light off"},
		{Command: "toggle", Description: "toggle the light"},
		{Command: "setBrightness", Description: "set brightness", Parameter: "1-100"},
		{Command: "setColor", Description: "set color", Parameter: `"R:G:B" (each 0-255)`},
		{Command: "setColorTemperature", Description: "set color temperature", Parameter: "2700-6500"},
	},
	"Strip Light": {
		{Command: "turnOn", Description: "light on"},
		{Command: "turnOff", Description: "light off"},
		{Command: "toggle", Description: "toggle the light"},
		{Command: "setBrightness", Description: "set brightness", Parameter: "1-100"},
		{Command: "setColor", Description: "set color", Parameter: `"R:G:B" (each 0-255)`},
	},
	"Ceiling Light":     ceilingLightCommands,
	"Ceiling Light Pro": ceilingLightCommands,
	"Humidifier": {
		{Command: "turnOn", Description: "humidifier on"},
		{Command: "turnOff", Description: "humidifier off"},
		{Command: "setMode", Description: "set mode", Parameter: "auto / 101 / 102 / 103 / {0-100}"},
	},
	"Robot Vacuum Cleaner S1":      vacuumCommands,
	"Robot Vacuum Cleaner S1 Plus": vacuumCommands,
	"K10+":                         vacuumCommands,
	"K10+ Pro":                     vacuumCommands,
	"Fan": {
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
		{Command: "setAllStatus", Description: "set all states at once", Parameter: "power,fanMode,fanSpeed,shakeRange"},
	},
	"Blind Tilt": {
		{Command: "turnOn", Description: "open"},
		{Command: "turnOff", Description: "close"},
		{Command: "setPosition", Description: "set the tilt", Parameter: "direction;position (position: 0=closed, 100=open)"},
	},
	"Battery Circulator Fan": {
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
	},
	"Roller Shade": {
		{Command: "turnOn", Description: "open"},
		{Command: "turnOff", Description: "close"},
		{Command: "setPosition", Description: "set the position", Parameter: "0-100 (0=open, 100=closed)"},
	},
}

// remoteCommands lists the built-in commands of infrared remotes by remoteType.
var remoteCommands = map[string][]CommandInfo{
	"Air Conditioner": {
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
		{
			Command:     "setAll",
			Description: "set temperature, mode and fan speed at once; use turnOn/turnOff for power",
			Parameter:   `e.g. "26,1,1,on": temperature,mode(0=manual/1=auto),fanSpeed(1=auto/2=low/3=medium/4=high),powerState(always on)`,
		},
	},
	"TV": {
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
		{Command: "SetChannel", Description: "set the channel", Parameter: "channel number"},
		{Command: "volumeAdd", Description: "volume up"},
		{Command: "volumeSub", Description: "volume down"},
	},
	"Light": {
		{Command: "turnOn", Description: "light on"},
		{Command: "turnOff", Description: "light off"},
		{Command: "brightnessUp", Description: "brighter"},
		{Command: "brightnessDown", Description: "dimmer"},
	},
	"Fan": {
		{Command: "turnOn", Description: "power on"},
		{Command: "turnOff", Description: "power off"},
		{Command: "swing", Description: "toggle oscillation"},
		{Command: "lowSpeed", Description: "low speed"},
		{Command: "middleSpeed", Description: "medium speed"},
		{Command: "highSpeed", Description: "high speed"},
	},
}

// CommandsForDevice returns the documented commands for a device type.
// Unknown types yield an empty, non-nil slice.
func CommandsForDevice(deviceType string, isRemote bool) []CommandInfo {
	table := deviceCommands
	if isRemote {
		table = remoteCommands
	}
	cmds, ok := table[deviceType]
	if !ok {
		return []CommandInfo{}
	}
	return slices.Clone(cmds)
}

// IsBuiltinIRCommand reports whether command is a built-in command of the
// infrared remote type. Taught buttons are not built-in.
func IsBuiltinIRCommand(deviceType, command string) bool {
	return slices.ContainsFunc(remoteCommands[deviceType], func(c CommandInfo) bool {
		return c.Command == command
	})
}

// DeviceTypes returns the catalogued types of one table, sorted.
func DeviceTypes(isRemote bool) []string {
	table := deviceCommands
	if isRemote {
		table = remoteCommands
	}
	types := make([]string, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
