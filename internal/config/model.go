package config

import "time"

// Line holds the process-wide settings.
type Line struct {
	SequenceFile   string
	InitialCommand string
	PollInterval   time.Duration
}

// Device holds one device's gateway connection settings. A device without a
// block in the file (or with an empty endpoint) runs on the loopback link.
type Device struct {
	Name               string
	Endpoint           string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Model is the loaded line configuration.
type Model struct {
	Line    Line
	Devices []Device
}

// Default returns the configuration used when no file is given: loopback
// devices, "init" initial command, half-second poll.
func Default() *Model {
	return &Model{
		Line: Line{
			InitialCommand: "init",
			PollInterval:   500 * time.Millisecond,
		},
	}
}

// DeviceByName returns the device block for name, if present.
func (m *Model) DeviceByName(name string) (Device, bool) {
	for _, d := range m.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}
