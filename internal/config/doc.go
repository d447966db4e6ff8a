// Package config loads the optional line configuration file (HCL): sequence
// source path, poll interval, initial command, and per-device gateway
// endpoints. Flags layered on top by internal/cli win over file values.
package config
