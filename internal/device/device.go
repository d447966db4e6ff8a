// Package device implements the status manager for the fixed process line:
// a registry of named devices, a readiness query over all of them, and the
// dispatch path that routes instruction tokens to the link owning each
// device. Links abstract the transport; the in-process loopback link is the
// default and a socket.io link talks to a real device gateway.
package device

import "context"

// Situation is the line-wide state a device reports.
type Situation int

const (
	Standby Situation = iota
	Busy
	Fault
)

// String implements fmt.Stringer.
func (s Situation) String() string {
	switch s {
	case Standby:
		return "standby"
	case Busy:
		return "busy"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Link carries a single dispatched action to the hardware (or a simulation of
// it) and reports the device's resulting situation.
type Link interface {
	Dispatch(ctx context.Context, device, action string) (Situation, error)
}

// LoopbackLink is the in-process simulation link: every action completes
// immediately and leaves the device in standby. It is the default link and
// what the CLI demo runs against when no gateway endpoint is configured.
type LoopbackLink struct{}

// Dispatch implements Link.
func (LoopbackLink) Dispatch(_ context.Context, _, _ string) (Situation, error) {
	return Standby, nil
}
