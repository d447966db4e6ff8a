package device

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
)

// Dispatch and registration error kinds.
var (
	ErrUnknownDevice  = errors.New("no registered device owns instruction token")
	ErrAlreadyAdded   = errors.New("device already registered")
	ErrLineNotStandby = errors.New("cannot register device while line is active")
)

// state is what the manager tracks per registered device.
type state struct {
	name       string
	link       Link
	situation  Situation
	lastAction string
}

// Manager is the status manager for the line's device set. It assumes
// exclusive sequential access; callers needing concurrency must synchronize
// externally.
type Manager struct {
	initializing bool
	order        []string
	devices      map[string]*state
	defaultLink  Link
	links        map[string]Link
}

// NewManager returns an empty manager whose devices use defaultLink unless
// registered with an explicit one. A nil defaultLink means loopback.
func NewManager(defaultLink Link) *Manager {
	if defaultLink == nil {
		defaultLink = LoopbackLink{}
	}
	return &Manager{
		devices:     make(map[string]*state),
		defaultLink: defaultLink,
		links:       make(map[string]Link),
	}
}

// RegisterLink installs a link override for a device that has not been
// registered yet. AddDevice consults overrides before the default link, so
// gateway-backed devices can be declared ahead of bulk registration.
func (m *Manager) RegisterLink(name string, link Link) {
	m.links[name] = link
}

// SetInitializing toggles the bulk-registration flag. While true, AddDevice
// skips the line-readiness validation: freshly constructed devices are not
// yet in a meaningful state to validate against.
func (m *Manager) SetInitializing(v bool) {
	m.initializing = v
}

// AddDevice registers name with its override link, or the default one.
func (m *Manager) AddDevice(name string) error {
	link := m.defaultLink
	if override, ok := m.links[name]; ok {
		link = override
	}
	return m.AddDeviceWithLink(name, link)
}

// AddDeviceWithLink registers name with an explicit link. Outside of the
// initializing window, registration is refused unless every device already
// on the line reports standby.
func (m *Manager) AddDeviceWithLink(name string, link Link) error {
	if _, ok := m.devices[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyAdded, name)
	}
	if !m.initializing && !m.Check(Standby) {
		return fmt.Errorf("%w: %s", ErrLineNotStandby, name)
	}
	if link == nil {
		link = m.defaultLink
	}
	m.devices[name] = &state{name: name, link: link, situation: Standby}
	m.order = append(m.order, name)
	return nil
}

// Devices returns the registered device names in registration order.
func (m *Manager) Devices() []string {
	return append([]string(nil), m.order...)
}

// LastAction returns the most recent action routed to name.
func (m *Manager) LastAction(name string) (string, bool) {
	d, ok := m.devices[name]
	if !ok {
		return "", false
	}
	return d.lastAction, true
}

// Situation returns the recorded situation for name.
func (m *Manager) Situation(name string) (Situation, bool) {
	d, ok := m.devices[name]
	if !ok {
		return Standby, false
	}
	return d.situation, true
}

// Check reports whether every registered device is in the given situation.
// An empty registry trivially satisfies any situation.
func (m *Manager) Check(situation Situation) bool {
	for _, d := range m.devices {
		if d.situation != situation {
			return false
		}
	}
	return true
}

// UpdateStatus dispatches one instruction. The instruction is a
// whitespace-separated list of `<device>_<action>` tokens; each token is
// routed to the link of the device whose name prefixes it. The sequence
// sentinel is a line-level instruction: it addresses no device and returns
// the whole line to standby. The first token that fails to route or to
// dispatch fails the update.
func (m *Manager) UpdateStatus(ctx context.Context, command string) error {
	logger := ctxlog.FromContext(ctx)

	for _, token := range strings.Fields(command) {
		if token == "finished" {
			for _, d := range m.devices {
				d.situation = Standby
			}
			continue
		}

		d := m.route(token)
		if d == nil {
			return fmt.Errorf("%w: %q", ErrUnknownDevice, token)
		}
		action := strings.TrimPrefix(strings.TrimPrefix(token, d.name), "_")

		situation, err := d.link.Dispatch(ctx, d.name, action)
		if err != nil {
			d.situation = Fault
			return fmt.Errorf("dispatch %q to %s failed: %w", action, d.name, err)
		}
		d.situation = situation
		d.lastAction = action
		logger.Debug("Device action dispatched.", "device", d.name, "action", action, "situation", situation.String())
	}
	return nil
}

// route finds the registered device owning token: an exact name match or the
// longest name that prefixes `<name>_...`.
func (m *Manager) route(token string) *state {
	var best *state
	for _, name := range m.order {
		if token != name && !strings.HasPrefix(token, name+"_") {
			continue
		}
		if best == nil || len(name) > len(best.name) {
			best = m.devices[name]
		}
	}
	return best
}
