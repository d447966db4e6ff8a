// Package controller walks a compiled process sequence one instruction at a
// time. It never schedules anything itself: an external loop polls
// IsReadyToNextStep and, when the whole line reports standby, calls
// MoveToNextStep to dispatch the next instruction through the device status
// manager.
package controller

import (
	"context"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/device"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/sequence"
)

// Devices is the consumer-side view of the device status manager. The
// concrete implementation lives in internal/device; tests substitute fakes.
type Devices interface {
	SetInitializing(v bool)
	AddDevice(name string) error
	UpdateStatus(ctx context.Context, command string) error
	Check(situation device.Situation) bool
}

// FixedDevices is the process line's device set, registered in this order at
// construction.
var FixedDevices = []string{"weighing", "slider", "cobotta", "plc"}

// InitCommand is the initial command that means "no pre-sequence dispatch":
// construction proceeds straight into the compiled sequence.
const InitCommand = "init"

// Messages returned by UpdateDeviceStatuses.
const (
	UpdateSuccessMessage = "update device status success"
	UpdateErrorMessage   = "update device status error"
)

// Controller owns a compiled sequence and a monotonic step cursor. It is not
// safe for concurrent callers; the expected driver is a single poll loop.
type Controller struct {
	devices           Devices
	seq               []string
	stepIndex         int
	currentStep       string
	initialCommand    string
	initialDispatches int
}

// New registers the fixed device set, compiles the raw sequence lines, and
// performs the initial dispatch with initialCommand. Compile errors are
// recoverable by substitution: the controller falls back to a sequence
// holding only the sentinel, so it always converges to a valid terminal
// state. The returned controller's sequence is guaranteed non-empty and
// sentinel-terminated.
func New(ctx context.Context, devices Devices, raw []string, initialCommand string) *Controller {
	logger := ctxlog.FromContext(ctx)

	devices.SetInitializing(true)
	for _, name := range FixedDevices {
		if err := devices.AddDevice(name); err != nil {
			logger.Warn("Device registration failed.", "device", name, "error", err)
		}
	}
	devices.SetInitializing(false)

	seq, err := sequence.Compile(raw)
	if err != nil {
		logger.Error("Sequence compile failed, falling back to sentinel-only sequence.", "error", err)
		seq = nil
	}
	if len(seq) == 0 || seq[len(seq)-1] != sequence.Sentinel {
		seq = append(seq, sequence.Sentinel)
	}
	logger.Info("Process sequence compiled.", "steps", len(seq))

	c := &Controller{
		devices:        devices,
		seq:            seq,
		currentStep:    initialCommand,
		initialCommand: initialCommand,
	}
	c.MoveToNextStep(ctx)
	return c
}

// Sequence returns the compiled instruction list. The slice is a copy; the
// controller's own sequence is immutable after construction.
func (c *Controller) Sequence() []string {
	return append([]string(nil), c.seq...)
}

// CurrentStep returns the last dispatched instruction.
func (c *Controller) CurrentStep() string {
	return c.currentStep
}

// IsReadyToNextStep reports whether every registered device is in standby.
// Pure query; callers poll it before MoveToNextStep, the controller does
// not gate itself.
func (c *Controller) IsReadyToNextStep() bool {
	return c.devices.Check(device.Standby)
}

// IsSequenceCompleted reports whether the cursor has passed the sentinel.
func (c *Controller) IsSequenceCompleted() bool {
	return c.stepIndex >= len(c.seq)
}

// MoveToNextStep is the only mutating transition. With an initial command
// other than "init", the special branch fires twice at the head of the
// sequence without touching the cursor: once for the constructor's initial
// dispatch and once more so the first external call reissues the command.
// Every later call dispatches the instruction under the cursor and advances.
// Once the sequence is completed it is a no-op, so the cursor never exceeds
// the sequence length.
func (c *Controller) MoveToNextStep(ctx context.Context) {
	if c.stepIndex == 0 && c.initialDispatches < 2 && c.currentStep != InitCommand {
		c.initialDispatches++
		c.UpdateDeviceStatuses(ctx, c.initialCommand)
		return
	}
	if c.IsSequenceCompleted() {
		return
	}
	c.currentStep = c.seq[c.stepIndex]
	c.UpdateDeviceStatuses(ctx, c.currentStep)
	c.stepIndex++
}

// UpdateDeviceStatuses forwards command to the device status manager and
// folds the outcome into the fixed success/error message. A failed update is
// non-fatal: it is logged and reported, but does not stop the cursor.
func (c *Controller) UpdateDeviceStatuses(ctx context.Context, command string) string {
	if err := c.devices.UpdateStatus(ctx, command); err != nil {
		ctxlog.FromContext(ctx).Warn("Device status update failed.", "command", command, "error", err)
		return UpdateErrorMessage
	}
	return UpdateSuccessMessage
}
