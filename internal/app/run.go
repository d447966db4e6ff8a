package app

import (
	"context"
	"time"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/controller"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/sequence"
)

// Run executes the process line until the sequence completes or ctx is
// cancelled. It is the external driver the controller expects: poll
// readiness, advance one step, repeat. All latency lives in the device
// links; the loop itself never blocks beyond its poll interval.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	raw := sequence.Load(ctx, a.model.Line.SequenceFile)
	a.ctrl = controller.New(ctx, a.manager, raw, a.model.Line.InitialCommand)
	a.logger.Info("🚀 Process sequence started.",
		"steps", len(a.ctrl.Sequence()),
		"initial_command", a.model.Line.InitialCommand,
	)

	// The server starts only after the controller exists, so the handler
	// never observes a half-built App.
	if appConfig.StatusPort > 0 {
		go a.startStatusServer(appConfig.StatusPort)
	}

	interval := a.model.Line.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if a.ctrl.IsSequenceCompleted() {
			a.logger.Info("🏁 Process sequence completed.")
			return nil
		}

		select {
		case <-ctx.Done():
			a.logger.Warn("Run cancelled before sequence completion.", "current_step", a.ctrl.CurrentStep())
			return ctx.Err()
		case <-ticker.C:
			if !a.ctrl.IsReadyToNextStep() {
				a.logger.Debug("Line not in standby, holding step.", "current_step", a.ctrl.CurrentStep())
				continue
			}
			a.advanceStep(ctx)
			a.logger.Info("Step dispatched.", "step", a.ctrl.CurrentStep())
		}
	}
}

// advanceStep moves the cursor under the mutex the status handler shares, so
// device situations are never read mid-dispatch.
func (a *App) advanceStep(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.MoveToNextStep(ctx)
}
