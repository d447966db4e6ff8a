// Package app wires the line configuration, device status manager, and step
// controller together, and drives the external poll loop that walks the
// compiled sequence.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/config"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/controller"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/device"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	model   *config.Model
	manager *device.Manager

	// mu serializes step advances against status-endpoint reads; the
	// controller and manager themselves are single-threaded.
	mu   sync.Mutex
	ctrl *controller.Controller
}

// NewApp builds a fully initialized App: isolated logger, loaded line
// configuration, and a device status manager with one link per configured
// gateway endpoint. The controller itself is constructed in Run, once a
// context exists for its initial dispatch.
func NewApp(outW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := config.Default()
	if appConfig.ConfigPath != "" {
		loaded, err := config.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load line configuration: %w", err)
		}
		model = loaded
	}

	// Flags win over the configuration file.
	if appConfig.SequencePath != "" {
		model.Line.SequenceFile = appConfig.SequencePath
	}
	if appConfig.InitialCommand != "" {
		model.Line.InitialCommand = appConfig.InitialCommand
	}
	logger.Debug("Line configuration resolved.",
		"sequence_file", model.Line.SequenceFile,
		"initial_command", model.Line.InitialCommand,
		"poll_interval", model.Line.PollInterval,
	)

	manager := device.NewManager(device.LoopbackLink{})
	for _, dev := range model.Devices {
		if dev.Endpoint == "" {
			continue
		}
		manager.RegisterLink(dev.Name, &device.SocketLink{
			URL:                dev.Endpoint,
			Namespace:          dev.Namespace,
			Timeout:            dev.Timeout,
			InsecureSkipVerify: dev.InsecureSkipVerify,
		})
		logger.Debug("Gateway link registered.", "device", dev.Name, "endpoint", dev.Endpoint)
	}

	return &App{
		outW:    outW,
		logger:  logger,
		model:   model,
		manager: manager,
	}, nil
}

// Manager returns the application's device status manager. This is primarily
// for testing.
func (a *App) Manager() *device.Manager {
	return a.manager
}
