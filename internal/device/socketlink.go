package device

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
)

const (
	defaultCommandEvent = "command"
	defaultStatusEvent  = "status"
	defaultLinkTimeout  = 10 * time.Second
)

// SocketLink forwards dispatched actions to a device gateway over socket.io.
// Each dispatch opens a connection, emits the command event, and waits for
// the gateway's status event reporting the device's resulting situation.
type SocketLink struct {
	URL                string
	Namespace          string
	CommandEvent       string // defaults to "command"
	StatusEvent        string // defaults to "status"
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// linkResult passes the gateway's answer through the done channel.
type linkResult struct {
	situation Situation
	err       error
}

// Dispatch implements Link.
func (l *SocketLink) Dispatch(ctx context.Context, device, action string) (Situation, error) {
	logger := ctxlog.FromContext(ctx).With("link", "socketio", "url", l.URL, "device", device, "action", action)
	logger.Debug("Dispatch started")
	defer logger.Debug("Dispatch finished")

	commandEvent := l.CommandEvent
	if commandEvent == "" {
		commandEvent = defaultCommandEvent
	}
	statusEvent := l.StatusEvent
	if statusEvent == "" {
		statusEvent = defaultStatusEvent
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = defaultLinkTimeout
	}

	parsedURL, err := url.Parse(l.URL)
	if err != nil {
		return Fault, fmt.Errorf("failed to parse gateway URL: %w", err)
	}

	done := make(chan linkResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if l.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(l.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting gateway client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to device gateway", "sid", io.Id())
		io.Emit(commandEvent, map[string]any{"device": device, "action": action})
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- linkResult{situation: Fault, err: errs[0].(error)}
	})

	io.On(types.EventName(statusEvent), func(data ...any) {
		if len(data) == 0 {
			done <- linkResult{situation: Fault, err: fmt.Errorf("empty %s event from gateway", statusEvent)}
			return
		}
		reported, ok := data[0].(string)
		if !ok {
			done <- linkResult{situation: Fault, err: fmt.Errorf("unexpected %s payload type %T", statusEvent, data[0])}
			return
		}
		done <- linkResult{situation: parseSituation(reported)}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		return Fault, fmt.Errorf("timed out waiting for %q status of device %s", action, device)
	case res := <-done:
		return res.situation, res.err
	}
}

// parseSituation maps a gateway status string onto a Situation. Anything the
// gateway reports that we do not recognize is a fault.
func parseSituation(s string) Situation {
	switch s {
	case "standby":
		return Standby
	case "busy":
		return Busy
	default:
		return Fault
	}
}
