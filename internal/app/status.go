package app

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// deviceStatus is one device's entry in the status payload.
type deviceStatus struct {
	Situation  string `json:"situation"`
	LastAction string `json:"last_action,omitempty"`
}

// lineStatus is the JSON shape served by the status endpoint.
type lineStatus struct {
	CurrentStep string                  `json:"current_step"`
	Completed   bool                    `json:"completed"`
	Devices     map[string]deviceStatus `json:"devices"`
}

// statusHandler reports the controller's cursor and every device's situation.
// It runs on the HTTP server's goroutines, so the snapshot is taken under the
// mutex that advanceStep holds during dispatch.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)

	a.mu.Lock()
	status := lineStatus{Devices: map[string]deviceStatus{}}
	if a.ctrl != nil {
		status.CurrentStep = a.ctrl.CurrentStep()
		status.Completed = a.ctrl.IsSequenceCompleted()
	}
	for _, name := range a.manager.Devices() {
		situation, ok := a.manager.Situation(name)
		if !ok {
			continue
		}
		action, _ := a.manager.LastAction(name)
		status.Devices[name] = deviceStatus{
			Situation:  situation.String(),
			LastAction: action,
		}
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		a.logger.Error("Failed to encode line status.", "error", err)
	}
}

// startStatusServer runs the HTTP line status server.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring line status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/status", a.statusHandler)

	addr := fmt.Sprintf(":%d", port)
	a.logger.Info("🩺 Line status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.logger.Error("Line status server failed", "error", err)
	}
}
