package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/prince118-hub/Escape-Road/internal/telemetry"
)

// HTTPHandlerConfig wires the handler's collaborators. WS is the websocket
// session handler mounted at /ws; the ws subpackage provides it and the app
// layer passes it in to keep the import direction one-way.
type HTTPHandlerConfig struct {
	Logger telemetry.Logger
	WS     nethttp.Handler
}

// NewHTTPHandler builds the HTTP surface: health, diagnostics, the state
// snapshot, and the websocket mount.
func NewHTTPHandler(hub *Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		state := hub.CurrentState()
		payload := struct {
			Status      string             `json:"status"`
			ServerTime  int64              `json:"serverTime"`
			TickRate    int                `json:"tickRate"`
			Tick        uint64             `json:"tick"`
			Subscribers int                `json:"subscribers"`
			Wanted      int                `json:"wantedLevel"`
			Police      int                `json:"policeCount"`
			Trapped     bool               `json:"trapped"`
			Telemetry   telemetry.Snapshot `json:"telemetry"`
		}{
			Status:      "ok",
			ServerTime:  time.Now().UnixMilli(),
			TickRate:    hub.TickRate(),
			Tick:        state.Tick,
			Subscribers: hub.SubscriberCount(),
			Wanted:      state.Wanted,
			Police:      state.Police,
			Trapped:     state.Trapped,
			Telemetry:   hub.TelemetrySnapshot(),
		}

		writeJSON(w, logger, payload)
	})

	mux.HandleFunc("/state", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, logger, hub.CurrentState())
	})

	if cfg.WS != nil {
		mux.Handle("/ws", cfg.WS)
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
