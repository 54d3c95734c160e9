// Package ws hosts websocket viewer sessions: each session receives the
// per-tick state stream and may send input intents for the player body.
package ws

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	servernet "github.com/prince118-hub/Escape-Road/internal/net"
	"github.com/prince118-hub/Escape-Road/internal/sim"
)

type HandlerConfig struct {
	Logger zerolog.Logger
}

// Handler upgrades HTTP requests into viewer sessions on the hub.
type Handler struct {
	hub      *servernet.Hub
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *servernet.Hub, cfg HandlerConfig) *Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   cfg.Logger,
		upgrader: upgrader,
	}
}

// ServeHTTP upgrades the connection and runs the session loop until the
// client disconnects.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sessionID, sub, snapshot := h.hub.Subscribe(conn)
	logger := h.logger.With().Str("session", sessionID).Logger()
	logger.Info().Msg("viewer connected")

	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal initial state")
		h.hub.Disconnect(sessionID)
		return
	}
	if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
		h.hub.Disconnect(sessionID)
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			logger.Info().Msg("viewer disconnected")
			h.hub.Disconnect(sessionID)
			return
		}

		var msg servernet.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Warn().Err(err).Msg("discarding malformed message")
			continue
		}

		switch msg.Type {
		case servernet.TypeInput:
			h.hub.UpdateIntent(sim.InputSnapshot{
				Accelerate: msg.Accelerate,
				Brake:      msg.Brake,
				SteerLeft:  msg.SteerLeft,
				SteerRight: msg.SteerRight,
				Boost:      msg.Boost,
			})
		case servernet.TypeDifficulty:
			if msg.Multiplier > 0 {
				h.hub.SetDifficulty(msg.Multiplier)
				logger.Info().Float64("multiplier", msg.Multiplier).Msg("difficulty updated")
			}
		case servernet.TypeHeartbeat:
			ack := servernet.HeartbeatMessage{
				Ver:        servernet.ProtocolVersion,
				Type:       servernet.TypeHeartbeat,
				ServerTime: time.Now().UnixMilli(),
				ClientTime: msg.SentAt,
			}
			data, err := json.Marshal(ack)
			if err != nil {
				logger.Error().Err(err).Msg("failed to marshal heartbeat ack")
				continue
			}
			if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
				h.hub.Disconnect(sessionID)
				return
			}
		default:
			logger.Warn().Str("type", msg.Type).Msg("unknown message type")
		}
	}
}
