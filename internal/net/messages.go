package net

import "github.com/prince118-hub/Escape-Road/internal/sim"

// ProtocolVersion tracks the wire revision expected by viewer clients.
const ProtocolVersion = 1

// Outbound message type identifiers.
const (
	TypeState     = "state"
	TypeHeartbeat = "heartbeat"
)

// Inbound message type identifiers.
const (
	TypeInput      = "input"
	TypeDifficulty = "difficulty"
)

// StateMessage is the per-tick snapshot streamed to every subscriber and
// served on the state endpoint.
type StateMessage struct {
	Ver        int             `json:"ver"`
	Type       string          `json:"type"`
	Tick       uint64          `json:"tick"`
	ServerTime int64           `json:"serverTime"`
	Elapsed    float64         `json:"elapsed"`
	Wanted     int             `json:"wantedLevel"`
	Police     int             `json:"policeCount"`
	Trapped    bool            `json:"trapped"`
	Crashed    bool            `json:"crashed"`
	Bodies     []sim.BodyState `json:"bodies"`
	Events     []EventMessage  `json:"events,omitempty"`
}

// EventMessage is one sink event surfaced during the tick that produced the
// enclosing state message.
type EventMessage struct {
	Kind      string    `json:"kind"`
	Position  *sim.Vec2 `json:"position,omitempty"`
	Heading   float64   `json:"heading,omitempty"`
	Intensity float64   `json:"intensity,omitempty"`
	Wheel     string    `json:"wheel,omitempty"`
	Distance  float64   `json:"distance,omitempty"`
}

// Event kind identifiers.
const (
	EventCrash  = "crash"
	EventCaught = "caught"
	EventSkid   = "skid"
	EventSiren  = "siren"
)

// ClientMessage is the envelope for everything a viewer session sends.
type ClientMessage struct {
	Ver        int     `json:"ver,omitempty"`
	Type       string  `json:"type"`
	Accelerate bool    `json:"accelerate"`
	Brake      bool    `json:"brake"`
	SteerLeft  bool    `json:"steerLeft"`
	SteerRight bool    `json:"steerRight"`
	Boost      bool    `json:"boost"`
	Multiplier float64 `json:"multiplier"`
	SentAt     int64   `json:"sentAt"`
}

// HeartbeatMessage echoes client time so sessions can estimate RTT.
type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}
