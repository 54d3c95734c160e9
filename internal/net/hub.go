// Package net owns the server surface around the simulation core: the hub
// that drives the fixed-rate tick loop, the subscriber registry, and the
// HTTP endpoints. WebSocket session handling lives in the ws subpackage.
package net

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/prince118-hub/Escape-Road/internal/sim"
	"github.com/prince118-hub/Escape-Road/internal/telemetry"
)

const (
	// DefaultTickRate is the simulation step rate in Hz.
	DefaultTickRate = 60

	// writeWait bounds a single subscriber write before the session is
	// considered dead.
	writeWait = 5 * time.Second
)

// HubConfig assembles everything the hub needs. Zero values fall back to
// defaults so tests can construct hubs tersely.
type HubConfig struct {
	Sim      sim.Config
	Geometry sim.GeometrySource
	TickRate int
	Logger   telemetry.Logger
	Counters *telemetry.Counters
}

// Hub owns the simulation and every live viewer session. All simulation
// access is serialized through its mutex; the sim core itself is single
// threaded by contract.
type Hub struct {
	mu          sync.Mutex
	sim         *sim.Simulation
	subscribers map[string]*subscriber
	events      []EventMessage

	tickRate   int
	logger     telemetry.Logger
	counters   *telemetry.Counters
	lastPolice int
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage serializes writes to the underlying connection.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// NewHub builds a hub around a fresh simulation. The hub installs itself as
// the simulation's event sink so sink callbacks land in the per-tick event
// queue and the counters.
func NewHub(cfg HubConfig) *Hub {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(nil)
	}

	h := &Hub{
		subscribers: make(map[string]*subscriber),
		tickRate:    cfg.TickRate,
		logger:      cfg.Logger,
		counters:    cfg.Counters,
	}
	h.sim = sim.New(cfg.Sim, cfg.Geometry, h)
	return h
}

// TickRate returns the configured step rate in Hz.
func (h *Hub) TickRate() int {
	return h.tickRate
}

// Subscribe registers a new viewer session and returns its ID plus the
// current state snapshot for the initial frame.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, *subscriber, StateMessage) {
	sessionID := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[sessionID] = sub
	snapshot := h.snapshotLocked()
	h.mu.Unlock()

	return sessionID, sub, snapshot
}

// Disconnect removes a session and closes its connection.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	sub, ok := h.subscribers[sessionID]
	if ok {
		delete(h.subscribers, sessionID)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// SubscriberCount reports the number of live sessions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// UpdateIntent stores the latest input snapshot; the next tick consumes it.
func (h *Hub) UpdateIntent(in sim.InputSnapshot) {
	h.mu.Lock()
	h.sim.SetInput(in)
	h.mu.Unlock()
}

// SetDifficulty forwards the difficulty multiplier to the simulation.
func (h *Hub) SetDifficulty(multiplier float64) {
	h.mu.Lock()
	h.sim.SetDifficultyMultiplier(multiplier)
	h.mu.Unlock()
}

// advance runs one simulation step and returns the resulting snapshot.
func (h *Hub) advance(dt float64) StateMessage {
	start := time.Now()

	h.mu.Lock()
	h.events = h.events[:0]
	h.sim.Tick(dt)
	snapshot := h.snapshotLocked()
	for i := h.lastPolice; i < snapshot.Police; i++ {
		h.counters.IncrementPoliceSpawned()
	}
	h.lastPolice = snapshot.Police
	h.mu.Unlock()

	h.counters.RecordTick(time.Since(start), len(snapshot.Bodies))
	return snapshot
}

// snapshotLocked assembles the state message. Callers hold the mutex.
func (h *Hub) snapshotLocked() StateMessage {
	events := make([]EventMessage, len(h.events))
	copy(events, h.events)

	return StateMessage{
		Ver:        ProtocolVersion,
		Type:       TypeState,
		Tick:       h.sim.TickCount(),
		ServerTime: time.Now().UnixMilli(),
		Elapsed:    h.sim.Elapsed(),
		Wanted:     h.sim.WantedLevel(),
		Police:     h.sim.PoliceCount(),
		Trapped:    h.sim.IsPlayerTrapped(),
		Crashed:    h.sim.IsPlayerCrashed(),
		Bodies:     h.sim.BodyStates(),
		Events:     events,
	}
}

// CurrentState returns the latest snapshot without advancing the clock.
func (h *Hub) CurrentState() StateMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// TelemetrySnapshot exposes the counters for the diagnostics endpoint.
func (h *Hub) TelemetrySnapshot() telemetry.Snapshot {
	return h.counters.Snapshot()
}

// RunSimulation drives the fixed-rate tick loop until the stop channel
// closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(h.tickRate)
			}
			last = now

			snapshot := h.advance(dt)
			h.broadcastState(snapshot)
		}
	}
}

// broadcastState sends the snapshot to every subscriber, dropping sessions
// whose writes fail.
func (h *Hub) broadcastState(snapshot StateMessage) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}
	h.counters.RecordBroadcast(len(data), len(snapshot.Bodies))

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// PlayerCrashedIntoBuilding implements sim.EventSink.
func (h *Hub) PlayerCrashedIntoBuilding(pos sim.Vec2, intensity float64) {
	p := pos
	h.events = append(h.events, EventMessage{Kind: EventCrash, Position: &p, Intensity: intensity})
	h.counters.IncrementCrashes()
}

// PlayerCaughtByPolice implements sim.EventSink.
func (h *Hub) PlayerCaughtByPolice() {
	h.events = append(h.events, EventMessage{Kind: EventCaught})
	h.counters.IncrementCaptures()
}

// SkidMark implements sim.EventSink.
func (h *Hub) SkidMark(pos sim.Vec2, heading, intensity float64, wheel sim.WheelSide) {
	p := pos
	h.events = append(h.events, EventMessage{
		Kind:      EventSkid,
		Position:  &p,
		Heading:   heading,
		Intensity: intensity,
		Wheel:     wheel.String(),
	})
	h.counters.IncrementSkidMarks()
}

// SirenProximity implements sim.EventSink.
func (h *Hub) SirenProximity(distance float64) {
	h.events = append(h.events, EventMessage{Kind: EventSiren, Distance: distance})
}
