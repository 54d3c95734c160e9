// Package telemetry carries the counters and the logging seam shared by the
// hub and the HTTP surface. The simulation core itself never logs; everything
// it reports arrives here through the hub's event sink.
package telemetry

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger exposes the logging capability required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapZerolog adapts a zerolog logger to the Logger interface.
func WrapZerolog(logger zerolog.Logger) Logger {
	return &zerologAdapter{logger: logger}
}

type zerologAdapter struct {
	logger zerolog.Logger
}

func (z *zerologAdapter) Printf(format string, args ...any) {
	if z == nil {
		return
	}
	z.logger.Info().Msgf(format, args...)
}

// Counters aggregates per-tick and per-broadcast telemetry. All fields are
// atomics so the tick loop and the HTTP surface never contend.
type Counters struct {
	ticks                 atomic.Uint64
	tickDurationMillis    atomic.Int64
	bodiesSimulated       atomic.Uint64
	bytesSent             atomic.Uint64
	entitiesSent          atomic.Uint64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	crashes               atomic.Uint64
	captures              atomic.Uint64
	skidMarks             atomic.Uint64
	policeSpawned         atomic.Uint64
}

// Snapshot is the JSON view served on the diagnostics endpoint.
type Snapshot struct {
	Ticks              uint64 `json:"ticks"`
	TickDurationMillis int64  `json:"tickDurationMillis"`
	BodiesSimulated    uint64 `json:"bodiesSimulated"`
	BytesSent          uint64 `json:"bytesSent"`
	EntitiesSent       uint64 `json:"entitiesSent"`
	Crashes            uint64 `json:"crashes"`
	Captures           uint64 `json:"captures"`
	SkidMarks          uint64 `json:"skidMarks"`
	PoliceSpawned      uint64 `json:"policeSpawned"`
}

func NewCounters() *Counters {
	return &Counters{}
}

// RecordTick stores the latest tick duration and the body count it simulated.
func (c *Counters) RecordTick(duration time.Duration, bodies int) {
	if c == nil {
		return
	}
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	if bodies < 0 {
		bodies = 0
	}
	c.ticks.Add(1)
	c.tickDurationMillis.Store(millis)
	c.bodiesSimulated.Add(uint64(bodies))
}

// RecordBroadcast accumulates outbound payload totals.
func (c *Counters) RecordBroadcast(bytes, entities int) {
	if c == nil {
		return
	}
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	c.bytesSent.Add(uint64(bytes))
	c.entitiesSent.Add(uint64(entities))
	c.lastBroadcastBytes.Store(uint64(bytes))
	c.lastBroadcastEntities.Store(uint64(entities))
}

func (c *Counters) IncrementCrashes() {
	if c != nil {
		c.crashes.Add(1)
	}
}

func (c *Counters) IncrementCaptures() {
	if c != nil {
		c.captures.Add(1)
	}
}

func (c *Counters) IncrementSkidMarks() {
	if c != nil {
		c.skidMarks.Add(1)
	}
}

func (c *Counters) IncrementPoliceSpawned() {
	if c != nil {
		c.policeSpawned.Add(1)
	}
}

func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Ticks:              c.ticks.Load(),
		TickDurationMillis: c.tickDurationMillis.Load(),
		BodiesSimulated:    c.bodiesSimulated.Load(),
		BytesSent:          c.bytesSent.Load(),
		EntitiesSent:       c.entitiesSent.Load(),
		Crashes:            c.crashes.Load(),
		Captures:           c.captures.Load(),
		SkidMarks:          c.skidMarks.Load(),
		PoliceSpawned:      c.policeSpawned.Load(),
	}
}
