package net

import (
	"testing"

	"github.com/prince118-hub/Escape-Road/internal/sim"
	"github.com/prince118-hub/Escape-Road/internal/telemetry"
)

const testDT = 1.0 / 60.0

func TestNewHubDefaults(t *testing.T) {
	hub := NewHub(HubConfig{})
	if hub.TickRate() != DefaultTickRate {
		t.Fatalf("tick rate %d, want %d", hub.TickRate(), DefaultTickRate)
	}

	state := hub.CurrentState()
	if state.Type != TypeState || state.Ver != ProtocolVersion {
		t.Fatalf("bad envelope: %+v", state)
	}
	if len(state.Bodies) != 1 {
		t.Fatalf("fresh hub should expose only the player, got %d bodies", len(state.Bodies))
	}
	if state.Tick != 0 || state.Elapsed != 0 {
		t.Fatalf("fresh hub should be at tick zero: %+v", state)
	}
}

func TestAdvanceProducesFrames(t *testing.T) {
	counters := telemetry.NewCounters()
	hub := NewHub(HubConfig{Counters: counters})

	hub.UpdateIntent(sim.InputSnapshot{Accelerate: true})

	var last StateMessage
	for i := 0; i < 120; i++ {
		last = hub.advance(testDT)
	}
	if last.Tick != 120 {
		t.Fatalf("tick %d, want 120", last.Tick)
	}

	var playerSpeed float64
	for _, b := range last.Bodies {
		if b.Category == "player" {
			playerSpeed = b.Speed
		}
	}
	if playerSpeed <= 0 {
		t.Fatalf("accelerating player never gained speed")
	}

	snap := counters.Snapshot()
	if snap.Ticks != 120 {
		t.Fatalf("counter ticks %d, want 120", snap.Ticks)
	}
	if snap.BodiesSimulated == 0 {
		t.Fatalf("body counter never advanced")
	}
}

func TestSinkEventsSurfaceInFrames(t *testing.T) {
	wall := sim.Building{Center: sim.Vec2{X: 0, Z: 14}, Width: 8, Depth: 4, Height: 10}
	cfg := sim.DefaultConfig()
	cfg.Wanted.SpawnBase = 3600 // keep sirens out of this scenario
	cfg.Traffic.MaxCars = 0
	counters := telemetry.NewCounters()
	hub := NewHub(HubConfig{
		Sim:      cfg,
		Geometry: sim.StaticGeometry{wall},
		Counters: counters,
	})

	hub.UpdateIntent(sim.InputSnapshot{Accelerate: true})

	sawCrash := false
	for i := 0; i < 600 && !sawCrash; i++ {
		frame := hub.advance(testDT)
		for _, ev := range frame.Events {
			if ev.Kind == EventCrash {
				sawCrash = true
				if ev.Position == nil {
					t.Fatalf("crash event missing position")
				}
				if ev.Intensity <= 0 {
					t.Fatalf("crash event missing intensity")
				}
			}
		}
	}
	if !sawCrash {
		t.Fatalf("driving into a wall never surfaced a crash event")
	}
	if counters.Snapshot().Crashes != 1 {
		t.Fatalf("crash counter = %d, want 1", counters.Snapshot().Crashes)
	}

	// Events belong to the tick that produced them and must not linger.
	hub.UpdateIntent(sim.InputSnapshot{})
	for i := 0; i < 300; i++ {
		hub.advance(testDT)
	}
	if frame := hub.CurrentState(); len(frame.Events) != 0 {
		t.Fatalf("stale events leaked into a later frame: %+v", frame.Events)
	}
}

func TestSetDifficultyFlowsThrough(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.SetDifficulty(1.5)
	hub.SetDifficulty(0) // clamps inside the sim, must not panic
	hub.advance(testDT)
}

func TestCurrentStateDoesNotAdvanceClock(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.advance(testDT)

	before := hub.CurrentState()
	after := hub.CurrentState()
	if before.Tick != after.Tick || before.Elapsed != after.Elapsed {
		t.Fatalf("reading state advanced the simulation")
	}
}
