package sim

import (
	"math"
	"testing"
)

const testDT = 1.0 / 60.0

func newTestSim(geometry GeometrySource, sink EventSink) *Simulation {
	cfg := DefaultConfig()
	cfg.Traffic.MaxCars = 0 // keep scenarios deterministic
	return New(cfg, geometry, sink)
}

// addPolice injects a pursuit agent directly, bypassing the wanted
// controller, so scenarios control placement exactly.
func (s *Simulation) addPolice(pos Vec2, roll float64) *pursuitAgent {
	cfg := s.cfg.Pursuit
	body := &Body{
		Category:   CategoryPolice,
		Pos:        pos,
		Heading:    headingOf(s.player.body.Pos.Sub(pos)),
		Speed:      cfg.InitialSpeed,
		HalfWidth:  cfg.HalfWidth,
		HalfLength: cfg.HalfLength,
		Mass:       cfg.Mass,
	}
	body.TargetHeading = body.Heading
	body.TargetSpeed = body.Speed
	s.arena.Insert(body)
	s.arena.commit()
	agent := &pursuitAgent{body: body, roll: roll, aggression: 1.0}
	s.police = append(s.police, agent)
	return agent
}

type recordingSink struct {
	NopSink
	crashes int
	caught  int
	skids   int
	sirens  []float64
}

func (r *recordingSink) PlayerCrashedIntoBuilding(Vec2, float64)    { r.crashes++ }
func (r *recordingSink) PlayerCaughtByPolice()                      { r.caught++ }
func (r *recordingSink) SkidMark(Vec2, float64, float64, WheelSide) { r.skids++ }
func (r *recordingSink) SirenProximity(d float64)                   { r.sirens = append(r.sirens, d) }

func TestReverseSpeedFractionEasing(t *testing.T) {
	at15 := reverseSpeedFraction(0.15)
	at50 := reverseSpeedFraction(0.50)
	at90 := reverseSpeedFraction(0.90)
	if !(at15 < at50) {
		t.Fatalf("expected ramp-up: f(0.15)=%.3f >= f(0.50)=%.3f", at15, at50)
	}
	if !(at90 < at50) {
		t.Fatalf("expected ramp-down: f(0.90)=%.3f >= f(0.50)=%.3f", at90, at50)
	}
	if reverseSpeedFraction(0) != 0 || reverseSpeedFraction(1) != 0 {
		t.Fatalf("profile should start and end at zero")
	}
}

func TestCrashStateMachineOrdering(t *testing.T) {
	sink := &recordingSink{}
	wall := Building{Center: Vec2{X: 0, Z: 12}, Width: 6, Depth: 4, Height: 8}
	s := newTestSim(StaticGeometry{wall}, sink)
	s.SetInput(InputSnapshot{Accelerate: true})

	crashTick := -1
	for i := 0; i < 600; i++ {
		s.Tick(testDT)
		if s.player.phase == PhaseStunned {
			crashTick = i
			break
		}
	}
	if crashTick < 0 {
		t.Fatalf("player never crashed into the wall")
	}
	if sink.crashes != 1 {
		t.Fatalf("expected exactly one crash event, got %d", sink.crashes)
	}
	if s.player.body.Vel != (Vec2{}) || s.player.body.Speed != 0 {
		t.Fatalf("crash tick must force velocity to exactly zero, got vel=%+v speed=%.3f",
			s.player.body.Vel, s.player.body.Speed)
	}
	if !s.IsPlayerCrashed() {
		t.Fatalf("IsPlayerCrashed should report the recovery script")
	}

	cfg := s.cfg.Player
	stunTicks := int(math.Ceil(cfg.StunDuration / testDT))

	// Input changes must not shorten the stun.
	s.SetInput(InputSnapshot{Brake: true, SteerLeft: true})
	for i := 0; i < stunTicks-1; i++ {
		s.Tick(testDT)
		if s.player.phase != PhaseStunned {
			t.Fatalf("left stun early at tick %d of %d", i, stunTicks)
		}
		if s.player.body.Vel != (Vec2{}) {
			t.Fatalf("velocity must stay zero while stunned")
		}
	}
	for i := 0; i < 3 && s.player.phase == PhaseStunned; i++ {
		s.Tick(testDT)
	}
	if s.player.phase != PhaseReversing {
		t.Fatalf("expected reversing after stun, got %v", s.player.phase)
	}

	// Eased reverse: sample speed magnitude at 15%, 50%, and 90% progress.
	reverseTicks := int(math.Ceil(cfg.ReverseDuration / testDT))
	var at15, at50, at90 float64
	for i := 0; i < reverseTicks; i++ {
		progress := 1 - s.player.reverseLeft/cfg.ReverseDuration
		speed := math.Abs(s.player.body.Speed)
		switch {
		case math.Abs(progress-0.15) < 0.02:
			at15 = speed
		case math.Abs(progress-0.50) < 0.02:
			at50 = speed
		case math.Abs(progress-0.90) < 0.02:
			at90 = speed
		}
		if s.player.phase != PhaseReversing {
			break
		}
		s.Tick(testDT)
	}
	if !(at15 < at50 && at90 < at50) {
		t.Fatalf("eased profile violated: 15%%=%.3f 50%%=%.3f 90%%=%.3f", at15, at50, at90)
	}

	for i := 0; i < 10 && s.player.phase != PhaseNormal; i++ {
		s.Tick(testDT)
	}
	if s.player.phase != PhaseNormal {
		t.Fatalf("recovery never returned to normal")
	}
}

func TestCrashReverseDirectionIsBackwards(t *testing.T) {
	wall := Building{Center: Vec2{X: 0, Z: 12}, Width: 6, Depth: 4, Height: 8}
	s := newTestSim(StaticGeometry{wall}, nil)
	s.SetInput(InputSnapshot{Accelerate: true})

	for i := 0; i < 600 && s.player.phase == PhaseNormal; i++ {
		s.Tick(testDT)
	}
	if s.player.phase != PhaseStunned {
		t.Fatalf("expected crash")
	}

	// Heading was ~0 (+Z); the captured direction is the negated forward
	// heading, not the collision normal.
	forward := headingVector(s.player.body.Heading)
	dot := s.player.reverseDir.Dot(forward)
	if dot > -0.99 {
		t.Fatalf("reverse direction not opposite forward: dot=%.3f", dot)
	}
}

func TestCrashCooldownSuppressesRetrigger(t *testing.T) {
	sink := &recordingSink{}
	wall := Building{Center: Vec2{X: 0, Z: 12}, Width: 6, Depth: 4, Height: 8}
	s := newTestSim(StaticGeometry{wall}, sink)
	s.SetInput(InputSnapshot{Accelerate: true})

	for i := 0; i < 600 && sink.crashes == 0; i++ {
		s.Tick(testDT)
	}
	if sink.crashes != 1 {
		t.Fatalf("expected one crash, got %d", sink.crashes)
	}

	// Run through the whole recovery plus the cooldown window; the single
	// crash must not double-fire even though the wall is still adjacent.
	cooldownTicks := int((s.cfg.Player.StunDuration + s.cfg.Player.ReverseDuration + s.cfg.Player.CrashCooldown) / testDT)
	s.SetInput(InputSnapshot{})
	for i := 0; i < cooldownTicks; i++ {
		s.Tick(testDT)
	}
	if sink.crashes != 1 {
		t.Fatalf("crash re-triggered during cooldown: %d events", sink.crashes)
	}
}

func TestBoostRaisesSpeedAndDrains(t *testing.T) {
	s := newTestSim(nil, nil)
	s.SetInput(InputSnapshot{Accelerate: true, Boost: true})

	// Sample well before the reserve empties.
	for i := 0; i < 150; i++ {
		s.Tick(testDT)
	}
	if s.player.body.Speed <= s.cfg.Player.ForwardSpeed {
		t.Fatalf("boost should push past forward speed, got %.2f", s.player.body.Speed)
	}
	if s.player.boost >= s.cfg.Player.BoostCapacity {
		t.Fatalf("boost reserve should drain while held")
	}

	// Once the reserve is gone the target falls back to forward speed.
	for i := 0; i < 600; i++ {
		s.Tick(testDT)
	}
	if s.player.body.Speed > s.cfg.Player.ForwardSpeed+0.5 {
		t.Fatalf("speed should settle back after the reserve empties, got %.2f", s.player.body.Speed)
	}
}

func TestSteeringEmitsSkidMarks(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSim(nil, sink)

	s.SetInput(InputSnapshot{Accelerate: true})
	for i := 0; i < 240; i++ {
		s.Tick(testDT)
	}
	if sink.skids != 0 {
		t.Fatalf("straight-line driving should not skid, got %d events", sink.skids)
	}

	s.SetInput(InputSnapshot{Accelerate: true, SteerLeft: true})
	for i := 0; i < 60; i++ {
		s.Tick(testDT)
	}
	if sink.skids == 0 {
		t.Fatalf("hard steering at speed should emit skid marks")
	}
}
