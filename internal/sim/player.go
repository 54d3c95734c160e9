package sim

import "math"

// CrashPhase is the player's crash recovery state. Normal control resumes
// only after the scripted stun-then-reverse sequence completes.
type CrashPhase uint8

const (
	PhaseNormal CrashPhase = iota
	PhaseStunned
	PhaseReversing
)

func (p CrashPhase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseStunned:
		return "stunned"
	case PhaseReversing:
		return "reversing"
	}
	return "unknown"
}

type playerState struct {
	body        *Body
	phase       CrashPhase
	stunLeft    float64
	reverseLeft float64
	reverseDir  Vec2 // unit vector captured at impact
	cooldown    float64
	boost       float64 // remaining boost seconds
}

// reverseSpeedFraction maps recovery progress in [0,1] to a speed fraction:
// ramp up over the first 30%, hold, ramp down over the final 30%.
func reverseSpeedFraction(progress float64) float64 {
	progress = clamp(progress, 0, 1)
	switch {
	case progress < 0.3:
		return progress / 0.3
	case progress > 0.7:
		return (1 - progress) / 0.3
	default:
		return 1
	}
}

func (s *Simulation) stepPlayer(dt float64) {
	p := &s.player
	b := p.body
	cfg := s.cfg.Player

	if p.cooldown > 0 {
		p.cooldown -= dt
	}

	switch p.phase {
	case PhaseStunned:
		b.Speed = 0
		b.TargetSpeed = 0
		b.Vel = Vec2{}
		p.stunLeft -= dt
		if p.stunLeft <= 0 {
			p.phase = PhaseReversing
			p.reverseLeft = cfg.ReverseDuration
		}
		return

	case PhaseReversing:
		progress := 1 - p.reverseLeft/cfg.ReverseDuration
		spd := reverseSpeedFraction(progress) * cfg.ReverseTopSpeed
		b.Vel = p.reverseDir.Scale(spd)
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		b.Speed = -spd
		b.TargetSpeed = 0
		s.emitSkids(b, spd*0.4)
		p.reverseLeft -= dt
		if p.reverseLeft <= 0 {
			p.phase = PhaseNormal
			b.Speed = 0
			b.Vel = Vec2{}
			b.Mode = ModeSpeedDriven
		}
		return
	}

	in := s.input

	// Steering turns the hull directly; the shared integrator's smoothing
	// term stays inert because target tracks actual.
	steer := in.steer()
	if steer != 0 && math.Abs(b.Speed) > 0.2 {
		turn := steer * cfg.SteerRate * dt
		if b.Speed < 0 {
			turn = -turn
		}
		b.Heading += turn
	}
	b.TargetHeading = b.Heading

	maxSpeed := cfg.ForwardSpeed
	switch {
	case in.Boost && in.Accelerate && p.boost > 0:
		b.TargetSpeed = cfg.BoostSpeed
		maxSpeed = cfg.BoostSpeed
		p.boost -= dt
	case in.Accelerate:
		b.TargetSpeed = cfg.ForwardSpeed
	case in.Brake:
		if b.Speed > 0.5 {
			b.TargetSpeed = 0
		} else {
			b.TargetSpeed = cfg.ReverseSpeed
		}
	default:
		b.TargetSpeed = 0
	}
	if !in.Boost && p.boost < cfg.BoostCapacity {
		p.boost = math.Min(cfg.BoostCapacity, p.boost+cfg.BoostRefillRate*dt)
	}
	if b.Speed > maxSpeed {
		// Boost released at speed: let the excess bleed off instead of
		// clipping it away in one tick.
		maxSpeed = b.Speed
	}

	integrate(b, s.cfg.Kinematics, cfg.ReverseSpeed, maxSpeed, dt)

	if steer != 0 && math.Abs(b.Speed) >= cfg.SkidMinSpeed {
		s.emitSkids(b, math.Abs(b.Speed)/cfg.BoostSpeed)
	}
}

// emitSkids fires one skid-mark event per rear wheel.
func (s *Simulation) emitSkids(b *Body, intensity float64) {
	if intensity <= 0 {
		return
	}
	back := headingVector(b.Heading).Scale(-b.HalfLength)
	side := headingVector(b.Heading).Perpendicular().Scale(b.HalfWidth)
	s.sink.SkidMark(b.Pos.Add(back).Add(side), b.Heading, intensity, WheelLeft)
	s.sink.SkidMark(b.Pos.Add(back).Sub(side), b.Heading, intensity, WheelRight)
}

// crashIntoBuilding runs the player-building collision policy: full stop,
// clamp outside the padded footprint, then the stun/reverse script. The
// reverse direction is the negative of the current forward heading, not the
// collision normal.
func (s *Simulation) crashIntoBuilding(bl Building) {
	p := &s.player
	b := p.body
	cfg := s.cfg.Player

	if p.phase != PhaseNormal || p.cooldown > 0 {
		return
	}

	normal, depth, ok := minimumTranslation(b.bounds(s.cfg.Collision.Padding), bl.bounds(0))
	if ok {
		b.Pos = b.Pos.Add(normal.Scale(depth))
	}

	intensity := clamp(math.Abs(b.Speed)/cfg.BoostSpeed, 0, 1)
	p.reverseDir = headingVector(b.Heading).Scale(-1)
	p.phase = PhaseStunned
	p.stunLeft = cfg.StunDuration
	p.cooldown = cfg.CrashCooldown

	b.Speed = 0
	b.TargetSpeed = 0
	b.Vel = Vec2{}
	b.Mode = ModeSpeedDriven

	s.sink.PlayerCrashedIntoBuilding(b.Pos, intensity)
}
