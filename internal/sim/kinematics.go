package sim

import "math"

// referenceTickRate is the frame rate the damping and rotation constants are
// tuned against. Integration scales them so behavior is stable across
// variable timesteps.
const referenceTickRate = 60.0

// integrate advances one body by dt using the shared arcade model: linear
// speed convergence, critically damped turn, velocity derived from heading,
// then rolling-friction damping with a micro-slide snap to zero.
func integrate(b *Body, cfg KinematicsConfig, minSpeed, maxSpeed, dt float64) {
	step := cfg.Acceleration * dt
	diff := b.TargetSpeed - b.Speed
	switch {
	case diff > step:
		b.Speed += step
	case diff < -step:
		b.Speed -= step
	default:
		b.Speed = b.TargetSpeed
	}
	b.Speed = clamp(b.Speed, minSpeed, maxSpeed)

	turn := clamp(cfg.RotationGain*dt*referenceTickRate, 0, 1)
	b.Heading += angDiff(b.Heading, b.TargetHeading) * turn

	if b.Mode == ModeKinematic {
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	} else {
		b.Vel = headingVector(b.Heading).Scale(b.Speed)
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	}

	damp := math.Pow(cfg.Damping, dt*referenceTickRate)
	b.Vel = b.Vel.Scale(damp)
	if math.Abs(b.Vel.X) < cfg.SnapEpsilon {
		b.Vel.X = 0
	}
	if math.Abs(b.Vel.Z) < cfg.SnapEpsilon {
		b.Vel.Z = 0
	}

	// A kinematic body whose authored velocity has damped away converts back
	// to speed-driven control.
	if b.Mode == ModeKinematic && b.Vel == (Vec2{}) {
		b.Mode = ModeSpeedDriven
		b.Speed = 0
	}
}
