package sim

import "math"

// CollisionProfile carries the restitution and friction for one category
// pair. Profiles are asymmetric: police are heavy and stiff so they shoulder
// traffic aside, traffic is light and bouncy.
type CollisionProfile struct {
	Elasticity float64 // 0 = inelastic, 1 = elastic
	Friction   float64 // tangential velocity damp on impact
}

var (
	profileTrafficTraffic = CollisionProfile{Elasticity: 0.55, Friction: 0.25}
	profilePoliceTraffic  = CollisionProfile{Elasticity: 0.30, Friction: 0.30}
	profilePolicePolice   = CollisionProfile{Elasticity: 0.10, Friction: 0.50}
	profilePlayerTraffic  = CollisionProfile{Elasticity: 0.40, Friction: 0.30}
	profilePlayerPolice   = CollisionProfile{Elasticity: 0.25, Friction: 0.35}
)

func pairProfile(a, b Category) CollisionProfile {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == CategoryPlayer && b == CategoryPolice:
		return profilePlayerPolice
	case a == CategoryPlayer && b == CategoryTraffic:
		return profilePlayerTraffic
	case a == CategoryPolice && b == CategoryPolice:
		return profilePolicePolice
	case a == CategoryPolice && b == CategoryTraffic:
		return profilePoliceTraffic
	default:
		return profileTrafficTraffic
	}
}

func (s *Simulation) resolveImpulse(a, b *Body, normal Vec2, depth float64) {
	resolveImpulsePair(a, b, normal, depth, pairProfile(a.Category, b.Category), s.cfg.Collision)
}

// resolveImpulsePair separates an overlapping pair and exchanges momentum.
// normal points from b toward a. Position correction is distributed
// inversely to mass share and capped per pass; velocity resolution is
// skipped for already-separating pairs so repeated calls never inject
// energy.
func resolveImpulsePair(a, b *Body, normal Vec2, depth float64, prof CollisionProfile, cfg CollisionConfig) {
	totalMass := a.Mass + b.Mass

	pushA := math.Min(depth*(b.Mass/totalMass), cfg.MaxPush)
	pushB := math.Min(depth*(a.Mass/totalMass), cfg.MaxPush)
	a.Pos = a.Pos.Add(normal.Scale(pushA))
	b.Pos = b.Pos.Sub(normal.Scale(pushB))

	va := a.Velocity()
	vb := b.Velocity()
	relN := va.Sub(vb).Dot(normal)
	if relN > 0 {
		// Already separating: forcing a response here would reverse the
		// relative velocity sign incorrectly.
		return
	}

	// Same-variant pairs exchange momentum Newton-style; a mixed pair (one
	// kinematically authored velocity, one scalar speed) uses the
	// reflect-and-transfer response instead.
	aKinematic := a.Mode == ModeKinematic
	bKinematic := b.Mode == ModeKinematic
	switch {
	case aKinematic == bKinematic:
		j := -(1 + prof.Elasticity) * relN / totalMass
		applyImpulseResponse(a, normal, j*b.Mass, prof.Friction)
		applyImpulseResponse(b, normal, -j*a.Mass, prof.Friction)
	case aKinematic:
		reflectAndTransfer(a, b, normal, prof, cfg.SpeedTransfer)
	default:
		reflectAndTransfer(b, a, normal.Scale(-1), prof, cfg.SpeedTransfer)
	}
}

// applyImpulseResponse applies an impulse of magnitude j along normal, then
// damps the tangential component by friction. The response is per-variant:
// traffic converts to a kinematically authored velocity that damps back out,
// speed-driven bodies project the result onto their heading.
func applyImpulseResponse(b *Body, normal Vec2, j, friction float64) {
	v := b.Velocity().Add(normal.Scale(j))
	vn := normal.Scale(v.Dot(normal))
	vt := v.Sub(vn).Scale(1 - friction)
	v = vn.Add(vt)

	if b.Mode == ModeKinematic || b.Category == CategoryTraffic {
		b.Mode = ModeKinematic
		b.Vel = v
		return
	}
	b.Speed = v.Dot(headingVector(b.Heading))
	b.Vel = headingVector(b.Heading).Scale(b.Speed)
}

// reflectAndTransfer handles the one-sided case: the moving body's velocity
// reflects by the pair elasticity and a fraction of the impact magnitude
// feeds the still body's scalar speed, shoving it along its own hull.
func reflectAndTransfer(moving, still *Body, normal Vec2, prof CollisionProfile, transfer float64) {
	v := moving.Velocity()
	vn := normal.Scale(v.Dot(normal))
	vt := v.Sub(vn).Scale(1 - prof.Friction)
	reflected := vt.Sub(vn.Scale(prof.Elasticity))

	moving.Mode = ModeKinematic
	moving.Vel = reflected

	impact := vn.Length()
	if impact <= 0 {
		return
	}
	shove := normal.Scale(-transfer * impact)
	still.Speed += shove.Dot(headingVector(still.Heading))
}
