package sim

import "math"

// minimumTranslation computes the MTV separating box a from box b: a unit
// normal pointing away from b and the penetration depth along it. Reports
// false when the boxes do not overlap. Degenerate zero-distance pairs fall
// back to +X rather than dividing by zero.
func minimumTranslation(a, b aabb) (Vec2, float64, bool) {
	overlapX := math.Min(a.maxX, b.maxX) - math.Max(a.minX, b.minX)
	overlapZ := math.Min(a.maxZ, b.maxZ) - math.Max(a.minZ, b.minZ)
	if overlapX <= 0 || overlapZ <= 0 {
		return Vec2{}, 0, false
	}

	centerAX := (a.minX + a.maxX) / 2
	centerAZ := (a.minZ + a.maxZ) / 2
	centerBX := (b.minX + b.maxX) / 2
	centerBZ := (b.minZ + b.maxZ) / 2

	if overlapX < overlapZ {
		if centerAX == centerBX {
			return Vec2{X: 1, Z: 0}, overlapX, true
		}
		if centerAX > centerBX {
			return Vec2{X: 1, Z: 0}, overlapX, true
		}
		return Vec2{X: -1, Z: 0}, overlapX, true
	}
	if centerAZ == centerBZ && centerAX == centerBX {
		return Vec2{X: 1, Z: 0}, overlapZ, true
	}
	if centerAZ > centerBZ {
		return Vec2{X: 0, Z: 1}, overlapZ, true
	}
	return Vec2{X: 0, Z: -1}, overlapZ, true
}

// pairPadding returns the broad-phase safety margin for a pair. Player and
// police boxes are padded; traffic boxes are exact.
func (s *Simulation) pairPadding(b *Body) float64 {
	if b.Category == CategoryTraffic {
		return 0
	}
	return s.cfg.Collision.Padding
}

// resolveBodyPairs runs the generic broad-phase/narrow-phase/impulse pipeline
// over every body pair except player-police, which has its own proactive
// separation step. Resolution is idempotent: a separated pair is a no-op.
func (s *Simulation) resolveBodyPairs() {
	bodies := s.arena.active
	cfg := s.cfg.Collision

	for pass := 0; pass < cfg.Passes; pass++ {
		adjusted := false
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				a, b := bodies[i], bodies[j]
				if isPlayerPolicePair(a, b) {
					continue
				}
				if !a.bounds(s.pairPadding(a)).overlaps(b.bounds(s.pairPadding(b))) {
					continue
				}
				normal, depth, ok := minimumTranslation(a.bounds(s.pairPadding(a)), b.bounds(s.pairPadding(b)))
				if !ok {
					continue
				}
				s.resolveImpulse(a, b, normal, depth)
				adjusted = true
			}
		}
		if !adjusted {
			break
		}
	}
}

func isPlayerPolicePair(a, b *Body) bool {
	return (a.Category == CategoryPlayer && b.Category == CategoryPolice) ||
		(a.Category == CategoryPolice && b.Category == CategoryPlayer)
}

// resolveBuildingCollisions applies the per-category building rules: the
// player triggers the crash machine, traffic is clamped out and loses its
// into-wall velocity. Police building contact is owned by pursuit rerouting.
func (s *Simulation) resolveBuildingCollisions() {
	buildings := s.buildings()
	if len(buildings) == 0 {
		return
	}

	player := s.player.body
	if bl, hit := firstBuildingOverlap(buildings, player.bounds(s.cfg.Collision.Padding), 0); hit {
		s.crashIntoBuilding(bl)
	}

	for _, b := range s.arena.active {
		if b.Category != CategoryTraffic {
			continue
		}
		bl, hit := firstBuildingOverlap(buildings, b.bounds(0), 0)
		if !hit {
			continue
		}
		normal, depth, ok := minimumTranslation(b.bounds(0), bl.bounds(0))
		if !ok {
			continue
		}
		b.Pos = b.Pos.Add(normal.Scale(depth))
		v := b.Velocity()
		into := v.Dot(normal)
		if into < 0 {
			v = v.Sub(normal.Scale(into))
			b.Mode = ModeKinematic
			b.Vel = v
		}
	}
}

// separatePlayerFromPolice is the proactive anti-tunneling step: it enforces
// a minimum safe center distance every tick, in multiple passes, whether or
// not the boxes overlap yet. When the naive push would shove the player into
// a building it slides laterally instead and damps the player rather than
// relocating it.
func (s *Simulation) separatePlayerFromPolice() {
	cfg := s.cfg.Collision
	player := s.player.body

	for pass := 0; pass < cfg.SeparationPass; pass++ {
		for _, agent := range s.police {
			pb := agent.body
			delta := player.Pos.Sub(pb.Pos)
			dist := delta.Length()
			if dist >= cfg.SafeDistance {
				continue
			}

			n := delta.Normalized()
			push := math.Min(cfg.SafeDistance-dist, cfg.MaxPush)

			candidate := player.Pos.Add(n.Scale(push))
			if !s.positionBlocked(candidate, player) {
				player.Pos = candidate
				continue
			}

			// Perpendicular slide: try both lateral directions with a much
			// smaller direct nudge, and damp instead of forcing position.
			for _, side := range [2]float64{1, -1} {
				slide := n.Perpendicular().Scale(side * push)
				slid := player.Pos.Add(slide).Add(n.Scale(cfg.SeparationNudge))
				if !s.positionBlocked(slid, player) {
					player.Pos = slid
					break
				}
			}
			player.Speed *= cfg.SeparationDamp
			player.Vel = player.Vel.Scale(cfg.SeparationDamp)
		}
	}
}

// positionBlocked reports whether the body's box placed at p would intersect
// a building footprint.
func (s *Simulation) positionBlocked(p Vec2, b *Body) bool {
	buildings := s.buildings()
	if len(buildings) == 0 {
		return false
	}
	moved := *b
	moved.Pos = p
	_, hit := firstBuildingOverlap(buildings, moved.bounds(0), 0)
	return hit
}
