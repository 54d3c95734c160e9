package sim

import "math"

// probeCount is the fixed radial sample count: cardinals plus diagonals.
const probeCount = 8

// containmentDetector decides whether the player is boxed in. It samples on
// a coarse cadence rather than every tick, and Free -> Trapped is one-way:
// once trapped the detector never re-evaluates.
type containmentDetector struct {
	cfg     ContainmentConfig
	timer   float64
	trapped bool
}

func newContainmentDetector(cfg ContainmentConfig) containmentDetector {
	return containmentDetector{cfg: cfg, timer: cfg.Interval}
}

func (d *containmentDetector) update(s *Simulation, dt float64) {
	if d.trapped {
		return
	}
	d.timer -= dt
	if d.timer > 0 {
		return
	}
	d.timer = d.cfg.Interval

	if d.evaluate(s) {
		d.trapped = true
		s.sink.PlayerCaughtByPolice()
	}
}

// evaluate applies the triple condition: enough police nearby, a large
// majority of probe directions blocked, and enough of those blocks caused by
// police rather than buildings. All three must hold; driving along one
// building wall with a single cruiser behind never traps.
func (d *containmentDetector) evaluate(s *Simulation) bool {
	player := s.player.body

	nearby := 0
	for _, agent := range s.police {
		if distance(agent.body.Pos, player.Pos) <= d.cfg.NearbyRadius {
			nearby++
		}
	}
	if nearby < d.cfg.MinNearbyPolice {
		return false
	}

	buildings := s.buildings()
	blocked := 0
	policeBlocked := 0
	for i := 0; i < probeCount; i++ {
		angle := float64(i) * (2 * math.Pi / probeCount)
		probe := player.Pos.Add(headingVector(angle).Scale(d.cfg.ProbeDistance))

		if d.policeBlocks(s, probe) {
			blocked++
			policeBlocked++
			continue
		}
		if pointInsideAnyBuilding(buildings, probe, d.cfg.BuildingPad) {
			blocked++
		}
	}

	return blocked >= d.cfg.MinBlocked && policeBlocked >= d.cfg.MinPoliceBlocked
}

func (d *containmentDetector) policeBlocks(s *Simulation, probe Vec2) bool {
	for _, agent := range s.police {
		if distance(agent.body.Pos, probe) <= d.cfg.PoliceBlockRadius {
			return true
		}
	}
	return false
}
