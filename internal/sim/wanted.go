package sim

import (
	"math"
	"math/rand"
)

// wantedController escalates police pressure over survival time. The level
// is a monotonic step function of elapsed time, capped at the maximum; each
// level shortens the spawn interval and raises the concurrent police cap.
type wantedController struct {
	cfg        WantedConfig
	survival   float64
	spawnTimer float64
	rng        *rand.Rand
}

func newWantedController(cfg WantedConfig, rng *rand.Rand) wantedController {
	return wantedController{cfg: cfg, spawnTimer: cfg.SpawnBase, rng: rng}
}

func (w *wantedController) level() int {
	level := 0
	for _, threshold := range w.cfg.Thresholds {
		if w.survival >= threshold {
			level++
		}
	}
	if level > w.cfg.MaxLevel {
		level = w.cfg.MaxLevel
	}
	return level
}

func (w *wantedController) spawnInterval() float64 {
	interval := w.cfg.SpawnBase - w.cfg.SpawnStep*float64(w.level()-1)
	return math.Max(interval, w.cfg.SpawnFloor)
}

func (w *wantedController) maxPolice() int {
	target := w.cfg.PoliceBase + w.cfg.PolicePerStep*(w.level()-1)
	if target > w.cfg.PoliceCap {
		target = w.cfg.PoliceCap
	}
	return target
}

func (s *Simulation) updateWanted(dt float64) {
	w := &s.wanted
	w.survival += dt

	w.spawnTimer -= dt
	if w.spawnTimer > 0 {
		return
	}
	w.spawnTimer = w.spawnInterval()

	if len(s.police)+len(s.pendingPolice) < w.maxPolice() {
		s.spawnPolice()
	}
}

// spawnPolice places a new agent on the road grid near the player: pick a
// point at spawn distance, snap it to the nearest lane on one axis, and
// validate against building footprints. One retry with the alternate road
// axis; the second candidate is accepted even if it still overlaps, trading
// a rare clip for guaranteed availability.
func (s *Simulation) spawnPolice() {
	cfg := s.cfg.Pursuit
	w := &s.wanted
	player := s.player.body

	angle := w.rng.Float64() * 2 * math.Pi
	base := player.Pos.Add(headingVector(angle).Scale(s.cfg.Wanted.SpawnDistance))

	pos := Vec2{X: s.cfg.Road.snapToLane(base.X), Z: base.Z}
	probe := Body{Pos: pos, HalfWidth: cfg.HalfWidth, HalfLength: cfg.HalfLength}
	if _, hit := firstBuildingOverlap(s.buildings(), probe.bounds(0), 0); hit {
		pos = Vec2{X: base.X, Z: s.cfg.Road.snapToLane(base.Z)}
	}

	body := &Body{
		Category:   CategoryPolice,
		Pos:        pos,
		Heading:    headingOf(player.Pos.Sub(pos)),
		Speed:      cfg.InitialSpeed,
		HalfWidth:  cfg.HalfWidth,
		HalfLength: cfg.HalfLength,
		Mass:       cfg.Mass,
	}
	body.TargetHeading = body.Heading
	body.TargetSpeed = body.Speed

	s.arena.Insert(body)
	s.pendingPolice = append(s.pendingPolice, &pursuitAgent{
		body:       body,
		roll:       w.rng.Float64(),
		aggression: s.difficulty,
	})
}
