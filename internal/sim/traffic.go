package sim

import (
	"math"
	"math/rand"
)

// trafficCar pairs a traffic body with its routing state. lastJunction
// remembers the most recent intersection decision so a car never re-rolls a
// turn while crossing the same junction.
type trafficCar struct {
	body         *Body
	alongZ       bool // true when driving a lane that runs along Z
	lastJunction int64
}

type trafficController struct {
	cfg        TrafficConfig
	road       RoadConfig
	rng        *rand.Rand
	spawnTimer float64
}

func newTrafficController(cfg TrafficConfig, road RoadConfig, rng *rand.Rand) trafficController {
	return trafficController{cfg: cfg, road: road, rng: rng}
}

func junctionKey(road RoadConfig, pos Vec2) int64 {
	ix := int64(math.Round(pos.X / road.Spacing))
	iz := int64(math.Round(pos.Z / road.Spacing))
	return ix<<32 ^ (iz & 0xffffffff)
}

func (s *Simulation) updateTraffic(dt float64) {
	tc := &s.trafficCtl
	player := s.player.body

	// Despawn cars that drifted out of interest range.
	kept := s.traffic[:0]
	for _, car := range s.traffic {
		if distance(car.body.Pos, player.Pos) > tc.cfg.DespawnRadius {
			s.arena.Remove(car.body.ID)
			continue
		}
		kept = append(kept, car)
	}
	s.traffic = kept

	tc.spawnTimer -= dt
	if tc.spawnTimer <= 0 {
		tc.spawnTimer = tc.cfg.SpawnInterval
		if len(s.traffic)+len(s.pendingTraffic) < tc.cfg.MaxCars {
			s.spawnTrafficCar()
		}
	}

	for _, car := range s.traffic {
		s.driveTrafficCar(car, dt)
	}
}

// spawnTrafficCar drops a car onto a lane near the player, pointing along
// the lane. Candidates inside buildings are discarded; the spawn simply
// retries on a later timer expiry.
func (s *Simulation) spawnTrafficCar() {
	tc := &s.trafficCtl
	cfg := s.cfg.Collision
	player := s.player.body

	alongZ := tc.rng.Intn(2) == 0
	lateral := randomRange(tc.rng, -tc.cfg.SpawnRadius, tc.cfg.SpawnRadius)
	along := randomRange(tc.rng, -tc.cfg.SpawnRadius, tc.cfg.SpawnRadius)

	var pos Vec2
	if alongZ {
		pos = Vec2{X: tc.road.snapToLane(player.Pos.X + lateral), Z: player.Pos.Z + along}
	} else {
		pos = Vec2{X: player.Pos.X + along, Z: tc.road.snapToLane(player.Pos.Z + lateral)}
	}

	probe := Body{Pos: pos, HalfWidth: cfg.TrafficHalfW, HalfLength: cfg.TrafficHalfL}
	if _, hit := firstBuildingOverlap(s.buildings(), probe.bounds(0), 0); hit {
		return
	}
	if distance(pos, player.Pos) < 6 {
		return
	}

	heading := laneHeading(alongZ, tc.rng.Intn(2) == 0)
	body := &Body{
		Category:   CategoryTraffic,
		Pos:        pos,
		Heading:    heading,
		Speed:      tc.cfg.Speed,
		HalfWidth:  cfg.TrafficHalfW,
		HalfLength: cfg.TrafficHalfL,
		Mass:       cfg.TrafficMass,
	}
	body.TargetHeading = heading
	body.TargetSpeed = tc.cfg.Speed

	s.arena.Insert(body)
	s.pendingTraffic = append(s.pendingTraffic, &trafficCar{
		body:         body,
		alongZ:       alongZ,
		lastJunction: junctionKey(tc.road, pos),
	})
}

// driveTrafficCar follows the lane grid: gentle centering on the lane line,
// an occasional turn at intersections, and the shared kinematic integration.
func (s *Simulation) driveTrafficCar(car *trafficCar, dt float64) {
	tc := &s.trafficCtl
	b := car.body

	if b.Mode == ModeKinematic {
		// Shoved by a collision; let the authored velocity damp out before
		// resuming lane discipline.
		integrate(b, s.cfg.Kinematics, -tc.cfg.Speed, tc.cfg.Speed*1.5, dt)
		return
	}

	crossX := tc.road.snapToLane(b.Pos.X)
	crossZ := tc.road.snapToLane(b.Pos.Z)
	atJunction := math.Abs(b.Pos.X-crossX) < 1.0 && math.Abs(b.Pos.Z-crossZ) < 1.0

	if atJunction {
		key := junctionKey(tc.road, b.Pos)
		if key != car.lastJunction {
			car.lastJunction = key
			if tc.rng.Float64() < tc.cfg.TurnChance {
				car.alongZ = !car.alongZ
				b.TargetHeading = laneHeading(car.alongZ, tc.rng.Intn(2) == 0)
			}
		}
	} else if car.alongZ {
		b.Pos.X += (crossX - b.Pos.X) * 5.0 * dt
	} else {
		b.Pos.Z += (crossZ - b.Pos.Z) * 5.0 * dt
	}

	b.TargetSpeed = tc.cfg.Speed
	integrate(b, s.cfg.Kinematics, 0, tc.cfg.Speed*1.5, dt)
}
