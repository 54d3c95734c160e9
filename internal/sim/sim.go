// Package sim implements the pursuit simulation core of Escape Road: the
// shared kinematic vehicle model, per-agent pursuit AI, the multi-body
// collision and separation engine, the containment detector, and the wanted
// escalation controller. The package is frame-synchronous and single
// threaded; callers drive it with Tick and read state back through
// snapshots.
package sim

import "math"

// sirenInterval is the cadence for nearest-police proximity events.
const sirenInterval = 1.0

// Simulation owns every live body and advances the whole core one tick at a
// time. It is not safe for concurrent use; the owning loop serializes access.
type Simulation struct {
	cfg      Config
	arena    *bodyArena
	geometry GeometrySource
	sink     EventSink

	player         playerState
	police         []*pursuitAgent
	pendingPolice  []*pursuitAgent
	traffic        []*trafficCar
	pendingTraffic []*trafficCar

	wanted      wantedController
	trafficCtl  trafficController
	containment containmentDetector

	input      InputSnapshot
	difficulty float64
	elapsed    float64
	tick       uint64
	sirenTimer float64
}

// New builds a simulation from cfg. geometry may be nil (no buildings exist)
// and sink may be nil (events are discarded).
func New(cfg Config, geometry GeometrySource, sink EventSink) *Simulation {
	cfg = cfg.normalized()
	if sink == nil {
		sink = NopSink{}
	}

	s := &Simulation{
		cfg:        cfg,
		arena:      newBodyArena(),
		geometry:   geometry,
		sink:       sink,
		difficulty: 1.0,
		sirenTimer: sirenInterval,
	}

	playerBody := &Body{
		Category:   CategoryPlayer,
		HalfWidth:  cfg.Player.HalfWidth,
		HalfLength: cfg.Player.HalfLength,
		Mass:       cfg.Player.Mass,
	}
	s.arena.Insert(playerBody)
	s.arena.commit()
	s.player = playerState{body: playerBody, boost: cfg.Player.BoostCapacity}

	s.wanted = newWantedController(cfg.Wanted, newDeterministicRNG(cfg.Seed, "wanted"))
	s.trafficCtl = newTrafficController(cfg.Traffic, cfg.Road, newDeterministicRNG(cfg.Seed, "traffic"))
	s.containment = newContainmentDetector(cfg.Containment)

	return s
}

// SetInput stores the player input snapshot consumed by the next tick.
func (s *Simulation) SetInput(in InputSnapshot) {
	s.input = in
}

// SetDifficultyMultiplier scales police aggression, including agents already
// in the chase. The external session controller calls this as its own
// difficulty curve advances.
func (s *Simulation) SetDifficultyMultiplier(x float64) {
	if x <= 0 {
		x = 1.0
	}
	s.difficulty = x
	for _, agent := range s.police {
		agent.aggression = x
	}
}

// Tick advances the entire core by dt seconds: spawn/despawn commits, player
// integration, pursuit AI, traffic, pairwise resolution, then containment on
// post-resolution positions. Everything completes synchronously before
// return.
func (s *Simulation) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	s.tick++
	s.elapsed += dt

	// Arena mutations queued during the previous tick land here, never
	// mid-pass.
	s.arena.commit()
	s.police = append(s.police, s.pendingPolice...)
	s.pendingPolice = s.pendingPolice[:0]
	s.traffic = append(s.traffic, s.pendingTraffic...)
	s.pendingTraffic = s.pendingTraffic[:0]

	s.updateWanted(dt)

	s.stepPlayer(dt)
	for _, agent := range s.police {
		s.stepPolice(agent, dt)
	}
	s.updateTraffic(dt)

	s.resolveBodyPairs()
	s.resolveBuildingCollisions()
	s.separatePlayerFromPolice()

	s.containment.update(s, dt)
	s.updateSiren(dt)
}

func (s *Simulation) updateSiren(dt float64) {
	if len(s.police) == 0 {
		return
	}
	s.sirenTimer -= dt
	if s.sirenTimer > 0 {
		return
	}
	s.sirenTimer = sirenInterval

	nearest := math.MaxFloat64
	for _, agent := range s.police {
		if d := distance(agent.body.Pos, s.player.body.Pos); d < nearest {
			nearest = d
		}
	}
	s.sink.SirenProximity(nearest)
}

// BodyState is the render-facing view of one body.
type BodyState struct {
	ID       BodyID  `json:"id"`
	Category string  `json:"category"`
	Position Vec2    `json:"position"`
	Heading  float64 `json:"heading"`
	Speed    float64 `json:"speed"`
}

func snapshotBody(b *Body) BodyState {
	return BodyState{
		ID:       b.ID,
		Category: b.Category.String(),
		Position: b.Pos,
		Heading:  b.Heading,
		Speed:    b.Speed,
	}
}

// BodyState returns the render view of one body by ID.
func (s *Simulation) BodyState(id BodyID) (BodyState, bool) {
	b := s.arena.get(id)
	if b == nil {
		return BodyState{}, false
	}
	return snapshotBody(b), true
}

// BodyStates returns the render view of every active body. The player is
// always first.
func (s *Simulation) BodyStates() []BodyState {
	states := make([]BodyState, 0, len(s.arena.active))
	for _, b := range s.arena.active {
		states = append(states, snapshotBody(b))
	}
	return states
}

// TickCount returns the number of ticks run so far.
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// PlayerID returns the stable ID of the player body.
func (s *Simulation) PlayerID() BodyID {
	return s.player.body.ID
}

// IsPlayerTrapped reports the terminal containment condition.
func (s *Simulation) IsPlayerTrapped() bool {
	return s.containment.trapped
}

// IsPlayerCrashed reports whether the crash recovery script is running.
func (s *Simulation) IsPlayerCrashed() bool {
	return s.player.phase != PhaseNormal
}

// WantedLevel returns the current escalation tier.
func (s *Simulation) WantedLevel() int {
	return s.wanted.level()
}

// PoliceCount returns the number of active pursuit agents.
func (s *Simulation) PoliceCount() int {
	return len(s.police)
}

// Elapsed returns total simulated seconds.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}
