package sim

import "math"

// Strategy is a police agent's fixed pursuit behavior, derived once at spawn
// from its strategy roll. Agents never switch strategy mid-chase.
type Strategy uint8

const (
	StrategyHeadOn Strategy = iota
	StrategyLeftFlank
	StrategyRightFlank
)

func (s Strategy) String() string {
	switch s {
	case StrategyHeadOn:
		return "head-on"
	case StrategyLeftFlank:
		return "left-flank"
	case StrategyRightFlank:
		return "right-flank"
	}
	return "unknown"
}

type pursuitAgent struct {
	body       *Body
	roll       float64 // fixed in [0,1), assigned at spawn
	aggression float64 // scaled by the external difficulty hook
}

func (a *pursuitAgent) strategy() Strategy {
	switch {
	case a.roll < 1.0/3.0:
		return StrategyHeadOn
	case a.roll < 2.0/3.0:
		return StrategyLeftFlank
	default:
		return StrategyRightFlank
	}
}

func (s *Simulation) stepPolice(a *pursuitAgent, dt float64) {
	b := a.body
	cfg := s.cfg.Pursuit
	player := s.player.body

	toPlayer := player.Pos.Sub(b.Pos)
	dist := toPlayer.Length()
	playerVel := player.Velocity()
	playerSpeed := math.Abs(player.Speed)

	target := s.pursuitTarget(a, dist, toPlayer, playerVel, playerSpeed)

	// Peer separation: repel the target point away from nearby agents so the
	// pack fans out instead of stacking on one approach vector.
	for _, peer := range s.police {
		if peer == a {
			continue
		}
		away := b.Pos.Sub(peer.body.Pos)
		d := away.Length()
		if d >= cfg.SeparationRange {
			continue
		}
		if d < 0.5 {
			d = 0.5
		}
		target = target.Add(away.Normalized().Scale(cfg.SeparationGain / d))
	}

	s.applySpeedPolicy(a, dist, playerSpeed, dt)

	b.TargetHeading = headingOf(target.Sub(b.Pos))
	b.TargetSpeed = b.Speed // speed policy owns convergence

	prePos := b.Pos
	integrate(b, s.cfg.Kinematics, 0, cfg.MaxSpeed*a.aggression, dt)

	s.avoidBuilding(a, prePos, toPlayer)
}

// pursuitTarget computes the point this agent drives toward before peer
// separation is applied.
func (s *Simulation) pursuitTarget(a *pursuitAgent, dist float64, toPlayer, playerVel Vec2, playerSpeed float64) Vec2 {
	cfg := s.cfg.Pursuit
	player := s.player.body

	// Close-range override: forget positioning, chase a short lookahead.
	if dist < cfg.CloseRange {
		return player.Pos.Add(playerVel.Scale(cfg.CloseLookahead))
	}

	denom := playerSpeed * cfg.LookaheadGain
	lookahead := cfg.LookaheadMax
	if denom > 1e-6 {
		lookahead = clamp(dist/denom, 0, cfg.LookaheadMax)
	}
	predicted := player.Pos.Add(playerVel.Scale(lookahead))

	switch a.strategy() {
	case StrategyHeadOn:
		// Block a point ahead of the player along this agent's approach line.
		return player.Pos.Add(toPlayer.Normalized().Scale(cfg.HeadOnLead))
	case StrategyLeftFlank:
		return predicted.Add(playerVel.Normalized().Perpendicular().Scale(cfg.FlankOffset))
	default:
		return predicted.Sub(playerVel.Normalized().Perpendicular().Scale(cfg.FlankOffset))
	}
}

// applySpeedPolicy converges agent speed using the three range bands: hard
// catch-up when far, overshoot damping when very close, and an exponential
// approach to just above the player's speed in between.
func (s *Simulation) applySpeedPolicy(a *pursuitAgent, dist, playerSpeed, dt float64) {
	cfg := s.cfg.Pursuit
	b := a.body

	switch {
	case dist > cfg.MaxDistance-10:
		catchUp := cfg.CatchUpSpeed * a.aggression
		b.Speed += (catchUp - b.Speed) * math.Min(1, 3*cfg.SpeedGain*dt)
	case dist < cfg.NearRange:
		b.Speed += (cfg.BaselineSpeed - b.Speed) * math.Min(1, cfg.SpeedGain*dt)
	default:
		desired := playerSpeed + cfg.SpeedMargin*a.aggression
		b.Speed += (desired - b.Speed) * (1 - math.Exp(-cfg.SpeedGain*dt))
	}

	b.Speed = clamp(b.Speed, cfg.InitialSpeed, cfg.MaxSpeed*a.aggression)
}

// avoidBuilding reroutes an agent that drove into a footprint this tick:
// revert the move, cut speed, and steer along a blend of the best
// perpendicular and the direction away from the building.
func (s *Simulation) avoidBuilding(a *pursuitAgent, prePos, toPlayer Vec2) {
	b := a.body
	cfg := s.cfg.Pursuit
	buildings := s.buildings()
	if len(buildings) == 0 {
		return
	}

	bl, hit := firstBuildingOverlap(buildings, b.bounds(s.cfg.Collision.Padding), 0)
	if !hit {
		return
	}

	b.Pos = prePos
	b.Speed *= cfg.AvoidSpeedCut

	away, _, ok := minimumTranslation(b.bounds(s.cfg.Collision.Padding), bl.bounds(0))
	if !ok {
		away = Vec2{X: 1, Z: 0}
	}

	perp := away.Perpendicular()
	if perp.Dot(toPlayer) < 0 {
		perp = perp.Scale(-1)
	}

	escape := perp.Scale(cfg.AvoidPerpWeight).Add(away.Scale(1 - cfg.AvoidPerpWeight)).Normalized()
	// Bypass turn smoothing for this tick and force a little clearance so the
	// agent does not re-collide on the next move.
	b.Heading = headingOf(escape)
	b.TargetHeading = b.Heading
	b.Pos = b.Pos.Add(escape.Scale(cfg.AvoidClearance))
}
