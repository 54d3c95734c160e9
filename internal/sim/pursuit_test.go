package sim

import (
	"math"
	"testing"
)

func TestStrategyPartitionByRoll(t *testing.T) {
	cases := []struct {
		roll float64
		want Strategy
	}{
		{0.0, StrategyHeadOn},
		{0.33, StrategyHeadOn},
		{1.0 / 3.0, StrategyLeftFlank},
		{0.5, StrategyLeftFlank},
		{2.0 / 3.0, StrategyRightFlank},
		{0.99, StrategyRightFlank},
	}
	for _, tc := range cases {
		a := &pursuitAgent{roll: tc.roll}
		if got := a.strategy(); got != tc.want {
			t.Fatalf("roll %.4f: got %v, want %v", tc.roll, got, tc.want)
		}
	}
}

func TestCloseRangeOverrideIgnoresStrategy(t *testing.T) {
	s := newTestSim(nil, nil)
	s.player.body.Pos = Vec2{}
	s.player.body.Speed = 20
	s.player.body.Heading = 0

	playerVel := s.player.body.Velocity()
	want := s.player.body.Pos.Add(playerVel.Scale(s.cfg.Pursuit.CloseLookahead))

	for _, roll := range []float64{0.1, 0.5, 0.9} {
		a := s.addPolice(Vec2{X: 0, Z: -10}, roll)
		dist := distance(a.body.Pos, s.player.body.Pos)
		if dist >= s.cfg.Pursuit.CloseRange {
			t.Fatalf("scenario bug: agent not inside close range")
		}
		got := s.pursuitTarget(a, dist, s.player.body.Pos.Sub(a.body.Pos), playerVel, 20)
		if distance(got, want) > 1e-9 {
			t.Fatalf("roll %.1f: close-range target %+v, want %+v", roll, got, want)
		}
	}
}

func TestFlankTargetsStraddlePredictedPoint(t *testing.T) {
	s := newTestSim(nil, nil)
	s.player.body.Pos = Vec2{}
	s.player.body.Speed = 22
	s.player.body.Heading = 0 // driving +Z

	playerVel := s.player.body.Velocity()
	origin := Vec2{X: 0, Z: -30}
	toPlayer := s.player.body.Pos.Sub(origin)
	dist := toPlayer.Length()

	left := s.addPolice(origin, 0.5)  // left flank
	right := s.addPolice(origin, 0.9) // right flank

	lt := s.pursuitTarget(left, dist, toPlayer, playerVel, 22)
	rt := s.pursuitTarget(right, dist, toPlayer, playerVel, 22)

	// Player travels along +Z, so the flanks split on the X axis.
	if lt.X*rt.X >= 0 {
		t.Fatalf("flank targets on the same side: left=%+v right=%+v", lt, rt)
	}
	if math.Abs(lt.Z-rt.Z) > 1e-9 {
		t.Fatalf("flank targets should share the predicted Z: left=%+v right=%+v", lt, rt)
	}
}

func TestSpeedPolicyBands(t *testing.T) {
	s := newTestSim(nil, nil)
	cfg := s.cfg.Pursuit

	// Far band converges toward catch-up speed.
	far := s.addPolice(Vec2{X: 0, Z: -70}, 0.1)
	far.body.Speed = cfg.InitialSpeed
	for i := 0; i < 240; i++ {
		s.applySpeedPolicy(far, 70, 22, testDT)
	}
	if far.body.Speed < cfg.CatchUpSpeed-1 {
		t.Fatalf("far band never reached catch-up speed: %.2f", far.body.Speed)
	}

	// Near band decays toward baseline, never below the floor.
	near := s.addPolice(Vec2{X: 0, Z: -5}, 0.1)
	near.body.Speed = cfg.MaxSpeed
	for i := 0; i < 600; i++ {
		s.applySpeedPolicy(near, 5, 22, testDT)
	}
	if near.body.Speed > cfg.BaselineSpeed+1 {
		t.Fatalf("near band did not decay: %.2f", near.body.Speed)
	}
	if near.body.Speed < cfg.InitialSpeed {
		t.Fatalf("speed fell below the floor: %.2f", near.body.Speed)
	}

	// Mid band tracks player speed plus the margin.
	mid := s.addPolice(Vec2{X: 0, Z: -30}, 0.1)
	mid.body.Speed = cfg.InitialSpeed
	for i := 0; i < 600; i++ {
		s.applySpeedPolicy(mid, 30, 22, testDT)
	}
	want := 22 + cfg.SpeedMargin
	if math.Abs(mid.body.Speed-want) > 1 {
		t.Fatalf("mid band speed %.2f, want about %.2f", mid.body.Speed, want)
	}
}

func TestPursuitClosesOnFleeingPlayer(t *testing.T) {
	s := newTestSim(nil, nil)
	s.player.body.Heading = 0
	s.SetInput(InputSnapshot{Accelerate: true})

	a := s.addPolice(Vec2{X: 0, Z: -40}, 0.1)

	prev := distance(a.body.Pos, s.player.body.Pos)
	shrinking := 0
	for i := 0; i < 600; i++ {
		s.Tick(testDT)
		d := distance(a.body.Pos, s.player.body.Pos)
		if d < prev {
			shrinking++
		}
		prev = d
	}
	// The agent tops out above the player's forward speed, so the gap has to
	// close for most of the chase.
	if shrinking < 350 {
		t.Fatalf("gap shrank on only %d of 600 ticks, final distance %.2f", shrinking, prev)
	}
	if prev > 40 {
		t.Fatalf("agent never gained ground: final distance %.2f", prev)
	}
}

func TestAvoidBuildingReroutesAgent(t *testing.T) {
	wall := Building{Center: Vec2{X: 0, Z: -20}, Width: 8, Depth: 4, Height: 8}
	s := newTestSim(StaticGeometry{wall}, nil)
	s.player.body.Pos = Vec2{}

	// Agent approaching the player from behind the wall must route around it.
	a := s.addPolice(Vec2{X: 0, Z: -40}, 0.1)

	inside := 0
	for i := 0; i < 600; i++ {
		s.Tick(testDT)
		if wall.contains(a.body.Pos, 0) {
			inside++
		}
	}
	if inside != 0 {
		t.Fatalf("agent spent %d ticks inside the footprint", inside)
	}
	if d := distance(a.body.Pos, s.player.body.Pos); d > 30 {
		t.Fatalf("agent never got around the wall: distance %.2f", d)
	}
}

func TestDifficultyMultiplierScalesAggression(t *testing.T) {
	s := newTestSim(nil, nil)
	a := s.addPolice(Vec2{X: 0, Z: -40}, 0.1)

	s.SetDifficultyMultiplier(1.5)
	if a.aggression != 1.5 {
		t.Fatalf("existing agent aggression not updated: %.2f", a.aggression)
	}
	s.SetDifficultyMultiplier(0)
	if a.aggression != 1.0 {
		t.Fatalf("non-positive multiplier should clamp to 1.0, got %.2f", a.aggression)
	}
}
