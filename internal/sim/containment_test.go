package sim

import (
	"math"
	"testing"
)

// probePoint returns the i-th radial probe position around the player.
func probePoint(s *Simulation, i int) Vec2 {
	angle := float64(i) * (2 * math.Pi / probeCount)
	return s.player.body.Pos.Add(headingVector(angle).Scale(s.cfg.Containment.ProbeDistance))
}

// boxAroundProbe places a small footprint centered on a probe point so that
// exactly that direction reads blocked.
func boxAroundProbe(p Vec2) Building {
	return Building{Center: p, Width: 0.5, Depth: 0.5, Height: 6}
}

func TestSingleCruiserAgainstWallNeverTraps(t *testing.T) {
	// Seven of eight directions walled off, one cruiser right behind: the
	// nearby-police and police-blocked conditions both fail, so this must
	// stay free no matter how closed-in the geometry is.
	var geo StaticGeometry
	s := newTestSim(nil, nil)
	for i := 1; i < probeCount; i++ {
		geo = append(geo, boxAroundProbe(probePoint(s, i)))
	}

	sink := &recordingSink{}
	s = newTestSim(geo, sink)
	s.addPolice(probePoint(s, 0), 0.1)

	d := newContainmentDetector(s.cfg.Containment)
	if d.evaluate(s) {
		t.Fatalf("one cruiser plus walls must not trap")
	}
	if sink.caught != 0 {
		t.Fatalf("caught event fired without a trap")
	}
}

func TestThreeCruisersPlusWallsTrap(t *testing.T) {
	// Four directions blocked by police, two more by buildings, three
	// cruisers inside the nearby radius: all three conditions hold.
	s := newTestSim(nil, nil)
	geo := StaticGeometry{
		boxAroundProbe(probePoint(s, 4)),
		boxAroundProbe(probePoint(s, 5)),
	}

	sink := &recordingSink{}
	s = newTestSim(geo, sink)

	// One cruiser sits between two adjacent probes and blocks both.
	s.addPolice(probePoint(s, 0), 0.1)
	s.addPolice(probePoint(s, 1), 0.1)
	s.addPolice(probePoint(s, 2).Add(probePoint(s, 3)).Scale(0.5), 0.1)

	d := newContainmentDetector(s.cfg.Containment)
	if !d.evaluate(s) {
		t.Fatalf("strict rule set should trap: 6 blocked, 4 by police, 3 nearby")
	}
}

func TestContainmentCadenceAndOneWayLatch(t *testing.T) {
	s := newTestSim(nil, nil)
	geo := StaticGeometry{
		boxAroundProbe(probePoint(s, 4)),
		boxAroundProbe(probePoint(s, 5)),
	}
	sink := &recordingSink{}
	s = newTestSim(geo, sink)
	s.addPolice(probePoint(s, 0), 0.1)
	s.addPolice(probePoint(s, 1), 0.1)
	s.addPolice(probePoint(s, 2).Add(probePoint(s, 3)).Scale(0.5), 0.1)

	d := newContainmentDetector(s.cfg.Containment)

	// The detector must not evaluate before its interval elapses.
	d.update(s, s.cfg.Containment.Interval/2)
	if d.trapped {
		t.Fatalf("evaluated before the cadence interval")
	}
	d.update(s, s.cfg.Containment.Interval)
	if !d.trapped {
		t.Fatalf("expected trap once the interval elapsed")
	}
	if sink.caught != 1 {
		t.Fatalf("caught event count %d, want 1", sink.caught)
	}

	// Latched: clearing the scene does not release, and no second event.
	s.police = nil
	for i := 0; i < 10; i++ {
		d.update(s, s.cfg.Containment.Interval)
	}
	if !d.trapped {
		t.Fatalf("trapped state must be one-way")
	}
	if sink.caught != 1 {
		t.Fatalf("caught event fired again: %d", sink.caught)
	}
}

func TestBlockedMajorityWithoutPoliceShareStaysFree(t *testing.T) {
	// Six directions blocked but only three by police: the police-blocked
	// minimum fails even though the majority and nearby conditions hold.
	s := newTestSim(nil, nil)
	geo := StaticGeometry{
		boxAroundProbe(probePoint(s, 4)),
		boxAroundProbe(probePoint(s, 5)),
		boxAroundProbe(probePoint(s, 6)),
	}
	s = newTestSim(geo, nil)
	s.addPolice(probePoint(s, 0), 0.1)
	s.addPolice(probePoint(s, 1), 0.1)
	s.addPolice(probePoint(s, 2), 0.1)

	d := newContainmentDetector(s.cfg.Containment)
	if d.evaluate(s) {
		t.Fatalf("three police blocks is below the strict minimum of four")
	}
}

func TestTrappedStateVisibleThroughSimulation(t *testing.T) {
	s := newTestSim(nil, nil)
	geo := StaticGeometry{
		boxAroundProbe(probePoint(s, 4)),
		boxAroundProbe(probePoint(s, 5)),
	}
	sink := &recordingSink{}
	s = newTestSim(geo, sink)
	s.addPolice(probePoint(s, 0), 0.1)
	s.addPolice(probePoint(s, 1), 0.1)
	s.addPolice(probePoint(s, 2).Add(probePoint(s, 3)).Scale(0.5), 0.1)

	if s.IsPlayerTrapped() {
		t.Fatalf("trapped before any evaluation")
	}
	// Drive the detector through the simulation's own instance so the
	// accessor reflects it; the agents hold still because only the detector
	// advances.
	s.containment.update(s, s.cfg.Containment.Interval)
	if !s.IsPlayerTrapped() {
		t.Fatalf("expected trapped after the evaluation interval")
	}
	if sink.caught != 1 {
		t.Fatalf("caught event count %d, want 1", sink.caught)
	}
}
