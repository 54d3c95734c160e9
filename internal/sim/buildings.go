package sim

import "math"

// Building is a read-only axis-aligned footprint owned by the world
// generation collaborator.
type Building struct {
	Center Vec2    `json:"center"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

func (bl Building) bounds(pad float64) aabb {
	return aabb{
		minX: bl.Center.X - bl.Width/2 - pad,
		maxX: bl.Center.X + bl.Width/2 + pad,
		minZ: bl.Center.Z - bl.Depth/2 - pad,
		maxZ: bl.Center.Z + bl.Depth/2 + pad,
	}
}

func (bl Building) contains(p Vec2, pad float64) bool {
	b := bl.bounds(pad)
	return p.X >= b.minX && p.X <= b.maxX && p.Z >= b.minZ && p.Z <= b.maxZ
}

// GeometrySource exposes world geometry to the core. A nil source means no
// buildings exist and every building-aware check is skipped.
type GeometrySource interface {
	BuildingFootprints() []Building
}

// StaticGeometry is a fixed footprint list, convenient for tests and for
// worlds generated up front.
type StaticGeometry []Building

func (g StaticGeometry) BuildingFootprints() []Building {
	return g
}

// buildings returns the current footprints, or nil when no source is wired.
func (s *Simulation) buildings() []Building {
	if s.geometry == nil {
		return nil
	}
	return s.geometry.BuildingFootprints()
}

// firstBuildingOverlap returns the first footprint whose padded bounds
// intersect box.
func firstBuildingOverlap(buildings []Building, box aabb, pad float64) (Building, bool) {
	for _, bl := range buildings {
		if box.overlaps(bl.bounds(pad)) {
			return bl, true
		}
	}
	return Building{}, false
}

func pointInsideAnyBuilding(buildings []Building, p Vec2, pad float64) bool {
	for _, bl := range buildings {
		if bl.contains(p, pad) {
			return true
		}
	}
	return false
}

// snapToLane snaps a coordinate to the nearest road lane center line.
func (cfg RoadConfig) snapToLane(v float64) float64 {
	return math.Round(v/cfg.Spacing) * cfg.Spacing
}

// laneHeading returns the heading along a lane axis: 0/pi for lanes running
// along Z, ±pi/2 for lanes running along X.
func laneHeading(alongZ bool, positive bool) float64 {
	if alongZ {
		if positive {
			return 0
		}
		return math.Pi
	}
	if positive {
		return math.Pi / 2
	}
	return -math.Pi / 2
}
