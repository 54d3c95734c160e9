package sim

import "math"

// Vec2 is a point or direction on the simulation plane. Y is visual-only and
// never enters the simulation, so the axes are named X and Z.
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Z: v.Z - o.Z}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Z: v.Z * f}
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Z)
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Z*v.Z
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Z*o.Z
}

// Normalized returns a unit vector, falling back to +X for degenerate input
// so callers never divide by zero.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length < 1e-9 {
		return Vec2{X: 1, Z: 0}
	}
	return Vec2{X: v.X / length, Z: v.Z / length}
}

// Perpendicular returns the left perpendicular of v.
func (v Vec2) Perpendicular() Vec2 {
	return Vec2{X: -v.Z, Z: v.X}
}

func distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// headingVector converts a heading angle (0 = +Z) into a unit direction.
func headingVector(heading float64) Vec2 {
	return Vec2{X: math.Sin(heading), Z: math.Cos(heading)}
}

// headingOf returns the heading angle pointing along dir (0 = +Z).
func headingOf(dir Vec2) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// angDiff returns target-current normalized into (-pi, pi], so smoothing
// always turns along the shorter arc.
func angDiff(current, target float64) float64 {
	diff := math.Mod(target-current, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	if diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
