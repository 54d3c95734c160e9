// Package world generates the static city geometry the simulation drives
// through. The core only sees the result through sim.GeometrySource; roads
// are implicit as the gaps between blocks.
package world

import (
	"hash/fnv"
	"math/rand"

	"github.com/prince118-hub/Escape-Road/internal/sim"
)

// CityConfig tunes the generated block grid.
type CityConfig struct {
	// Blocks is the grid radius: blocks run from -Blocks to Blocks-1 on each
	// axis.
	Blocks int

	// FillChance is the probability a block holds a building at all; empty
	// blocks become plazas the pursuit can cut across.
	FillChance float64

	// MinFill and MaxFill bound the building footprint as a fraction of the
	// buildable area inside a block.
	MinFill float64
	MaxFill float64

	// MinHeight and MaxHeight bound building heights. Heights are cosmetic
	// for the core but rendered by viewers.
	MinHeight float64
	MaxHeight float64
}

func (cfg CityConfig) normalized() CityConfig {
	normalized := cfg
	if normalized.Blocks <= 0 {
		normalized.Blocks = 6
	}
	if normalized.FillChance <= 0 || normalized.FillChance > 1 {
		normalized.FillChance = 0.85
	}
	if normalized.MinFill <= 0 || normalized.MinFill > 1 {
		normalized.MinFill = 0.55
	}
	if normalized.MaxFill <= normalized.MinFill || normalized.MaxFill > 1 {
		normalized.MaxFill = 0.9
	}
	if normalized.MinHeight <= 0 {
		normalized.MinHeight = 6
	}
	if normalized.MaxHeight <= normalized.MinHeight {
		normalized.MaxHeight = 24
	}
	return normalized
}

// GenerateCity builds a deterministic block grid: one building per filled
// block, centered between the surrounding lanes, never protruding into the
// road. The same seed always yields the same city.
func GenerateCity(road sim.RoadConfig, cfg CityConfig, seed string) sim.StaticGeometry {
	cfg = cfg.normalized()
	rng := rand.New(rand.NewSource(citySeed(seed)))

	// The buildable span inside one block, between the road shoulders.
	inner := road.Spacing - 2*road.HalfWidth
	if inner <= 1 {
		return nil
	}

	city := make(sim.StaticGeometry, 0, (2*cfg.Blocks)*(2*cfg.Blocks))
	for i := -cfg.Blocks; i < cfg.Blocks; i++ {
		for j := -cfg.Blocks; j < cfg.Blocks; j++ {
			if rng.Float64() > cfg.FillChance {
				continue
			}

			width := inner * (cfg.MinFill + rng.Float64()*(cfg.MaxFill-cfg.MinFill))
			depth := inner * (cfg.MinFill + rng.Float64()*(cfg.MaxFill-cfg.MinFill))
			height := cfg.MinHeight + rng.Float64()*(cfg.MaxHeight-cfg.MinHeight)

			center := sim.Vec2{
				X: (float64(i) + 0.5) * road.Spacing,
				Z: (float64(j) + 0.5) * road.Spacing,
			}
			city = append(city, sim.Building{
				Center: center,
				Width:  width,
				Depth:  depth,
				Height: height,
			})
		}
	}
	return city
}

// citySeed hashes the root seed down to a deterministic rand source, the same
// scheme the sim uses for its subsystem streams.
func citySeed(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte{0})
	h.Write([]byte("world.city"))
	return int64(h.Sum64())
}
