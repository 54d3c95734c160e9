package sim

import "strings"

const DefaultSeed = "pursuit"

// Config aggregates the tuning surface of every simulation component. Each
// component receives its own struct at construction so the algorithms remain
// testable in isolation.
type Config struct {
	Seed        string            `json:"seed"`
	Kinematics  KinematicsConfig  `json:"kinematics"`
	Player      PlayerConfig      `json:"player"`
	Pursuit     PursuitConfig     `json:"pursuit"`
	Collision   CollisionConfig   `json:"collision"`
	Containment ContainmentConfig `json:"containment"`
	Wanted      WantedConfig      `json:"wanted"`
	Traffic     TrafficConfig     `json:"traffic"`
	Road        RoadConfig        `json:"road"`
}

// KinematicsConfig tunes the shared motion integrator.
type KinematicsConfig struct {
	Acceleration float64 `json:"acceleration"` // units/s^2 toward target speed
	RotationGain float64 `json:"rotationGain"` // fraction of heading delta applied per reference tick
	Damping      float64 `json:"damping"`      // velocity retention per tick at the 60 Hz reference rate
	SnapEpsilon  float64 `json:"snapEpsilon"`  // velocity components below this snap to zero
}

// PlayerConfig tunes the player body and its crash recovery machine.
type PlayerConfig struct {
	ForwardSpeed    float64 `json:"forwardSpeed"`
	BoostSpeed      float64 `json:"boostSpeed"`
	ReverseSpeed    float64 `json:"reverseSpeed"` // negative
	SteerRate       float64 `json:"steerRate"`    // rad/s at full lock
	BoostCapacity   float64 `json:"boostCapacity"`
	BoostRefillRate float64 `json:"boostRefillRate"`
	StunDuration    float64 `json:"stunDuration"`
	ReverseDuration float64 `json:"reverseDuration"`
	ReverseTopSpeed float64 `json:"reverseTopSpeed"`
	CrashCooldown   float64 `json:"crashCooldown"`
	SkidMinSpeed    float64 `json:"skidMinSpeed"`
	HalfWidth       float64 `json:"halfWidth"`
	HalfLength      float64 `json:"halfLength"`
	Mass            float64 `json:"mass"`
}

// PursuitConfig tunes per-agent pursuit behavior.
type PursuitConfig struct {
	LookaheadGain   float64 `json:"lookaheadGain"`   // divisor factor k in dist/(playerSpeed*k)
	LookaheadMax    float64 `json:"lookaheadMax"`    // seconds
	CloseRange      float64 `json:"closeRange"`      // inside this, direct aggressive pursuit
	CloseLookahead  float64 `json:"closeLookahead"`  // seconds
	HeadOnLead      float64 `json:"headOnLead"`      // units ahead of the player for blockers
	FlankOffset     float64 `json:"flankOffset"`     // lateral intercept offset
	SeparationRange float64 `json:"separationRange"` // peer repulsion radius
	SeparationGain  float64 `json:"separationGain"`
	MaxDistance     float64 `json:"maxDistance"` // far-band edge is MaxDistance-10
	CatchUpSpeed    float64 `json:"catchUpSpeed"`
	NearRange       float64 `json:"nearRange"`
	BaselineSpeed   float64 `json:"baselineSpeed"`
	SpeedMargin     float64 `json:"speedMargin"` // over player speed in the mid band
	SpeedGain       float64 `json:"speedGain"`   // exponential approach rate, 1/s
	InitialSpeed    float64 `json:"initialSpeed"`
	MaxSpeed        float64 `json:"maxSpeed"`
	AvoidSpeedCut   float64 `json:"avoidSpeedCut"`   // speed multiplier on building contact
	AvoidPerpWeight float64 `json:"avoidPerpWeight"` // perpendicular share of the escape blend
	AvoidClearance  float64 `json:"avoidClearance"`  // forced nudge along the new heading
	HalfWidth       float64 `json:"halfWidth"`
	HalfLength      float64 `json:"halfLength"`
	Mass            float64 `json:"mass"`
}

// CollisionConfig tunes the pairwise separation engine.
type CollisionConfig struct {
	Padding         float64 `json:"padding"` // AABB safety margin for player/police
	Passes          int     `json:"passes"`
	SeparationPass  int     `json:"separationPasses"` // player-police proactive passes
	SafeDistance    float64 `json:"safeDistance"`     // player-police minimum center distance
	MaxPush         float64 `json:"maxPush"`          // displacement cap per body per pass
	SpeedTransfer   float64 `json:"speedTransfer"`    // impact fraction fed into a speed-driven body
	SeparationDamp  float64 `json:"separationDamp"`   // player speed retention when slid instead of pushed
	SeparationNudge float64 `json:"separationNudge"`  // residual direct push when sliding
	TrafficMass     float64 `json:"trafficMass"`
	TrafficHalfW    float64 `json:"trafficHalfWidth"`
	TrafficHalfL    float64 `json:"trafficHalfLength"`
}

// ContainmentConfig tunes the trapped detector. The rule set is the strict
// variant: 6 of 8 probes blocked, at least 4 of them police-caused, and at
// least 3 police nearby.
type ContainmentConfig struct {
	Interval          float64 `json:"interval"` // seconds between evaluations
	ProbeDistance     float64 `json:"probeDistance"`
	BuildingPad       float64 `json:"buildingPad"`
	PoliceBlockRadius float64 `json:"policeBlockRadius"`
	NearbyRadius      float64 `json:"nearbyRadius"`
	MinNearbyPolice   int     `json:"minNearbyPolice"`
	MinBlocked        int     `json:"minBlocked"`
	MinPoliceBlocked  int     `json:"minPoliceBlocked"`
}

// WantedConfig maps survival time to escalation pressure.
type WantedConfig struct {
	Thresholds    []float64 `json:"thresholds"` // survival seconds required per level, ascending
	MaxLevel      int       `json:"maxLevel"`
	SpawnBase     float64   `json:"spawnIntervalBase"` // seconds at level 1
	SpawnStep     float64   `json:"spawnIntervalStep"` // reduction per level
	SpawnFloor    float64   `json:"spawnIntervalFloor"`
	PoliceBase    int       `json:"maxPoliceBase"`
	PolicePerStep int       `json:"maxPolicePerLevel"`
	PoliceCap     int       `json:"maxPoliceCap"`
	SpawnDistance float64   `json:"spawnDistance"`
}

// TrafficConfig tunes ambient lane-following cars.
type TrafficConfig struct {
	MaxCars       int     `json:"maxCars"`
	SpawnInterval float64 `json:"spawnInterval"`
	SpawnRadius   float64 `json:"spawnRadius"`
	DespawnRadius float64 `json:"despawnRadius"`
	Speed         float64 `json:"speed"`
	TurnChance    float64 `json:"turnChance"` // probability of turning at an intersection
}

// RoadConfig describes the lane grid used for spawn snapping and traffic.
type RoadConfig struct {
	Spacing   float64 `json:"spacing"` // distance between lane center lines
	HalfWidth float64 `json:"halfWidth"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	normalized.Kinematics = normalized.Kinematics.normalized()
	normalized.Player = normalized.Player.normalized()
	normalized.Pursuit = normalized.Pursuit.normalized()
	normalized.Collision = normalized.Collision.normalized()
	normalized.Containment = normalized.Containment.normalized()
	normalized.Wanted = normalized.Wanted.normalized()
	normalized.Traffic = normalized.Traffic.normalized()
	normalized.Road = normalized.Road.normalized()
	return normalized
}

// Normalized returns the config with defaults applied to every component.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

func (cfg KinematicsConfig) normalized() KinematicsConfig {
	normalized := cfg
	if normalized.Acceleration <= 0 {
		normalized.Acceleration = 14.0
	}
	if normalized.RotationGain <= 0 {
		normalized.RotationGain = 0.12
	}
	if normalized.Damping <= 0 || normalized.Damping > 1 {
		normalized.Damping = 0.92
	}
	if normalized.SnapEpsilon <= 0 {
		normalized.SnapEpsilon = 0.01
	}
	return normalized
}

func (cfg PlayerConfig) normalized() PlayerConfig {
	normalized := cfg
	if normalized.ForwardSpeed <= 0 {
		normalized.ForwardSpeed = 22.0
	}
	if normalized.BoostSpeed <= 0 {
		normalized.BoostSpeed = 30.0
	}
	if normalized.ReverseSpeed >= 0 {
		normalized.ReverseSpeed = -8.0
	}
	if normalized.SteerRate <= 0 {
		normalized.SteerRate = 2.6
	}
	if normalized.BoostCapacity <= 0 {
		normalized.BoostCapacity = 3.0
	}
	if normalized.BoostRefillRate <= 0 {
		normalized.BoostRefillRate = 0.8
	}
	if normalized.StunDuration <= 0 {
		normalized.StunDuration = 0.45
	}
	if normalized.ReverseDuration <= 0 {
		normalized.ReverseDuration = 1.1
	}
	if normalized.ReverseTopSpeed <= 0 {
		normalized.ReverseTopSpeed = 9.0
	}
	if normalized.CrashCooldown <= 0 {
		normalized.CrashCooldown = 1.0
	}
	if normalized.SkidMinSpeed <= 0 {
		normalized.SkidMinSpeed = 14.0
	}
	if normalized.HalfWidth <= 0 {
		normalized.HalfWidth = 1.0
	}
	if normalized.HalfLength <= 0 {
		normalized.HalfLength = 2.0
	}
	if normalized.Mass <= 0 {
		normalized.Mass = 1.2
	}
	return normalized
}

func (cfg PursuitConfig) normalized() PursuitConfig {
	normalized := cfg
	if normalized.LookaheadGain <= 0 {
		normalized.LookaheadGain = 1.5
	}
	if normalized.LookaheadMax <= 0 {
		normalized.LookaheadMax = 2.0
	}
	if normalized.CloseRange <= 0 {
		normalized.CloseRange = 15.0
	}
	if normalized.CloseLookahead <= 0 {
		normalized.CloseLookahead = 0.15
	}
	if normalized.HeadOnLead <= 0 {
		normalized.HeadOnLead = 6.0
	}
	if normalized.FlankOffset <= 0 {
		normalized.FlankOffset = 5.0
	}
	if normalized.SeparationRange <= 0 {
		normalized.SeparationRange = 8.0
	}
	if normalized.SeparationGain <= 0 {
		normalized.SeparationGain = 3.0
	}
	if normalized.MaxDistance <= 0 {
		normalized.MaxDistance = 60.0
	}
	if normalized.CatchUpSpeed <= 0 {
		normalized.CatchUpSpeed = 34.0
	}
	if normalized.NearRange <= 0 {
		normalized.NearRange = 8.0
	}
	if normalized.BaselineSpeed <= 0 {
		normalized.BaselineSpeed = 16.0
	}
	if normalized.SpeedMargin <= 0 {
		normalized.SpeedMargin = 4.0
	}
	if normalized.SpeedGain <= 0 {
		normalized.SpeedGain = 2.0
	}
	if normalized.InitialSpeed <= 0 {
		normalized.InitialSpeed = 18.0
	}
	if normalized.MaxSpeed <= 0 {
		normalized.MaxSpeed = 36.0
	}
	if normalized.AvoidSpeedCut <= 0 || normalized.AvoidSpeedCut >= 1 {
		normalized.AvoidSpeedCut = 0.6
	}
	if normalized.AvoidPerpWeight <= 0 || normalized.AvoidPerpWeight >= 1 {
		normalized.AvoidPerpWeight = 0.6
	}
	if normalized.AvoidClearance <= 0 {
		normalized.AvoidClearance = 0.35
	}
	if normalized.HalfWidth <= 0 {
		normalized.HalfWidth = 1.0
	}
	if normalized.HalfLength <= 0 {
		normalized.HalfLength = 2.0
	}
	if normalized.Mass <= 0 {
		normalized.Mass = 1.7
	}
	return normalized
}

func (cfg CollisionConfig) normalized() CollisionConfig {
	normalized := cfg
	if normalized.Padding <= 0 {
		normalized.Padding = 0.25
	}
	if normalized.Passes <= 0 {
		normalized.Passes = 3
	}
	if normalized.SeparationPass <= 0 {
		normalized.SeparationPass = 2
	}
	if normalized.SafeDistance <= 0 {
		normalized.SafeDistance = 3.4
	}
	if normalized.MaxPush <= 0 {
		normalized.MaxPush = 1.2
	}
	if normalized.SpeedTransfer <= 0 || normalized.SpeedTransfer > 1 {
		normalized.SpeedTransfer = 0.5
	}
	if normalized.SeparationDamp <= 0 || normalized.SeparationDamp >= 1 {
		normalized.SeparationDamp = 0.8
	}
	if normalized.SeparationNudge <= 0 {
		normalized.SeparationNudge = 0.2
	}
	if normalized.TrafficMass <= 0 {
		normalized.TrafficMass = 1.0
	}
	if normalized.TrafficHalfW <= 0 {
		normalized.TrafficHalfW = 1.0
	}
	if normalized.TrafficHalfL <= 0 {
		normalized.TrafficHalfL = 2.0
	}
	return normalized
}

func (cfg ContainmentConfig) normalized() ContainmentConfig {
	normalized := cfg
	if normalized.Interval <= 0 {
		normalized.Interval = 0.5
	}
	if normalized.ProbeDistance <= 0 {
		normalized.ProbeDistance = 6.0
	}
	if normalized.BuildingPad <= 0 {
		normalized.BuildingPad = 0.5
	}
	if normalized.PoliceBlockRadius <= 0 {
		normalized.PoliceBlockRadius = 4.0
	}
	if normalized.NearbyRadius <= 0 {
		normalized.NearbyRadius = 12.0
	}
	if normalized.MinNearbyPolice <= 0 {
		normalized.MinNearbyPolice = 3
	}
	if normalized.MinBlocked <= 0 {
		normalized.MinBlocked = 6
	}
	if normalized.MinPoliceBlocked <= 0 {
		normalized.MinPoliceBlocked = 4
	}
	return normalized
}

func (cfg WantedConfig) normalized() WantedConfig {
	normalized := cfg
	if len(normalized.Thresholds) == 0 {
		normalized.Thresholds = []float64{0, 15, 35, 60, 90, 130}
	}
	if normalized.MaxLevel <= 0 {
		normalized.MaxLevel = len(normalized.Thresholds)
	}
	if normalized.SpawnBase <= 0 {
		normalized.SpawnBase = 8.0
	}
	if normalized.SpawnStep <= 0 {
		normalized.SpawnStep = 1.2
	}
	if normalized.SpawnFloor <= 0 {
		normalized.SpawnFloor = 2.5
	}
	if normalized.PoliceBase <= 0 {
		normalized.PoliceBase = 2
	}
	if normalized.PolicePerStep <= 0 {
		normalized.PolicePerStep = 2
	}
	if normalized.PoliceCap <= 0 {
		normalized.PoliceCap = 12
	}
	if normalized.SpawnDistance <= 0 {
		normalized.SpawnDistance = 40.0
	}
	return normalized
}

func (cfg TrafficConfig) normalized() TrafficConfig {
	normalized := cfg
	if normalized.MaxCars < 0 {
		normalized.MaxCars = 0
	}
	if normalized.SpawnInterval <= 0 {
		normalized.SpawnInterval = 1.5
	}
	if normalized.SpawnRadius <= 0 {
		normalized.SpawnRadius = 35.0
	}
	if normalized.DespawnRadius <= normalized.SpawnRadius {
		normalized.DespawnRadius = normalized.SpawnRadius + 25.0
	}
	if normalized.Speed <= 0 {
		normalized.Speed = 8.0
	}
	if normalized.TurnChance < 0 || normalized.TurnChance > 1 {
		normalized.TurnChance = 0.3
	}
	return normalized
}

func (cfg RoadConfig) normalized() RoadConfig {
	normalized := cfg
	if normalized.Spacing <= 0 {
		normalized.Spacing = 12.0
	}
	if normalized.HalfWidth <= 0 {
		normalized.HalfWidth = 2.0
	}
	return normalized
}

// DefaultConfig returns the tuning used by the shipped game.
func DefaultConfig() Config {
	return Config{
		Seed:    DefaultSeed,
		Traffic: TrafficConfig{MaxCars: 10},
	}.normalized()
}
