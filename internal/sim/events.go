package sim

// WheelSide identifies which side of the car a skid mark belongs to.
type WheelSide uint8

const (
	WheelLeft WheelSide = iota
	WheelRight
)

func (w WheelSide) String() string {
	if w == WheelRight {
		return "right"
	}
	return "left"
}

// EventSink receives fire-and-forget notifications from the core. Sinks must
// not call back into the simulation; they run synchronously inside the tick.
type EventSink interface {
	PlayerCrashedIntoBuilding(pos Vec2, intensity float64)
	PlayerCaughtByPolice()
	SkidMark(pos Vec2, heading, intensity float64, wheel WheelSide)
	SirenProximity(distance float64)
}

// NopSink discards every event. It backs a nil sink argument so the core
// never nil-checks before firing.
type NopSink struct{}

func (NopSink) PlayerCrashedIntoBuilding(Vec2, float64)    {}
func (NopSink) PlayerCaughtByPolice()                      {}
func (NopSink) SkidMark(Vec2, float64, float64, WheelSide) {}
func (NopSink) SirenProximity(float64)                     {}
