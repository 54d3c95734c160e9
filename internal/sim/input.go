package sim

// InputSnapshot is the per-tick player input state, polled once per tick by
// the external input collaborator.
type InputSnapshot struct {
	Accelerate bool `json:"accelerate"`
	Brake      bool `json:"brake"`
	SteerLeft  bool `json:"steerLeft"`
	SteerRight bool `json:"steerRight"`
	Boost      bool `json:"boost"`
}

// steer returns the steering axis: -1 left, +1 right, 0 centered.
func (in InputSnapshot) steer() float64 {
	axis := 0.0
	if in.SteerLeft {
		axis -= 1
	}
	if in.SteerRight {
		axis += 1
	}
	return axis
}
