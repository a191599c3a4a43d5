package physics

// Stepper turns variable frame deltas into a whole number of fixed steps.
// The leftover fraction of a step is returned as the blend alpha for rendering.
type Stepper struct {
	Step     float64 // seconds per physics step
	MaxSteps int     // steps allowed per frame; extra time is dropped

	acc float64
}

// NewStepper returns a stepper with the given step size and per-frame cap.
// maxSteps <= 0 means no cap.
func NewStepper(step float64, maxSteps int) *Stepper {
	return &Stepper{Step: step, MaxSteps: maxSteps}
}

// Advance adds frame seconds to the accumulator and reports how many fixed
// steps to run and the interpolation factor left over afterwards.
// A non-positive Step disables fixed stepping: the caller gets one step of
// the whole frame, reported as steps == 1 and alpha == 1.
func (s *Stepper) Advance(frame float64) (steps int, alpha float64) {
	if s.Step <= 0 {
		if frame <= 0 {
			return 0, 1
		}
		return 1, 1
	}
	if frame > 0 {
		s.acc += frame
	}
	for s.acc >= s.Step {
		if s.MaxSteps > 0 && steps >= s.MaxSteps {
			s.acc = 0
			break
		}
		s.acc -= s.Step
		steps++
	}
	return steps, s.acc / s.Step
}

// Reset drops any accumulated time.
func (s *Stepper) Reset() {
	s.acc = 0
}
