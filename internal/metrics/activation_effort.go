package metrics

import (
	"math"

	"github.com/san-kum/gaitsim/internal/sim"
)

// ActivationEffort is the mean summed absolute activation per step.
type ActivationEffort struct {
	name    string
	sum     float64
	samples int
}

func NewActivationEffort() *ActivationEffort {
	return &ActivationEffort{
		name: "activation_effort",
	}
}

func (a *ActivationEffort) Name() string {
	return a.name
}

func (a *ActivationEffort) Observe(f *sim.Frame, dt float64) {
	for _, act := range f.Actuators {
		a.sum += math.Abs(act.Activation)
	}
	a.samples++
}

func (a *ActivationEffort) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *ActivationEffort) Reset() {
	a.sum = 0
	a.samples = 0
}
