package metrics

import (
	"math"

	"github.com/san-kum/gaitsim/internal/sim"
)

// PeakJointLoad is the largest constraint force magnitude seen on any
// joint.
type PeakJointLoad struct {
	name string
	peak float64
}

func NewPeakJointLoad() *PeakJointLoad {
	return &PeakJointLoad{name: "peak_joint_load"}
}

func (p *PeakJointLoad) Name() string { return p.name }

func (p *PeakJointLoad) Observe(f *sim.Frame, dt float64) {
	for _, j := range f.Joints {
		p.peak = math.Max(p.peak, j.Feedback.Force1.Magnitude())
		p.peak = math.Max(p.peak, j.Feedback.Force2.Magnitude())
	}
}

func (p *PeakJointLoad) Value() float64 { return p.peak }

func (p *PeakJointLoad) Reset() { p.peak = 0 }
