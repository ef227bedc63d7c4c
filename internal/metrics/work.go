package metrics

import "github.com/san-kum/gaitsim/internal/sim"

// StrapWork integrates the mechanical work done by straps. Shortening
// under tension counts as positive work.
type StrapWork struct {
	name  string
	strap string
	work  float64
}

// NewStrapWork tracks one strap, or all straps when name is empty.
func NewStrapWork(strap string) *StrapWork {
	name := "strap_work"
	if strap != "" {
		name += "_" + strap
	}
	return &StrapWork{name: name, strap: strap}
}

func (w *StrapWork) Name() string { return w.name }

func (w *StrapWork) Observe(f *sim.Frame, dt float64) {
	for _, s := range f.Straps {
		if w.strap != "" && s.Name != w.strap {
			continue
		}
		w.work += -s.Tension * s.Velocity * dt
	}
}

func (w *StrapWork) Value() float64 { return w.work }

func (w *StrapWork) Reset() { w.work = 0 }
