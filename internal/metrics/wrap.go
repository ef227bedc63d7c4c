package metrics

import (
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/wrap"
)

// WrapFailures counts strap evaluations that fell back to a straight line.
type WrapFailures struct {
	name  string
	count int
}

func NewWrapFailures() *WrapFailures {
	return &WrapFailures{name: "wrap_failures"}
}

func (w *WrapFailures) Name() string { return w.name }

func (w *WrapFailures) Observe(f *sim.Frame, dt float64) {
	for _, s := range f.Straps {
		if s.Status == wrap.StatusFailed {
			w.count++
		}
	}
}

func (w *WrapFailures) Value() float64 { return float64(w.count) }

func (w *WrapFailures) Reset() { w.count = 0 }
