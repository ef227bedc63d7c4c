package wrap

import (
	"math"
	"testing"

	"github.com/san-kum/gaitsim/internal/spatial"
)

const tol = 1e-9

func onCircle(t *testing.T, name string, p, c spatial.Vector3, r float64) {
	t.Helper()
	if d := p.Distance2D(c); math.Abs(d-r) > tol {
		t.Errorf("%s: distance from centre = %v, want %v", name, d, r)
	}
}

func TestFindTangents(t *testing.T) {
	c := spatial.Zero
	ext := spatial.V(2, 0, 0)
	p1, p2, n := FindTangents(c, 1, ext)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	for _, p := range []spatial.Vector3{p1, p2} {
		onCircle(t, "tangent", p, c, 1)
		if dot := p.Sub(c).Dot(p.Sub(ext)); math.Abs(dot) > tol {
			t.Errorf("radius not perpendicular to tangent line: dot = %v", dot)
		}
	}
	if p1.Y >= 0 || p2.Y <= 0 {
		t.Errorf("unexpected ordering p1=%v p2=%v", p1, p2)
	}

	if _, _, n := FindTangents(c, 1, spatial.V(0.5, 0, 0)); n != 0 {
		t.Errorf("inside point: n = %d, want 0", n)
	}
}

func TestFindCircleCircleIntersections(t *testing.T) {
	tests := []struct {
		name   string
		c0, c1 spatial.Vector3
		r0, r1 float64
		want   int
	}{
		{"touching", spatial.Zero, spatial.V(10, 0, 0), 5, 5, 1},
		{"apart", spatial.Zero, spatial.V(11, 0, 0), 5, 5, 0},
		{"overlapping", spatial.Zero, spatial.V(6, 0, 0), 5, 5, 2},
		{"contained", spatial.Zero, spatial.V(1, 0, 0), 5, 1, 0},
		{"coincident", spatial.Zero, spatial.Zero, 5, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, n := FindCircleCircleIntersections(tt.c0, tt.r0, tt.c1, tt.r1)
			if n != tt.want {
				t.Fatalf("n = %d, want %d", n, tt.want)
			}
			if n == 0 {
				return
			}
			for _, p := range []spatial.Vector3{p1, p2} {
				onCircle(t, "c0", p, tt.c0, tt.r0)
				onCircle(t, "c1", p, tt.c1, tt.r1)
			}
		})
	}

	p1, _, _ := FindCircleCircleIntersections(spatial.Zero, 5, spatial.V(10, 0, 0), 5)
	if p1.Distance(spatial.V(5, 0, 0)) > tol {
		t.Errorf("touch point = %v, want (5,0,0)", p1)
	}
}

func checkSegment(t *testing.T, name string, a, ca spatial.Vector3, ra float64, b, cb spatial.Vector3, rb float64) {
	t.Helper()
	onCircle(t, name+" start", a, ca, ra)
	onCircle(t, name+" end", b, cb, rb)
	dir := b.Sub(a)
	if dot := a.Sub(ca).Dot(dir); math.Abs(dot) > tol {
		t.Errorf("%s: not tangent at start, dot = %v", name, dot)
	}
	if dot := b.Sub(cb).Dot(dir); math.Abs(dot) > tol {
		t.Errorf("%s: not tangent at end, dot = %v", name, dot)
	}
}

func TestFindCircleCircleTangents(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 spatial.Vector3
		r1, r2 float64
		want   int
	}{
		{"equal radii", spatial.Zero, spatial.V(4, 0, 0), 1, 1, 4},
		{"smaller first", spatial.V(-1, 2, 0), spatial.V(5, -1, 0), 0.5, 2, 4},
		{"larger first", spatial.V(-1, 2, 0), spatial.V(5, -1, 0), 2, 0.5, 4},
		{"overlapping", spatial.Zero, spatial.V(1.5, 0, 0), 1, 1, 2},
		{"contained", spatial.Zero, spatial.V(0.5, 0, 0), 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, n := FindCircleCircleTangents(tt.c1, tt.r1, tt.c2, tt.r2)
			if n != tt.want {
				t.Fatalf("n = %d, want %d", n, tt.want)
			}
			if n == 0 {
				return
			}
			checkSegment(t, "outer1", ct.Outer1P1, tt.c1, tt.r1, ct.Outer1P2, tt.c2, tt.r2)
			checkSegment(t, "outer2", ct.Outer2P1, tt.c1, tt.r1, ct.Outer2P2, tt.c2, tt.r2)
			if n < 4 {
				return
			}
			checkSegment(t, "inner1", ct.Inner1P1, tt.c2, tt.r2, ct.Inner1P2, tt.c1, tt.r1)
			checkSegment(t, "inner2", ct.Inner2P1, tt.c2, tt.r2, ct.Inner2P2, tt.c1, tt.r1)
		})
	}
}

func TestOuterTangentSides(t *testing.T) {
	ct, _ := FindCircleCircleTangents(spatial.Zero, 1, spatial.V(4, 0, 0), 1)
	if ct.Outer1P1.Distance(spatial.V(0, 1, 0)) > tol || ct.Outer1P2.Distance(spatial.V(4, 1, 0)) > tol {
		t.Errorf("outer1 = %v -> %v, want the upper tangent", ct.Outer1P1, ct.Outer1P2)
	}
	if ct.Outer2P1.Distance(spatial.V(0, -1, 0)) > tol || ct.Outer2P2.Distance(spatial.V(4, -1, 0)) > tol {
		t.Errorf("outer2 = %v -> %v, want the lower tangent", ct.Outer2P1, ct.Outer2P2)
	}
}

func TestStatusString(t *testing.T) {
	if StatusDouble.String() != "double" || Status(9).String() != "unknown" {
		t.Error("unexpected status names")
	}
	if StatusFailed.Wrapped() || StatusNone.Wrapped() || !StatusSecondOnly.Wrapped() {
		t.Error("Wrapped misreports")
	}
}
