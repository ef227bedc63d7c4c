package strap

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gaitsim/internal/engine"
	"github.com/san-kum/gaitsim/internal/integrators"
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/wrap"
)

// solver reference for the double wrap below
const doubleWrapLength = 8.128483236037262

func worldMarker(name string, p spatial.Vector3) *model.Marker {
	return model.NewMarker(name, nil, p, spatial.Identity())
}

func near(a, b spatial.Vector3, tol float64) bool {
	return a.Distance(b) <= tol
}

// cylinderAxisZ turns a marker's X axis onto world Z.
var cylinderAxisZ = spatial.FromAxisAngle(spatial.UnitY, -math.Pi/2)

func twoCylinderStrap(rot spatial.Quaternion) *Strap {
	o := worldMarker("origin", rot.Rotate(spatial.V(-4, 0, 0)))
	i := worldMarker("insertion", rot.Rotate(spatial.V(4, 0, 0)))
	c1 := model.NewMarker("cyl1", nil, rot.Rotate(spatial.V(-2, 0.5, 0)), rot.Mul(cylinderAxisZ))
	c2 := model.NewMarker("cyl2", nil, rot.Rotate(spatial.V(2, 0.5, 0)), rot.Mul(cylinderAxisZ))
	return NewTwoCylinderWrap("glut", o, i, c1, c2, 1, 1)
}

func TestTwoPoint(t *testing.T) {
	s := NewTwoPoint("tp", worldMarker("a", spatial.Zero), worldMarker("b", spatial.V(3, 4, 0)))
	if err := s.Calculate(0); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if math.Abs(s.Length()-5) > 1e-12 {
		t.Errorf("expected length 5, got %f", s.Length())
	}
	if s.Velocity() != 0 {
		t.Errorf("expected zero velocity on first calculation, got %f", s.Velocity())
	}
	pf := s.PointForces()
	if len(pf) != 2 {
		t.Fatalf("expected 2 point forces, got %d", len(pf))
	}
	if !near(pf[0].Vector, spatial.V(0.6, 0.8, 0), 1e-12) || !near(pf[1].Vector, spatial.V(-0.6, -0.8, 0), 1e-12) {
		t.Errorf("unexpected forces %v %v", pf[0].Vector, pf[1].Vector)
	}
	if s.WrapStatus() != wrap.StatusNone {
		t.Errorf("expected no wrap, got %v", s.WrapStatus())
	}
}

func TestCalculateIsTimeGated(t *testing.T) {
	s := twoCylinderStrap(spatial.Identity())
	for range 3 {
		if err := s.Calculate(0.5); err != nil {
			t.Fatalf("calculate: %v", err)
		}
	}
	if s.computations != 1 {
		t.Errorf("expected 1 computation, got %d", s.computations)
	}
	if err := s.Calculate(0.6); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if s.computations != 2 {
		t.Errorf("expected 2 computations, got %d", s.computations)
	}

	s.SetPointsPerArc(4)
	if err := s.Calculate(0.6); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if s.computations != 3 || len(s.Path()) != 12 {
		t.Errorf("expected recompute with 12 path points, got %d computations, %d points", s.computations, len(s.Path()))
	}
}

func TestVelocityFiniteDifference(t *testing.T) {
	w := engine.NewWorld(engine.Params{StepSize: 1e-3}, integrators.NewRK4())
	b, err := model.NewBody("shank", w, engine.BodySpec{
		Mass:           1,
		Inertia:        spatial.V(0.1, 0.1, 0.1),
		Pose:           engine.IdentityPose(),
		LinearVelocity: spatial.V(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	s := NewTwoPoint("tp", model.NewMarker("o", b, spatial.Zero, spatial.Identity()), worldMarker("i", spatial.V(-5, 0, 0)))

	if err := s.Calculate(0); err != nil {
		t.Fatal(err)
	}
	for range 100 {
		if err := w.Step(1e-3); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Calculate(0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Length()-5.1) > 1e-9 {
		t.Errorf("expected length 5.1, got %f", s.Length())
	}
	if math.Abs(s.Velocity()-1) > 1e-6 {
		t.Errorf("expected velocity 1, got %f", s.Velocity())
	}
	if pf := s.PointForces(); pf[0].Body != b || pf[1].Body != nil {
		t.Error("point forces attached to the wrong bodies")
	}
}

func TestTwoCylinderWrapStrap(t *testing.T) {
	rotations := map[string]spatial.Quaternion{
		"aligned": spatial.Identity(),
		"rotated": spatial.FromAxisAngle(spatial.V(1, 1, 1), 0.7),
	}
	for name, rot := range rotations {
		t.Run(name, func(t *testing.T) {
			s := twoCylinderStrap(rot)
			s.SetPointsPerArc(4)
			if err := s.Calculate(0); err != nil {
				t.Fatalf("calculate: %v", err)
			}
			if s.WrapStatus() != wrap.StatusDouble {
				t.Fatalf("expected double wrap, got %v", s.WrapStatus())
			}
			if math.Abs(s.Length()-doubleWrapLength) > 1e-9 {
				t.Errorf("expected length %.12f, got %.12f", doubleWrapLength, s.Length())
			}

			pf := s.PointForces()
			if len(pf) != 4 {
				t.Fatalf("expected 4 point forces, got %d", len(pf))
			}
			var net spatial.Vector3
			for _, f := range pf {
				net = net.Add(f.Vector)
			}
			if net.Magnitude() > 1e-12 {
				t.Errorf("forces do not balance: %v", net)
			}

			path := s.Path()
			first := path[0].Towards(path[1], 1)
			if !near(pf[0].Vector, first, 1e-12) {
				t.Errorf("origin force %v does not follow the path %v", pf[0].Vector, first)
			}
			if !near(path[0], rot.Rotate(spatial.V(-4, 0, 0)), 1e-12) {
				t.Errorf("path starts at %v", path[0])
			}
			if !near(pf[2].Point, rot.Rotate(spatial.V(-2, 0.5, 0)), 1e-12) {
				t.Errorf("cylinder 1 force acts at %v", pf[2].Point)
			}
		})
	}
}

func TestWrapFailureFallsBack(t *testing.T) {
	o := worldMarker("origin", spatial.V(-2, 0.4, 0))
	i := worldMarker("insertion", spatial.V(4, 0, 0))
	c1 := model.NewMarker("cyl1", nil, spatial.V(-2, 0.5, 0), cylinderAxisZ)
	c2 := model.NewMarker("cyl2", nil, spatial.V(2, 0.5, 0), cylinderAxisZ)
	s := NewTwoCylinderWrap("glut", o, i, c1, c2, 1, 1)

	err := s.Calculate(0)
	if !errors.Is(err, ErrWrapFailed) {
		t.Fatalf("expected ErrWrapFailed, got %v", err)
	}
	if s.WrapStatus() != wrap.StatusFailed {
		t.Errorf("expected failed status, got %v", s.WrapStatus())
	}
	if want := o.WorldPosition().Distance(i.WorldPosition()); math.Abs(s.Length()-want) > 1e-12 {
		t.Errorf("expected straight length %f, got %f", want, s.Length())
	}
	pf := s.PointForces()
	if len(pf) != 4 || pf[2].Vector != spatial.Zero || pf[3].Vector != spatial.Zero {
		t.Errorf("expected zero cylinder forces, got %+v", pf)
	}
	if math.Abs(pf[0].Vector.Magnitude()-1) > 1e-12 {
		t.Errorf("expected unit origin force, got %v", pf[0].Vector)
	}

	if err := s.Calculate(0); !errors.Is(err, ErrWrapFailed) || s.computations != 1 {
		t.Errorf("repeat at same time: err=%v computations=%d", err, s.computations)
	}
}

func TestCylinderAndSphereStraps(t *testing.T) {
	o := worldMarker("origin", spatial.V(-4, 0, 0))
	i := worldMarker("insertion", spatial.V(4, 0, 0))
	c := model.NewMarker("c", nil, spatial.V(0, 0.5, 0), cylinderAxisZ)

	cyl := NewCylinderWrap("cyl", o, i, c, 1)
	if err := cyl.Calculate(0); err != nil {
		t.Fatal(err)
	}
	if cyl.WrapStatus() != wrap.StatusFirstOnly || len(cyl.PointForces()) != 3 || cyl.Length() <= 8 {
		t.Errorf("cylinder: status %v, %d forces, length %f", cyl.WrapStatus(), len(cyl.PointForces()), cyl.Length())
	}

	sph := NewSphereWrap("sph", o, i, c, 1)
	if err := sph.Calculate(0); err != nil {
		t.Fatal(err)
	}
	if sph.WrapStatus() != wrap.StatusFirstOnly || len(sph.PointForces()) != 3 {
		t.Errorf("sphere: status %v, %d forces", sph.WrapStatus(), len(sph.PointForces()))
	}
	if math.Abs(sph.Length()-cyl.Length()) > 1e-9 {
		t.Errorf("sphere wrap in the cylinder's plane should match: %f vs %f", sph.Length(), cyl.Length())
	}
}

func TestTorque(t *testing.T) {
	w := engine.NewWorld(engine.Params{StepSize: 1e-3}, nil)
	b, err := model.NewBody("thigh", w, engine.BodySpec{
		Mass: 1, Inertia: spatial.V(0.1, 0.1, 0.1), Pose: engine.IdentityPose(),
	})
	if err != nil {
		t.Fatal(err)
	}
	s := NewTwoPoint("tp", model.NewMarker("o", b, spatial.V(1, 0, 0), spatial.Identity()), worldMarker("i", spatial.V(1, 2, 0)))
	s.SetTension(10)
	if err := s.Calculate(0); err != nil {
		t.Fatal(err)
	}

	centre := model.NewMarker("hip", b, spatial.Zero, spatial.FromAxisAngle(spatial.UnitX, math.Pi/2))
	tq := s.Torque(centre)
	if !near(tq.WorldMomentArm, spatial.V(0, 0, 1), 1e-12) {
		t.Errorf("expected world moment arm (0,0,1), got %v", tq.WorldMomentArm)
	}
	if !near(tq.World, spatial.V(0, 0, 10), 1e-12) {
		t.Errorf("expected world torque (0,0,10), got %v", tq.World)
	}
	if !near(tq.MarkerMomentArm, spatial.V(0, 1, 0), 1e-12) {
		t.Errorf("expected marker moment arm (0,1,0), got %v", tq.MarkerMomentArm)
	}
	if !near(tq.Marker, spatial.V(0, 10, 0), 1e-12) {
		t.Errorf("expected marker torque (0,10,0), got %v", tq.Marker)
	}

	if tq := s.Torque(worldMarker("ground", spatial.Zero)); !near(tq.WorldMomentArm, spatial.V(0, 0, -1), 1e-12) {
		t.Errorf("expected only the insertion force about a world marker, got %v", tq.WorldMomentArm)
	}
}

func TestDependentMarkers(t *testing.T) {
	deps := model.NewDependencyIndex()
	s := twoCylinderStrap(spatial.Identity())
	markers := s.UpdateDependentMarkers(deps)
	if len(markers) != 4 {
		t.Fatalf("expected 4 markers, got %d", len(markers))
	}
	for _, m := range markers {
		got := deps.Dependents(m)
		if len(got) != 1 || got[0] != s {
			t.Errorf("marker %s: expected strap as dependent, got %v", m.Name(), got)
		}
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range []Kind{TwoPoint, CylinderWrap, TwoCylinderWrap, SphereWrap} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("round trip of %v failed", k)
		}
	}
	if _, ok := ParseKind("ThreeCylinderWrap"); ok {
		t.Error("expected unknown kind")
	}
}
