package wrap_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/wrap"
)

func polyline(path []spatial.Vector3) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}

// sweepAngle is the right-handed angle about c from a to b.
func sweepAngle(c, a, b spatial.Vector3) float64 {
	theta := math.Atan2(b.Y-c.Y, b.X-c.X) - math.Atan2(a.Y-c.Y, a.X-c.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// doubleSweeps returns the arc each cylinder would take in a double wrap.
func doubleSweeps(in wrap.TwoCylinderInput) (theta1, theta2 float64) {
	_, e2, _ := wrap.FindTangents(in.Cylinder1, in.Radius1, in.Origin)
	h1, _, _ := wrap.FindTangents(in.Cylinder2, in.Radius2, in.Insertion)
	ct, _ := wrap.FindCircleCircleTangents(in.Cylinder1, in.Radius1, in.Cylinder2, in.Radius2)
	return sweepAngle(in.Cylinder1, e2, ct.Outer2P1), sweepAngle(in.Cylinder2, ct.Outer2P2, h1)
}

func netForce(r wrap.Result) spatial.Vector3 {
	return r.OriginForce.Add(r.InsertionForce).Add(r.Cylinder1Force).Add(r.Cylinder2Force)
}

var _ = Describe("TwoCylinderWrap", func() {
	var in wrap.TwoCylinderInput

	BeforeEach(func() {
		// straight line y=0 cuts both cylinders; the right-handed wrap passes beneath
		in = wrap.TwoCylinderInput{
			Origin:       spatial.V(-4, 0, 0),
			Insertion:    spatial.V(4, 0, 0),
			Cylinder1:    spatial.V(-2, 0.5, 0),
			Radius1:      1,
			Cylinder2:    spatial.V(2, 0.5, 0),
			Radius2:      1,
			Tension:      1,
			PointsPerArc: 4,
		}
	})

	Context("when the strap crosses both cylinders", func() {
		It("wraps both", func() {
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Status).To(Equal(wrap.StatusDouble))

			theta := math.Pi/2 - math.Atan(0.25) - math.Acos(1/math.Sqrt(4.25))
			want := 2*math.Sqrt(3.25) + 4 + 2*theta
			Expect(r.Length).To(BeNumerically("~", want, 1e-9))
		})

		It("is never shorter than the straight line", func() {
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Length).To(BeNumerically(">=", in.Origin.Distance(in.Insertion)))
		})

		It("produces unit end forces that balance", func() {
			r := wrap.TwoCylinderWrap(in)
			Expect(r.OriginForce.Magnitude()).To(BeNumerically("~", 1, 1e-12))
			Expect(r.InsertionForce.Magnitude()).To(BeNumerically("~", 1, 1e-12))
			Expect(netForce(r).Magnitude()).To(BeNumerically("<", 1e-12))
			Expect(r.OriginForce.Y).To(BeNumerically("<", 0))
		})

		It("places cylinder forces on the cylinder axes", func() {
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Cylinder1ForcePosition.Distance(spatial.V(-2, 0.5, 0))).To(BeNumerically("<", 1e-12))
			Expect(r.Cylinder2ForcePosition.Distance(spatial.V(2, 0.5, 0))).To(BeNumerically("<", 1e-12))
			Expect(r.Cylinder1Force.Y).To(BeNumerically(">", 0))
			Expect(r.Cylinder2Force.Y).To(BeNumerically(">", 0))
		})

		It("scales forces by tension", func() {
			in.Tension = 250
			r := wrap.TwoCylinderWrap(in)
			Expect(r.OriginForce.Magnitude()).To(BeNumerically("~", 250, 1e-9))
		})

		It("samples a path hugging both cylinders", func() {
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Path).To(HaveLen(12))
			Expect(r.Path[0]).To(Equal(in.Origin))
			Expect(r.Path[11]).To(Equal(in.Insertion))
			for _, p := range r.Path[2:5] {
				Expect(p.Distance2D(in.Cylinder1)).To(BeNumerically("~", 1, 1e-12))
			}
			for _, p := range r.Path[7:10] {
				Expect(p.Distance2D(in.Cylinder2)).To(BeNumerically("~", 1, 1e-12))
			}
			Expect(polyline(r.Path)).To(BeNumerically("<=", r.Length+1e-12))
			Expect(polyline(r.Path)).To(BeNumerically(">", r.Length-0.01))
		})

		It("omits the path when no arc points are requested", func() {
			in.PointsPerArc = 0
			Expect(wrap.TwoCylinderWrap(in).Path).To(BeEmpty())
		})

		It("interpolates height along the planar path", func() {
			in.Insertion.Z = 2
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Status).To(Equal(wrap.StatusDouble))
			Expect(r.Length).To(BeNumerically("~", 8.370916301011425, 1e-9))
			for i := 1; i < len(r.Path); i++ {
				Expect(r.Path[i].Z).To(BeNumerically(">=", r.Path[i-1].Z))
			}
			Expect(r.Cylinder1ForcePosition.Z).To(BeNumerically(">", 0))
			Expect(r.Cylinder2ForcePosition.Z).To(BeNumerically(">", r.Cylinder1ForcePosition.Z))
		})
	})

	Context("when only one cylinder is crossed", func() {
		It("wraps cylinder 1 like a single cylinder", func() {
			in.Cylinder2 = spatial.V(2, 5, 0)
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Status).To(Equal(wrap.StatusFirstOnly))
			Expect(r.Length).To(BeNumerically("~", 8.085135664221585, 1e-9))
			Expect(r.Cylinder2Force).To(Equal(spatial.Zero))
			Expect(r.Cylinder2ForcePosition).To(Equal(spatial.Zero))

			single := wrap.CylinderWrap(wrap.CylinderInput{
				Origin: in.Origin, Insertion: in.Insertion,
				Cylinder: in.Cylinder1, Radius: in.Radius1, Tension: 1,
			})
			Expect(single.Status).To(Equal(wrap.StatusFirstOnly))
			Expect(single.Length).To(BeNumerically("~", r.Length, 1e-12))
			Expect(single.Cylinder1Force.Distance(r.Cylinder1Force)).To(BeNumerically("<", 1e-12))
		})

		It("wraps cylinder 2", func() {
			in.Cylinder1 = spatial.V(-2, 5, 0)
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Status).To(Equal(wrap.StatusSecondOnly))
			Expect(r.Length).To(BeNumerically("~", 8.085135664221585, 1e-9))
			Expect(r.Cylinder1Force).To(Equal(spatial.Zero))
			Expect(netForce(r).Magnitude()).To(BeNumerically("<", 1e-12))
		})
	})

	Context("when the cylinders are clear of the line", func() {
		It("runs straight", func() {
			in.Cylinder1 = spatial.V(-2, 3, 0)
			in.Cylinder2 = spatial.V(2, 3, 0)
			r := wrap.TwoCylinderWrap(in)
			Expect(r.Status).To(Equal(wrap.StatusNone))
			Expect(r.Length).To(BeNumerically("~", 8, 1e-12))
			Expect(r.InsertionForce).To(Equal(r.OriginForce.Neg()))
			Expect(r.Path).To(Equal([]spatial.Vector3{in.Origin, in.Insertion}))
		})
	})

	Context("when a sweep equals the maximum angle", func() {
		It("does not wrap either cylinder at exactly theta1 or theta2", func() {
			theta1, theta2 := doubleSweeps(in)
			Expect(theta1).To(BeNumerically("~", 0.2614659802866366, 1e-12))

			for _, limit := range []float64{theta1, theta2} {
				at := in
				at.MaxAngle = limit
				Expect(wrap.TwoCylinderWrap(at).Status).To(Equal(wrap.StatusNone))
			}

			above := in
			above.MaxAngle = math.Max(theta1, theta2) + 1e-9
			Expect(wrap.TwoCylinderWrap(above).Status).To(Equal(wrap.StatusDouble))
		})

		It("falls through to cylinder 2 when theta1 hits the limit", func() {
			in.Cylinder1 = spatial.V(-2, 0.3, 0)
			in.Cylinder2 = spatial.V(2, 0.6, 0)
			theta1, theta2 := doubleSweeps(in)
			Expect(theta1).To(BeNumerically(">", theta2))

			at := in
			at.MaxAngle = theta1
			Expect(wrap.TwoCylinderWrap(at).Status).To(Equal(wrap.StatusSecondOnly))

			above := in
			above.MaxAngle = theta1 + 1e-9
			Expect(wrap.TwoCylinderWrap(above).Status).To(Equal(wrap.StatusDouble))
		})

		It("falls through to cylinder 1 when theta2 hits the limit", func() {
			in.Cylinder2 = spatial.V(2, 0.2, 0)
			theta1, theta2 := doubleSweeps(in)
			Expect(theta2).To(BeNumerically(">", theta1))

			at := in
			at.MaxAngle = theta2
			Expect(wrap.TwoCylinderWrap(at).Status).To(Equal(wrap.StatusFirstOnly))

			above := in
			above.MaxAngle = theta2 + 1e-9
			Expect(wrap.TwoCylinderWrap(above).Status).To(Equal(wrap.StatusDouble))
		})
	})

	Context("when an attachment is inside a cylinder", func() {
		It("fails", func() {
			in.Origin = spatial.V(-1.5, 0.5, 0)
			Expect(wrap.TwoCylinderWrap(in).Status).To(Equal(wrap.StatusFailed))
		})
	})
})

var _ = Describe("CylinderWrap", func() {
	in := wrap.CylinderInput{
		Origin:    spatial.V(-4, 0, 0),
		Insertion: spatial.V(4, 0, 0),
		Cylinder:  spatial.V(0, 0.5, 0),
		Radius:    1,
		Tension:   1,
	}

	It("wraps when the line crosses the cylinder", func() {
		r := wrap.CylinderWrap(in)
		Expect(r.Status).To(Equal(wrap.StatusFirstOnly))
		Expect(r.Length).To(BeNumerically(">", 8))
		Expect(netForce(r).Magnitude()).To(BeNumerically("<", 1e-12))
	})

	It("does not wrap at exactly the maximum angle", func() {
		_, e, _ := wrap.FindTangents(in.Cylinder, in.Radius, in.Origin)
		k, _, _ := wrap.FindTangents(in.Cylinder, in.Radius, in.Insertion)
		theta := sweepAngle(in.Cylinder, e, k)

		at := in
		at.MaxAngle = theta
		Expect(wrap.CylinderWrap(at).Status).To(Equal(wrap.StatusNone))

		above := in
		above.MaxAngle = theta + 1e-9
		Expect(wrap.CylinderWrap(above).Status).To(Equal(wrap.StatusFirstOnly))
	})

	It("fails when the insertion is inside", func() {
		inside := in
		inside.Insertion = spatial.V(0, 0.5, 0)
		Expect(wrap.CylinderWrap(inside).Status).To(Equal(wrap.StatusFailed))
	})
})

var _ = Describe("SphereWrap", func() {
	in := wrap.SphereInput{
		Origin:       spatial.V(-4, 0, 0),
		Insertion:    spatial.V(4, 0, 0),
		Center:       spatial.V(0, 0.5, 0),
		Radius:       1,
		Tension:      1,
		PointsPerArc: 8,
	}

	It("matches the planar tangent construction", func() {
		r := wrap.SphereWrap(in)
		Expect(r.Status).To(Equal(wrap.StatusFirstOnly))

		d := math.Sqrt(16.25)
		theta := math.Pi - 2*math.Atan(0.5/4) - 2*math.Acos(1/d)
		want := 2*math.Sqrt(16.25-1) + theta
		Expect(r.Length).To(BeNumerically("~", want, 1e-9))
	})

	It("passes on the side the line cuts", func() {
		r := wrap.SphereWrap(in)
		for _, p := range r.Path[1 : len(r.Path)-1] {
			Expect(p.Distance(in.Center)).To(BeNumerically("~", 1, 1e-9))
			Expect(p.Y).To(BeNumerically("<", 0.5))
		}
		Expect(r.Cylinder1ForcePosition).To(Equal(in.Center))
		Expect(netForce(r).Magnitude()).To(BeNumerically("<", 1e-12))
	})

	It("runs straight past a clear sphere", func() {
		clear := in
		clear.Center = spatial.V(0, 3, 0)
		r := wrap.SphereWrap(clear)
		Expect(r.Status).To(Equal(wrap.StatusNone))
		Expect(r.Length).To(BeNumerically("~", 8, 1e-12))
	})

	It("fails when an attachment is inside", func() {
		bad := in
		bad.Origin = in.Center
		Expect(wrap.SphereWrap(bad).Status).To(Equal(wrap.StatusFailed))
	})
})
