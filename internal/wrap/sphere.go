package wrap

import (
	"math"

	"github.com/san-kum/gaitsim/internal/spatial"
)

// SphereInput describes a strap passing a sphere.
type SphereInput struct {
	Origin    spatial.Vector3
	Insertion spatial.Vector3
	Center    spatial.Vector3
	Radius    float64

	Tension      float64
	PointsPerArc int
}

// SphereWrap solves the geodesic wrap over a sphere. The path lies in the
// plane through origin, insertion and the centre, and only wraps when the
// straight line would pass through the sphere. The sphere force acts
// through the centre and is reported in the Cylinder1 slots.
func SphereWrap(in SphereInput) Result {
	o, ins, c, r := in.Origin, in.Insertion, in.Center, in.Radius
	if o.Distance(c) <= r || ins.Distance(c) <= r {
		return Result{Status: StatusFailed}
	}

	seg := ins.Sub(o)
	t := 0.0
	if l2 := seg.Magnitude2(); l2 > 0 {
		t = math.Max(0, math.Min(1, c.Sub(o).Dot(seg)/l2))
	}
	nearest := o.Add(seg.Scale(t))
	if nearest.Distance(c) >= r {
		return Straight(o, ins, in.Tension, in.PointsPerArc > 0)
	}

	// planar frame: u towards origin, v in the plane of insertion
	u := o.Sub(c).Normalize()
	rel := ins.Sub(c)
	v := rel.Sub(u.Scale(rel.Dot(u)))
	if v.Magnitude2() < SmallAngle*SmallAngle {
		v = perpendicular(u)
	}
	v = v.Normalize()

	to2D := func(p spatial.Vector3) spatial.Vector3 {
		d := p.Sub(c)
		return spatial.V(d.Dot(u), d.Dot(v), 0)
	}
	to3D := func(p spatial.Vector3) spatial.Vector3 {
		return c.Add(u.Scale(p.X)).Add(v.Scale(p.Y))
	}

	o2, i2 := to2D(o), to2D(ins)
	side := to2D(nearest)
	if side.Magnitude2() < SmallAngle*SmallAngle {
		side = spatial.UnitY
	}

	a1, a2, _ := FindTangents(spatial.Zero, r, o2)
	e2 := a1
	if a2.Dot(side) > a1.Dot(side) {
		e2 = a2
	}
	b1, b2, _ := FindTangents(spatial.Zero, r, i2)
	k2 := b1
	if b2.Dot(side) > b1.Dot(side) {
		k2 = b2
	}

	cosTheta := math.Max(-1, math.Min(1, e2.Dot(k2)/(r*r)))
	theta := math.Acos(cosTheta)

	e, k := to3D(e2), to3D(k2)
	var res Result
	res.Status = StatusFirstOnly
	res.Length = o.Distance(e) + theta*r + k.Distance(ins)
	res.OriginForce = o.Towards(e, in.Tension)
	res.InsertionForce = ins.Towards(k, in.Tension)
	res.Cylinder1Force = res.OriginForce.Add(res.InsertionForce).Neg()
	res.Cylinder1ForcePosition = c

	if n := in.PointsPerArc; n > 0 {
		ea := e.Sub(c).Normalize()
		kb := k.Sub(c)
		eb := kb.Sub(ea.Scale(kb.Dot(ea))).Normalize()
		path := make([]spatial.Vector3, 0, n+3)
		path = append(path, o, e)
		for j := 1; j < n; j++ {
			phi := theta * float64(j) / float64(n)
			path = append(path, c.Add(ea.Scale(r*math.Cos(phi))).Add(eb.Scale(r*math.Sin(phi))))
		}
		path = append(path, k, ins)
		res.Path = path
	}
	return res
}

func perpendicular(u spatial.Vector3) spatial.Vector3 {
	if math.Abs(u.X) < 0.9 {
		return spatial.UnitX.Sub(u.Scale(u.X))
	}
	return spatial.UnitY.Sub(u.Scale(u.Y))
}
