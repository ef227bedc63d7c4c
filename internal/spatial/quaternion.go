package spatial

import "math"

// Quaternion is a rotation with scalar part N.
type Quaternion struct {
	N, X, Y, Z float64
}

func Identity() Quaternion { return Quaternion{N: 1} }

func Q(n, x, y, z float64) Quaternion { return Quaternion{n, x, y, z} }

// FromAxisAngle builds the rotation of angle radians about axis.
func FromAxisAngle(axis Vector3, angle float64) Quaternion {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quaternion{math.Cos(angle / 2), a.X * s, a.Y * s, a.Z * s}
}

func (q Quaternion) Vector() Vector3 { return Vector3{q.X, q.Y, q.Z} }

func (q Quaternion) Conjugate() Quaternion { return Quaternion{q.N, -q.X, -q.Y, -q.Z} }

func (q Quaternion) Magnitude() float64 {
	return math.Sqrt(q.N*q.N + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

func (q Quaternion) Normalize() Quaternion {
	m := q.Magnitude()
	if m == 0 {
		return Identity()
	}
	return Quaternion{q.N / m, q.X / m, q.Y / m, q.Z / m}
}

// Mul composes rotations: q.Mul(p) applies p first, then q.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		N: q.N*p.N - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		X: q.N*p.X + q.X*p.N + q.Y*p.Z - q.Z*p.Y,
		Y: q.N*p.Y + q.Y*p.N + q.Z*p.X - q.X*p.Z,
		Z: q.N*p.Z + q.Z*p.N + q.X*p.Y - q.Y*p.X,
	}
}

// Rotate returns the vector part of q*(0,v)*q⁻¹.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	r := q.Mul(Quaternion{0, v.X, v.Y, v.Z}).Mul(q.Conjugate())
	return Vector3{r.X, r.Y, r.Z}
}

// Unrotate applies the inverse rotation.
func (q Quaternion) Unrotate(v Vector3) Vector3 { return q.Conjugate().Rotate(v) }

// Axis returns the rotated unit X, Y or Z axis for index 0, 1 or 2.
func (q Quaternion) Axis(i int) Vector3 {
	switch i {
	case 0:
		return q.Rotate(UnitX)
	case 1:
		return q.Rotate(UnitY)
	default:
		return q.Rotate(UnitZ)
	}
}

// Derivative is dq/dt for a world-frame angular velocity w.
func (q Quaternion) Derivative(w Vector3) Quaternion {
	d := Quaternion{0, w.X, w.Y, w.Z}.Mul(q)
	return Quaternion{d.N / 2, d.X / 2, d.Y / 2, d.Z / 2}
}

// FindRotation returns the shortest rotation taking direction from onto
// direction to.
func FindRotation(from, to Vector3) Quaternion {
	a, b := from.Normalize(), to.Normalize()
	d := a.Dot(b)
	if d > 1-1e-12 {
		return Identity()
	}
	if d < -1+1e-12 {
		axis := UnitX.Cross(a)
		if axis.Magnitude2() < 1e-12 {
			axis = UnitY.Cross(a)
		}
		return FromAxisAngle(axis, math.Pi)
	}
	c := a.Cross(b)
	return Quaternion{1 + d, c.X, c.Y, c.Z}.Normalize()
}
