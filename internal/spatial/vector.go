package spatial

import "math"

type Vector3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vector3 { return Vector3{x, y, z} }

var (
	Zero  = Vector3{}
	UnitX = Vector3{1, 0, 0}
	UnitY = Vector3{0, 1, 0}
	UnitZ = Vector3{0, 0, 1}
)

func (v Vector3) Add(o Vector3) Vector3      { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3      { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3    { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Neg() Vector3               { return Vector3{-v.X, -v.Y, -v.Z} }
func (v Vector3) Dot(o Vector3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Magnitude2() float64        { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vector3) Magnitude() float64         { return math.Sqrt(v.Magnitude2()) }
func (v Vector3) Distance(o Vector3) float64 { return o.Sub(v).Magnitude() }
func (v Vector3) Mul(o Vector3) Vector3      { return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns the unit vector along v. The zero vector is returned
// unchanged; callers must not rely on it having unit length.
func (v Vector3) Normalize() Vector3 {
	if l := v.Magnitude(); l != 0 {
		return v.Scale(1 / l)
	}
	return v
}

// Distance2D ignores the Z component.
func (v Vector3) Distance2D(o Vector3) float64 {
	dx, dy := o.X-v.X, o.Y-v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Component returns X, Y or Z for index 0, 1 or 2.
func (v Vector3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Towards returns the vector from v to o with the given magnitude.
func (v Vector3) Towards(o Vector3, magnitude float64) Vector3 {
	d := o.Sub(v)
	return d.Scale(magnitude / d.Magnitude())
}
