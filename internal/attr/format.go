package attr

import (
	"strconv"
	"strings"

	"github.com/san-kum/gaitsim/internal/spatial"
)

func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func FormatInt(v int) string { return strconv.Itoa(v) }

func FormatBool(v bool) string { return strconv.FormatBool(v) }

func FormatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatFloat(v)
	}
	return strings.Join(parts, " ")
}

func FormatVector3(v spatial.Vector3) string {
	return FormatFloats([]float64{v.X, v.Y, v.Z})
}

func FormatQuaternion(q spatial.Quaternion) string {
	return FormatFloats([]float64{q.N, q.X, q.Y, q.Z})
}
