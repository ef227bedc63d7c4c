package strap

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
)

const sanityEpsilon = 1e-10

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown mirror axis %q", s)
}

// Sanity check codes. Each failing check has its own code.
const (
	CheckKind            = 1
	CheckRadius1         = 2
	CheckRadius2         = 3
	CheckOriginMirror    = 10
	CheckInsertionMirror = 11
	CheckCylinder1Mirror = 12
	CheckCylinder2Mirror = 13
	CheckLeftCrossover   = 20
	CheckRightCrossover  = 30
)

type SanityError struct {
	Strap  string
	Other  string
	Check  int
	Reason string
}

func (e *SanityError) Error() string {
	return fmt.Sprintf("strap %s vs %s: check %d: %s", e.Strap, e.Other, e.Check, e.Reason)
}

// SanityCheck verifies that other is the mirror image of s about axis and
// that a strap whose name contains left attaches to no body whose name
// contains right, and vice versa. Empty tokens skip the crossover check.
func (s *Strap) SanityCheck(other *Strap, axis Axis, left, right string) error {
	fail := func(check int, format string, args ...any) error {
		return &SanityError{Strap: s.name, Other: other.name, Check: check, Reason: fmt.Sprintf(format, args...)}
	}

	if s.kind != other.kind {
		return fail(CheckKind, "kind %v differs from %v", s.kind, other.kind)
	}
	n := s.kind.obstacles()
	if n >= 1 && math.Abs(s.radius1-other.radius1) > sanityEpsilon {
		return fail(CheckRadius1, "radius %g differs from %g", s.radius1, other.radius1)
	}
	if n >= 2 && math.Abs(s.radius2-other.radius2) > sanityEpsilon {
		return fail(CheckRadius2, "radius %g differs from %g", s.radius2, other.radius2)
	}

	pairs := []struct {
		check int
		name  string
		a, b  *model.Marker
	}{
		{CheckOriginMirror, "origin", s.origin, other.origin},
		{CheckInsertionMirror, "insertion", s.insertion, other.insertion},
		{CheckCylinder1Mirror, "cylinder 1", s.cylinder1, other.cylinder1},
		{CheckCylinder2Mirror, "cylinder 2", s.cylinder2, other.cylinder2},
	}
	for _, p := range pairs[:2+n] {
		if i, ok := mirrored(p.a.LocalPosition(), p.b.LocalPosition(), axis); !ok {
			return fail(p.check, "%s %s component %g does not mirror %g", p.name, Axis(i),
				p.a.LocalPosition().Component(i), p.b.LocalPosition().Component(i))
		}
	}

	if left != "" && right != "" {
		for k, m := range s.Markers() {
			body := m.Body().Name()
			if strings.Contains(s.name, left) && strings.Contains(body, right) {
				return fail(CheckLeftCrossover+k, "%s strap attached to %s body %s", left, right, body)
			}
			if strings.Contains(s.name, right) && strings.Contains(body, left) {
				return fail(CheckRightCrossover+k, "%s strap attached to %s body %s", right, left, body)
			}
		}
	}
	return nil
}

// mirrored returns the first failing component index.
func mirrored(a, b spatial.Vector3, axis Axis) (int, bool) {
	for i := range 3 {
		var d float64
		if i == int(axis) {
			d = a.Component(i) + b.Component(i)
		} else {
			d = a.Component(i) - b.Component(i)
		}
		if math.Abs(d) > sanityEpsilon {
			return i, false
		}
	}
	return 0, true
}

// Pair is a left strap and its right-hand counterpart.
type Pair struct {
	Left, Right *Strap
}

// MirrorPairs matches each strap whose name contains left with the strap
// named by replacing the first left token with right. Left straps with no
// counterpart are returned by name in unpaired.
func MirrorPairs(straps []*Strap, left, right string) (pairs []Pair, unpaired []string) {
	if left == "" || right == "" {
		return nil, nil
	}
	byName := make(map[string]*Strap, len(straps))
	for _, s := range straps {
		byName[s.name] = s
	}
	for _, s := range straps {
		if !strings.Contains(s.name, left) {
			continue
		}
		other, ok := byName[strings.Replace(s.name, left, right, 1)]
		if !ok || other == s {
			unpaired = append(unpaired, s.name)
			continue
		}
		pairs = append(pairs, Pair{Left: s, Right: other})
	}
	return pairs, unpaired
}
