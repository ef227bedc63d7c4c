package attr

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/gaitsim/internal/spatial"
)

func TestReaderTypedValues(t *testing.T) {
	m := Map{
		"ID":        "hip",
		"Radius":    "0.05",
		"StackSize": "3",
		"Heights":   "1 2.5 -3",
		"Position":  "0.1 0.2 0.3",
		"Enabled":   "true",
	}
	r := NewReader(m, "STRAP")
	radius := r.Float("Radius")
	n := r.Int("StackSize")
	heights := r.Floats("Heights", n)
	pos := r.Vector3("Position")
	enabled := r.OptionalBool("Enabled", false)
	cfm := r.OptionalFloat("CFM", -1)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "hip" {
		t.Errorf("expected id hip, got %s", r.ID())
	}
	if radius != 0.05 || n != 3 || cfm != -1 || !enabled {
		t.Errorf("unexpected scalars: radius=%f n=%d cfm=%f enabled=%v", radius, n, cfm, enabled)
	}
	if len(heights) != 3 || heights[1] != 2.5 {
		t.Errorf("expected heights [1 2.5 -3], got %v", heights)
	}
	if pos != spatial.V(0.1, 0.2, 0.3) {
		t.Errorf("expected position (0.1,0.2,0.3), got %v", pos)
	}
}

func TestReaderShortCircuits(t *testing.T) {
	m := Map{"ID": "knee", "Radius": "abc"}
	r := NewReader(m, "STRAP")
	r.Float("OriginMarkerID")
	r.Float("Radius")

	err := r.Err()
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected first failure to be ErrMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), `STRAP ID="knee" OriginMarkerID`) {
		t.Errorf("expected message to name object and field, got %q", err.Error())
	}
}

func TestReaderWrongListLength(t *testing.T) {
	r := NewReader(Map{"ID": "d", "Delays": "0.1 0.2"}, "DRIVER")
	r.Floats("Delays", 3)
	if !errors.Is(r.Err(), ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", r.Err())
	}
}

func TestReaderMissingID(t *testing.T) {
	r := NewReader(Map{}, "BODY")
	if r.Err() == nil {
		t.Error("expected missing ID error")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	m := Map{}
	m.Set("Position", FormatVector3(spatial.V(0.1, -2, 1e-12)))
	m.Set("Quaternion", FormatQuaternion(spatial.Identity()))
	m.Set("ID", "m")

	r := NewReader(m, "MARKER")
	if got := r.Vector3("Position"); got != spatial.V(0.1, -2, 1e-12) {
		t.Errorf("expected exact round trip, got %v", got)
	}
	if got := r.OptionalQuaternion("Quaternion", spatial.Q(0, 0, 0, 0)); got != spatial.Identity() {
		t.Errorf("expected identity, got %v", got)
	}
}
