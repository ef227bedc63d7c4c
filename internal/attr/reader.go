package attr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/gaitsim/internal/spatial"
)

// Reader pulls typed values from a Store. The first failure is kept and
// every later call becomes a no-op, so construction code can read all
// fields and check Err once.
type Reader struct {
	src Store
	tag string
	id  string
	err error
}

// NewReader reads the mandatory ID attribute of a tag element.
func NewReader(src Store, tag string) *Reader {
	r := &Reader{src: src, tag: tag}
	id, ok := src.Get("ID")
	if !ok || id == "" {
		r.err = &Error{Tag: tag, Field: "ID", Err: ErrMissing}
		return r
	}
	r.id = id
	return r
}

// NewUnnamedReader reads a singleton element such as GLOBAL that carries
// no ID.
func NewUnnamedReader(src Store, tag string) *Reader {
	return &Reader{src: src, tag: tag}
}

func (r *Reader) ID() string  { return r.id }
func (r *Reader) Tag() string { return r.tag }
func (r *Reader) Err() error  { return r.err }

// Fail records err against field unless an earlier failure exists.
func (r *Reader) Fail(field string, err error) {
	if r.err == nil {
		r.err = &Error{Tag: r.tag, ID: r.id, Field: field, Err: err}
	}
}

func (r *Reader) Has(name string) bool {
	_, ok := r.src.Get(name)
	return ok
}

func (r *Reader) lookup(name string, required bool) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.src.Get(name)
	if !ok && required {
		r.Fail(name, ErrMissing)
	}
	return v, ok
}

func (r *Reader) String(name string) string {
	v, _ := r.lookup(name, true)
	return v
}

func (r *Reader) OptionalString(name, def string) string {
	if v, ok := r.lookup(name, false); ok {
		return v
	}
	return def
}

func (r *Reader) parseFloat(name, s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		r.Fail(name, fmt.Errorf("%w: %q is not a number", ErrInvalid, s))
		return 0
	}
	return f
}

func (r *Reader) Float(name string) float64 {
	v, ok := r.lookup(name, true)
	if !ok {
		return 0
	}
	return r.parseFloat(name, v)
}

func (r *Reader) OptionalFloat(name string, def float64) float64 {
	v, ok := r.lookup(name, false)
	if !ok {
		return def
	}
	return r.parseFloat(name, v)
}

func (r *Reader) parseInt(name, s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		r.Fail(name, fmt.Errorf("%w: %q is not an integer", ErrInvalid, s))
		return 0
	}
	return n
}

func (r *Reader) Int(name string) int {
	v, ok := r.lookup(name, true)
	if !ok {
		return 0
	}
	return r.parseInt(name, v)
}

func (r *Reader) OptionalInt(name string, def int) int {
	v, ok := r.lookup(name, false)
	if !ok {
		return def
	}
	return r.parseInt(name, v)
}

func (r *Reader) OptionalBool(name string, def bool) bool {
	v, ok := r.lookup(name, false)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		r.Fail(name, fmt.Errorf("%w: %q is not a boolean", ErrInvalid, v))
		return def
	}
	return b
}

// Floats parses a space separated list. n < 0 accepts any length.
func (r *Reader) Floats(name string, n int) []float64 {
	v, ok := r.lookup(name, true)
	if !ok {
		return nil
	}
	return r.parseFloats(name, v, n)
}

func (r *Reader) parseFloats(name, s string, n int) []float64 {
	fields := strings.Fields(s)
	if n >= 0 && len(fields) != n {
		r.Fail(name, fmt.Errorf("%w: expected %d values, got %d", ErrInvalid, n, len(fields)))
		return nil
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = r.parseFloat(name, f)
	}
	if r.err != nil {
		return nil
	}
	return out
}

// Strings splits a space separated list of identifiers.
func (r *Reader) Strings(name string) []string {
	v, ok := r.lookup(name, true)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func (r *Reader) OptionalStrings(name string) []string {
	v, ok := r.lookup(name, false)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func (r *Reader) Vector3(name string) spatial.Vector3 {
	f := r.Floats(name, 3)
	if f == nil {
		return spatial.Vector3{}
	}
	return spatial.V(f[0], f[1], f[2])
}

func (r *Reader) OptionalVector3(name string, def spatial.Vector3) spatial.Vector3 {
	v, ok := r.lookup(name, false)
	if !ok {
		return def
	}
	f := r.parseFloats(name, v, 3)
	if f == nil {
		return def
	}
	return spatial.V(f[0], f[1], f[2])
}

// OptionalQuaternion reads "n x y z" and normalises it.
func (r *Reader) OptionalQuaternion(name string, def spatial.Quaternion) spatial.Quaternion {
	v, ok := r.lookup(name, false)
	if !ok {
		return def
	}
	f := r.parseFloats(name, v, 4)
	if f == nil {
		return def
	}
	return spatial.Q(f[0], f[1], f[2], f[3]).Normalize()
}
