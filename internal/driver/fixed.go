package driver

import "github.com/san-kum/gaitsim/internal/attr"

const TypeFixed = "Fixed"

type Fixed struct {
	base
	value float64
}

func NewFixed(name string, value float64) *Fixed {
	return &Fixed{base: newBase(name), value: value}
}

func (f *Fixed) Type() string { return TypeFixed }
func (f *Fixed) Reset()       { f.cache.Reset() }

func (f *Fixed) Value(t float64) float64 {
	return f.eval(t, func(float64) float64 { return f.value })
}

func fixedFromAttributes(r *attr.Reader) (*Fixed, error) {
	f := &Fixed{}
	f.read(r)
	f.value = r.Float("Value")
	if err := r.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fixed) Attributes(set attr.Setter) {
	f.write(set, TypeFixed)
	set.Set("Value", attr.FormatFloat(f.value))
}
