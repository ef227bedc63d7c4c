package model

import "sort"

// Dependent is anything that reads marker geometry, e.g. a joint or strap.
type Dependent interface {
	Name() string
}

// DependencyIndex maps each marker to the consumers that reference it.
// It is bookkeeping only and never owns or frees its entries.
type DependencyIndex struct {
	byMarker map[*Marker]map[Dependent]struct{}
}

func NewDependencyIndex() *DependencyIndex {
	return &DependencyIndex{byMarker: make(map[*Marker]map[Dependent]struct{})}
}

// Register replaces whatever markers dep was previously registered on.
func (d *DependencyIndex) Register(dep Dependent, markers ...*Marker) {
	d.Remove(dep)
	for _, m := range markers {
		if m == nil {
			continue
		}
		set, ok := d.byMarker[m]
		if !ok {
			set = make(map[Dependent]struct{})
			d.byMarker[m] = set
		}
		set[dep] = struct{}{}
	}
}

func (d *DependencyIndex) Remove(dep Dependent) {
	for m, set := range d.byMarker {
		delete(set, dep)
		if len(set) == 0 {
			delete(d.byMarker, m)
		}
	}
}

// Dependents returns the consumers of m sorted by name.
func (d *DependencyIndex) Dependents(m *Marker) []Dependent {
	set := d.byMarker[m]
	out := make([]Dependent, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Markers returns the markers dep is registered on, sorted by name.
func (d *DependencyIndex) Markers(dep Dependent) []*Marker {
	var out []*Marker
	for m, set := range d.byMarker {
		if _, ok := set[dep]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
