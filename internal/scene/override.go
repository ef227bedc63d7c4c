package scene

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/san-kum/gaitsim/internal/attr"
)

var ErrNoElement = errors.New("no such element")

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Name: d.Name, Elements: make([]Element, len(d.Elements))}
	for i, e := range d.Elements {
		out.Elements[i] = Element{Tag: e.Tag, Attributes: maps.Clone(e.Attributes)}
	}
	return out
}

// Set assigns one attribute addressed by path. The path is
// TAG/ID/Attribute, or GLOBAL/Attribute for the global element, which is
// created if the document has none.
func (d *Document) Set(path, value string) error {
	parts := strings.Split(path, "/")
	tag := strings.ToUpper(parts[0])
	switch {
	case tag == TagGlobal && len(parts) == 2:
		for i := range d.Elements {
			if d.Elements[i].Tag == TagGlobal {
				d.Elements[i].Attributes.Set(parts[1], value)
				return nil
			}
		}
		d.Elements = append([]Element{{Tag: TagGlobal, Attributes: attr.Map{parts[1]: value}}}, d.Elements...)
		return nil
	case tag != TagGlobal && len(parts) == 3:
		for i := range d.Elements {
			e := &d.Elements[i]
			if e.Tag == tag && e.Attributes["ID"] == parts[1] {
				e.Attributes.Set(parts[2], value)
				return nil
			}
		}
		return fmt.Errorf("%w: %s %s", ErrNoElement, tag, parts[1])
	}
	return fmt.Errorf("invalid attribute path %q", path)
}

// Apply sets every override on a copy of d.
func (d *Document) Apply(overrides map[string]string) (*Document, error) {
	out := d.Clone()
	for path, value := range overrides {
		if err := out.Set(path, value); err != nil {
			return nil, err
		}
	}
	return out, nil
}
