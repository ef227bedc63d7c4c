package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaitsim/internal/attr"
)

const (
	TagGlobal = "GLOBAL"
	TagBody   = "BODY"
	TagMarker = "MARKER"
	TagJoint  = "JOINT"
	TagStrap  = "STRAP"
	TagMuscle = "MUSCLE"
	TagDriver = "DRIVER"
)

// buildOrder is the order elements are resolved in.
var buildOrder = []string{TagGlobal, TagBody, TagMarker, TagJoint, TagStrap, TagMuscle, TagDriver}

var (
	ErrUnknownTag  = errors.New("unknown element tag")
	ErrDuplicateID = errors.New("duplicate ID")
	ErrMissingTag  = errors.New("element has no tag")
)

type Element struct {
	Tag        string   `yaml:"tag"`
	Attributes attr.Map `yaml:"attributes"`
}

type Document struct {
	Name     string    `yaml:"name,omitempty"`
	Elements []Element `yaml:"elements"`
}

// Add appends an element built from attrs.
func (d *Document) Add(tag string, attrs attr.Map) {
	d.Elements = append(d.Elements, Element{Tag: tag, Attributes: attrs})
}

// ByTag returns the elements carrying tag in document order.
func (d *Document) ByTag(tag string) []Element {
	var out []Element
	for _, e := range d.Elements {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

func (d *Document) validate() error {
	known := make(map[string]bool, len(buildOrder))
	for _, t := range buildOrder {
		known[t] = true
	}
	for i := range d.Elements {
		e := &d.Elements[i]
		if e.Tag == "" {
			return fmt.Errorf("element %d: %w", i, ErrMissingTag)
		}
		if !known[e.Tag] {
			return fmt.Errorf("element %d: %w %q", i, ErrUnknownTag, e.Tag)
		}
		if e.Attributes == nil {
			e.Attributes = attr.Map{}
		}
	}
	return nil
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func Save(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
