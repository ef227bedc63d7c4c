// Package attr is the key/value boundary between declarative model
// documents and the objects built from them.
package attr

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrMissing  = errors.New("attribute missing")
	ErrInvalid  = errors.New("attribute invalid")
	ErrNotFound = errors.New("not found")
)

// Store is a read-only attribute source.
type Store interface {
	Get(name string) (string, bool)
}

// Setter receives the attributes an object re-emits for persistence.
type Setter interface {
	Set(name, value string)
}

// Map is the in-memory Store and Setter.
type Map map[string]string

func (m Map) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m Map) Set(name, value string) { m[name] = value }

// Keys returns the attribute names in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Error names the element, its ID and the offending field.
type Error struct {
	Tag   string
	ID    string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s %v", e.Tag, e.Field, e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s ID=%q %v", e.Tag, e.ID, e.Err)
	}
	return fmt.Sprintf("%s ID=%q %s %v", e.Tag, e.ID, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error for a reference or consistency failure found
// after the attributes themselves parsed.
func Errorf(tag, id, field string, err error) error {
	return &Error{Tag: tag, ID: id, Field: field, Err: err}
}
