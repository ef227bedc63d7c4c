// Package scene reads and writes declarative model documents and assembles
// them into a simulation model.
//
// A document is an ordered list of tagged attribute sets. Build resolves
// them in dependency order (GLOBAL, BODY, MARKER, JOINT, STRAP, MUSCLE,
// DRIVER) so an element may only reference elements of an earlier tag.
// Dump re-emits every object's full attribute set, so a built model can be
// written back out and rebuilt.
package scene
