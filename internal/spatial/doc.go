// Package spatial provides the vector and quaternion algebra shared by the
// rest of the simulator.
//
//   - [Vector3]: value-semantics 3D vector
//   - [Quaternion]: rotation stored as (N, X, Y, Z)
//
// Quaternions produced by this package are unit length. Callers that set
// components directly must call [Quaternion.Normalize] before rotating.
package spatial
