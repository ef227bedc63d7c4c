// Package model holds the articulated structure of a simulation: the
// simulation-wide [Global] defaults, rigid [Body] handles, [Marker]
// reference frames and [Joint] constraints, plus the [DependencyIndex]
// recording which consumers reference which markers.
//
// A nil *Body denotes the immovable world frame throughout.
package model
