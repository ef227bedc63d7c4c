// Package wrap computes the paths of tensioned straps around cylindrical
// and spherical obstacles.
//
// Cylinder solvers work in a local frame whose Z axis is the cylinder axis.
// Looking down that axis the problem is a planar tangent-line construction;
// Z is then interpolated linearly along the unwound planar path. Wrapping
// follows the right-hand rule about +Z.
//
// Geometric infeasibility, such as an attachment point inside an obstacle,
// is reported through [Status] rather than an error.
package wrap
