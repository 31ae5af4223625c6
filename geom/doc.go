// Package geom provides the small set of 2D primitives shared by the
// gridview packages: points, affine matrices, line segments and angle
// helpers.
//
// # Coordinate System
//
// Uses standard screen coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Matrix angles in radians, the degree helpers in degrees
//
// Model space is the pre-transform space grid geometry is generated in.
// Screen space is what a Matrix maps model space onto.
package geom
