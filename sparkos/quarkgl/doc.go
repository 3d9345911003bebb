// Package quarkgl is a small software 3D renderer.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Clipping → Rasterization → Frame output.
//
// The renderer draws into a caller-provided Target and does not allocate in
// the render hot path once its depth buffer has grown to the target size.
// Meshes may be split into groups, each with its own texture; textured
// triangles use perspective-correct coordinates and flat lighting.
package quarkgl
