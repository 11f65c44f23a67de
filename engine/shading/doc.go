// Package shading is the per-pixel math shared by both renderer backends: the geometry
// buffer texel encoding and its tagged decode, shadow projection with percentage-closer
// filtering, slope-scaled bias, attenuation and the Blinn-Phong light term.
//
// The WGSL lighting and forward shaders evaluate the same expressions in the same order,
// so a CPU-rendered frame is the reference for the GPU one.
package shading
