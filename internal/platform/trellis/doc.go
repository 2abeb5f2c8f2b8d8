// Package trellis implements the image-to-3D mesh provider on the 302.ai
// Trellis submission API.
package trellis
