// Package generation defines the boundary between the task execution core
// and the external generative-AI providers, following the hexagonal
// architecture pattern: provider capabilities are interfaces returning plain
// result structs, and every provider failure is classified into a small
// error taxonomy at this boundary.
package generation
