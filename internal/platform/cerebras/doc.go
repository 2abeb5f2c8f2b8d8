// Package cerebras implements the synchronous scene-code object extraction
// provider on the Cerebras chat completions API.
package cerebras
