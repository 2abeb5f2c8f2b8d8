// Package ai302 implements the scene generation and editing provider on the
// 302.ai OpenAI-compatible chat completions API.
package ai302
