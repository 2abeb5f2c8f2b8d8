// Package prompts holds the prompt text sent to the generative-AI providers
// and assembles multimodal chat messages from task parameters. It is pure
// payload construction: no network I/O and no provider dependencies.
package prompts
