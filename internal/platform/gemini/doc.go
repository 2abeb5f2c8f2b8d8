// Package gemini implements the image generation provider on Google's
// Gemini API via the google.golang.org/genai client.
package gemini
