// Package config defines the application configuration structure and handles
// loading settings from environment variables and optional config files.
// Environment variables use the SKETCHFORGE_ prefix and take precedence over
// file-based values.
package config
