// Package service contains the task dispatcher and status query service:
// the application layer between the HTTP handlers and the task core. It
// validates submissions against the task registry, assigns task identities,
// enqueues work, and answers one-shot status queries with the two-tier
// result-store-then-queue lookup.
package service
