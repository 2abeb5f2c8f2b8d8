// Package queue defines the contract against which the distributed work
// queue is driven: job submission, blocking consumption by worker processes,
// and the queue's own per-job execution-state record. Dispatch is
// at-least-once and non-revocable; once a job is enqueued it runs to
// completion or failure regardless of client presence.
package queue
