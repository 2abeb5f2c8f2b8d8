// Package redis implements the event channel, result store, and work queue
// contracts on top of a shared go-redis client. One client is constructed at
// process start and injected into every adapter; each operation is atomic at
// single-key or single-channel granularity, so no extra locking is needed.
package redis
