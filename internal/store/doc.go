// Package store defines the result store contract: an expiring key-value
// mapping from task identity to the JSON-encoded terminal outcome. The store
// offers last-write-wins semantics per key and no multi-key transactions.
// The Redis implementation lives in internal/platform/redis.
package store
