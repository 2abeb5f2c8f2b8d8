// Package task implements the asynchronous task core: the closed task type
// set with per-type validators and handlers, the terminal result envelopes,
// the worker execution unit that runs provider calls off the request path,
// and the worker pool that consumes the distributed queue.
package task
