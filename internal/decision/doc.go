// Package decision implements the decision store: the durable set of
// liked/disliked classifications that drives feed exclusion.
//
// Reads are served from an in-memory mirror hydrated once per user from the
// key-value store. Mutations apply to the mirror immediately and schedule an
// asynchronous write-through; a per-list coalescing flusher guarantees the
// persisted payload always reflects the latest in-memory state. Persistence
// failures are logged and counted, never rolled back.
package decision
