// Package cache implements the client-side view cache of server state.
//
// # Overview
//
// Cache[V] maps a string key to the last value fetched for it and derives a
// status for every entry:
//
//   - Fresh: the value belongs to the current generation and is younger than TTL
//   - Stale: invalidated, expired, failed, or primed from a snapshot
//   - Fetching: a request for the current generation is in flight
//
// Reads of Fresh entries are served from memory. Everything else triggers at
// most one fetch per key and generation, shared by all concurrent callers
// through singleflight. A caller that gives up waiting does not cancel the
// shared request.
//
// Invalidation bumps an entry's generation. The old value stays readable
// (Peek) so views can keep displaying it, but the next Get starts a new
// flight. A flight that was started before the invalidation may still land;
// it never makes the entry Fresh and never replaces a value from a newer
// generation.
//
// Collection specializes the cache for file listing pages keyed by
// models.QuerySpec.
package cache
