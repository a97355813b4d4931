// Package cache provides in-process caching with TTL expiration for
// materials listings and computed reports.
//
// Caches are constructed once at startup and injected into the API layer;
// nothing in the engine reaches for a global cache. Key features:
//   - MemoryStore keeps entries in a map guarded by a RWMutex
//   - GetOrCompute collapses concurrent identical computations with singleflight
//   - Configurable TTL via config file or environment variable
//   - SHA256-based cache keys over canonical JSON for deterministic lookups
//
// Entries live for the lifetime of the process only.
package cache
