// Package cache wraps a Redis key/value store behind a soft-failing adapter.
//
// # Failure Policy
//
// The adapter never surfaces backend errors to its callers. Every read
// reports a tagged [Outcome] — [Hit], [Miss], or [Unavailable] — and every
// write reports a success flag. A refused connection, a timeout, an
// undecodable payload, or a disabled cache all degrade to Unavailable/false,
// so the service keeps answering from the source of truth when Redis is
// down. This is a deliberate availability-over-consistency choice: cache
// unavailability may cost latency, never correctness.
//
// The one exception is [GetOrSet]: the producer it invokes on a miss is
// application code, and its errors propagate to the caller uncaught.
//
// # Serialization
//
// Values are stored as JSON. Values JSON cannot express fall back to their
// string form, so a round trip is structural rather than type-exact.
//
// # Timeouts
//
// Every operation runs under a short per-call timeout derived from the
// configured dial timeout, so a degraded backend cannot stall request
// latency. Cancelling the caller's context also cancels in-flight calls.
package cache
