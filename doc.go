// Package authcore provides the account authentication and
// credential-lifecycle core: signup, login with brute-force lockout,
// argon2id password hashing, JWT session-token issuance, and a single-use
// password-reset token protocol.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the error taxonomy, and value types ([Account], [Identity], [AuthResult]).
// Durable state (failed-login counters, lock timestamps, pending reset
// pairs) lives on the [Account] record behind the caller-supplied
// [AccountStore]; the engine itself holds no mutable state beyond the
// signing secret loaded once at construction.
//
// # What this package must NOT do
//
//   - Implement persistence. [AccountStore] is a collaborator; redistore is
//     only an adapter over an external Redis instance.
//   - Deliver email. [ResetMailer] is a collaborator, and a delivery
//     failure rolls back the persisted reset token before surfacing.
//   - Reveal account existence through the reset-request path.
//
// # Performance contract
//
// VerifyToken is the hot path. It is pure CPU work, signature and expiry
// checks only with no store round-trips, so middleware can call it on every
// request. Login, Signup, and the reset operations each perform at most a
// handful of store calls plus one password-hash computation.
package authcore
