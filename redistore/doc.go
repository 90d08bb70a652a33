// Package redistore adapts a Redis instance into the engine's
// authcore.AccountStore collaborator.
//
// The persistence engine stays external: this package is only the JSON
// record adapter over GET/SET plus an email index key. Failed-login
// counters go through the same whole-record write as every other field, so
// two concurrent failures for one account can collapse into a single
// increment; callers needing exact counting should move the counter to a
// store-side INCR.
package redistore
