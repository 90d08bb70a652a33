// Package middleware exposes HTTP adapters for request authentication
// built on top of authcore.Engine token verification.
//
// [Guard] reads the Authorization header, calls Engine.VerifyToken, and
// injects the verified identity into the request context where
// [IdentityFromContext] recovers it. [RequireRole] layers a role check on
// top.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the Engine).
//   - Touch the account store.
//   - Make authorization decisions beyond pass/reject of the verified role.
package middleware
