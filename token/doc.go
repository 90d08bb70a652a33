// Package token manages issuance and verification of the engine's two
// signed credentials, session tokens and password-reset tokens, using
// HS256 with a process-wide secret and strict validation semantics.
package token
