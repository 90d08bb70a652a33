// Package password implements password hashing, verification, and the
// strength policy, with Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The [Hasher] supports transparent parameter upgrades: if a stored hash was
// produced with weaker parameters, [Hasher.NeedsUpgrade] returns true so the
// caller can re-hash on the next successful verification.
//
// # Architecture boundaries
//
// This package owns hashing, verification, and the [CheckStrength]
// composition policy. When and where the policy applies (signup, reset
// redemption) is the Engine's decision.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
