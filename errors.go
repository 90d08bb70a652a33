package authcore

import "errors"

var (
	// ErrEmailInUse is returned by Signup when an account with the normalized
	// email already exists.
	ErrEmailInUse = errors.New("email already in use")
	// ErrWeakPassword is returned when a password fails the strength policy:
	// at least 8 characters with one lowercase letter, one uppercase letter,
	// and one digit. Enforced at signup and at reset redemption.
	ErrWeakPassword = errors.New("password does not meet strength policy")
	// ErrInvalidCredentials is returned by Login for a wrong password or an
	// unknown email. The two cases are intentionally indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned by Login while the account's lock window
	// is still open, regardless of credential correctness.
	ErrAccountLocked = errors.New("account locked")
	// ErrInvalidTokenType is returned by ResetPassword when the presented
	// token carries a kind other than password-reset.
	ErrInvalidTokenType = errors.New("invalid token type")
	// ErrTokenExpired is returned by ResetPassword for a token whose
	// signature verifies but whose lifetime has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken is returned by ResetPassword for malformed or wrongly
	// signed tokens, and for valid tokens that no longer match the copy
	// stored on the account (replay of a consumed or superseded token).
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned by ResetPassword when the token's subject
	// no longer resolves to an account. Never returned by
	// RequestPasswordReset, which must not reveal account existence.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned by VerifyToken for any malformed,
	// unsigned, expired, or non-session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRoleInvalid is returned by Signup for roles outside the
	// self-service enumeration. Privileged roles are unreachable here.
	ErrRoleInvalid = errors.New("invalid account role")
	// ErrEngineNotReady is returned when an Engine is used before required
	// collaborators were wired through the Builder.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrStoreUnavailable wraps unexpected account-store failures so they
	// stay distinct from the recoverable taxonomy above.
	ErrStoreUnavailable = errors.New("account store unavailable")
	// ErrDeliveryFailed wraps a reset-email delivery failure. The persisted
	// reset token is rolled back before this is returned; if the rollback
	// itself fails, the wrapped message carries both failures and the
	// undeliverable token is still persisted.
	ErrDeliveryFailed = errors.New("reset email delivery failed")
)
