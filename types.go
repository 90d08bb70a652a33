package authcore

import (
	"context"
	"strings"
	"time"
)

// Role is the access level carried on an account and embedded in session
// tokens. Roles outside [Config.Account.SelfServiceRoles] can only be set by
// a privileged management path outside this engine.
type Role string

const (
	// RoleUser is the baseline role assigned to self-service signups.
	RoleUser Role = "user"
	// RoleModerator is a privileged role, unreachable through Signup.
	RoleModerator Role = "moderator"
	// RoleAdmin is a privileged role, unreachable through Signup.
	RoleAdmin Role = "admin"
)

// PendingReset is the persisted copy of an outstanding password-reset token
// and its wall-clock expiry. The two fields always travel together: an
// account either carries a full pair or a nil *PendingReset, never one half.
type PendingReset struct {
	Token     string
	ExpiresAt time.Time
}

// Account is the durable record exchanged with the [AccountStore]
// collaborator. Lockout and reset state live here rather than in process
// memory so they survive restarts.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Verified     bool

	FailedLogins int
	LockUntil    *time.Time

	Reset *PendingReset

	CreatedAt time.Time
}

// Identity is the caller identity decoded from a verified session token.
// It is what request-authentication middleware attaches to the request
// context for every downstream module.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// SignupRequest is the input for [Engine.Signup]. Email and Password are
// required; Role defaults to [Config.Account.DefaultRole] when empty.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

// AuthResult is returned by [Engine.Signup] and [Engine.Login]. Token is a
// freshly issued session token whose subject is Account.ID.
type AuthResult struct {
	Token   string
	Account *Account
}

// AccountStore is the external keyed-record store the engine reads and
// writes account state through. Implementations return (nil, nil) from the
// finders when no account matches. Save has upsert semantics and must
// persist partial field changes (counters, lock timestamps, reset pairs).
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// ResetMailer is the outbound delivery collaborator for password-reset
// tokens. A returned error makes the engine roll back the persisted reset
// pair before surfacing the failure.
type ResetMailer interface {
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// NormalizeEmail lowercases and trims an email so lookups are
// case-insensitive everywhere the engine touches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
