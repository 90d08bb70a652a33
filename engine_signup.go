package authcore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/veldtlabs/authcore/password"
)

// Signup creates an account and returns it together with a freshly issued
// session token.
//
// The email is normalized (lowercased, trimmed) before the uniqueness
// check, so identity is case-insensitive. Roles are restricted to
// [Config.Account.SelfServiceRoles]; privileged roles cannot be obtained
// here. New accounts start unverified.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if e == nil || e.store == nil || e.passwordHash == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	role := req.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}
	if !e.selfServiceRole(role) {
		e.emitAudit(ctx, auditEventSignupFailure, false, "", email, ErrRoleInvalid, func() map[string]string {
			return map[string]string{
				"reason": "role_not_self_service",
				"role":   string(role),
			}
		})
		return nil, ErrRoleInvalid
	}

	if err := password.CheckStrength(req.Password); err != nil {
		e.emitAudit(ctx, auditEventSignupFailure, false, "", email, ErrWeakPassword, nil)
		return nil, ErrWeakPassword
	}

	existing, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		e.metricInc(MetricSignupDuplicate)
		e.emitAudit(ctx, auditEventSignupDuplicate, false, "", email, ErrEmailInUse, nil)
		return nil, ErrEmailInUse
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		Verified:     false,
		CreatedAt:    e.now().UTC(),
	}

	if err := e.store.Save(ctx, acct); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tok, err := e.issueSession(acct)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, acct.ID, email, nil, func() map[string]string {
		return map[string]string{
			"role": string(acct.Role),
		}
	})

	return &AuthResult{Token: tok, Account: acct}, nil
}

func (e *Engine) selfServiceRole(role Role) bool {
	for _, allowed := range e.config.Account.SelfServiceRoles {
		if role == allowed {
			return true
		}
	}
	return false
}
