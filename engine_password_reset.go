package authcore

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/veldtlabs/authcore/password"
	"github.com/veldtlabs/authcore/token"
)

// RequestPasswordReset issues a single-use reset token for the account
// behind email and hands it to the delivery collaborator.
//
// Unknown emails return nil with no observable state change: this path
// must never reveal whether an account exists. For known accounts the
// token and its wall-clock expiry are persisted on the record before
// delivery; if delivery fails the pair is rolled back and the failure is
// surfaced wrapped in [ErrDeliveryFailed], so no token is ever live that
// the user never received.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil || e.store == nil || e.tokens == nil || e.mailer == nil {
		return ErrEngineNotReady
	}

	email = NormalizeEmail(email)

	acct, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct == nil {
		return nil
	}

	tok, err := e.tokens.IssueReset(acct.ID, acct.Email)
	if err != nil {
		return err
	}

	acct.Reset = &PendingReset{
		Token:     tok,
		ExpiresAt: e.now().Add(e.config.Reset.TTL),
	}
	if err := e.store.Save(ctx, acct); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.mailer.SendPasswordResetEmail(ctx, acct.Email, tok); err != nil {
		acct.Reset = nil
		if rollbackErr := e.store.Save(ctx, acct); rollbackErr != nil {
			// The undeliverable token is still persisted; the caller needs
			// both halves of the condition.
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, acct.ID, email, ErrDeliveryFailed, nil)
			return fmt.Errorf("%w: %v (rollback failed: %v)", ErrDeliveryFailed, err, rollbackErr)
		}
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, acct.ID, email, ErrDeliveryFailed, nil)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, acct.ID, email, nil, nil)

	return nil
}

// ResetPassword redeems a reset token and installs newPassword.
//
// Signature validity alone never redeems: the presented token must also be
// byte-equal to the copy persisted on the account, which defeats replay of
// a consumed or superseded token. The stored expiry is authoritative over
// the token's embedded one; when it has passed, the pair is cleared so a
// later attempt with the same token fails [ErrInvalidToken] rather than
// [ErrTokenExpired]. A weak new password fails without consuming the
// token. Success also clears the lockout counters, since proving mailbox
// ownership un-sticks a locked account.
func (e *Engine) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	if e == nil || e.store == nil || e.passwordHash == nil || e.tokens == nil {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.VerifyReset(tokenStr)
	if err != nil {
		mapped := mapResetTokenError(err)
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", mapped, nil)
		return mapped
	}

	acct, err := e.store.FindByID(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct == nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, claims.Subject, claims.Email, ErrUserNotFound, nil)
		return ErrUserNotFound
	}

	if acct.Reset == nil || subtle.ConstantTimeCompare([]byte(acct.Reset.Token), []byte(tokenStr)) != 1 {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetReplay, false, acct.ID, acct.Email, ErrInvalidToken, nil)
		return ErrInvalidToken
	}

	if e.now().After(acct.Reset.ExpiresAt) {
		acct.Reset = nil
		if saveErr := e.store.Save(ctx, acct); saveErr != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, saveErr)
		}
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, acct.ID, acct.Email, ErrTokenExpired, nil)
		return ErrTokenExpired
	}

	if err := password.CheckStrength(newPassword); err != nil {
		// Token stays pending: a policy mistake must not cost the user
		// their only reset credential.
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, acct.ID, acct.Email, ErrWeakPassword, nil)
		return ErrWeakPassword
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}

	acct.PasswordHash = hash
	acct.Reset = nil
	acct.FailedLogins = 0
	acct.LockUntil = nil
	if err := e.store.Save(ctx, acct); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, acct.ID, acct.Email, nil, nil)

	return nil
}

func mapResetTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, token.ErrWrongKind):
		return ErrInvalidTokenType
	default:
		return ErrInvalidToken
	}
}
