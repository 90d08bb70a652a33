package authcore

import (
	"context"
	"fmt"
	"time"
)

// Login authenticates an email/password pair and returns the account with
// a freshly issued session token.
//
// Unknown email and wrong password both fail [ErrInvalidCredentials]; the
// caller cannot tell them apart. While the account's lock window is open
// the attempt fails [ErrAccountLocked] before the password codec runs.
//
// The failed-attempt counter is read-modify-write against the store, so two
// simultaneous failures for the same account may collapse into one
// increment. The account still locks after a burst; a store-side atomic
// increment is the upgrade path for exact counting.
func (e *Engine) Login(ctx context.Context, email, pass string) (*AuthResult, error) {
	if e == nil || e.store == nil || e.passwordHash == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	email = NormalizeEmail(email)

	acct, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct == nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "unknown_email",
			}
		})
		return nil, ErrInvalidCredentials
	}

	now := e.now()

	if acct.LockUntil != nil && acct.LockUntil.After(now) {
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, auditEventAccountLocked, false, acct.ID, email, ErrAccountLocked, func() map[string]string {
			return map[string]string{
				"lock_until": acct.LockUntil.UTC().Format(time.RFC3339),
			}
		})
		return nil, ErrAccountLocked
	}

	ok, err := e.passwordHash.Verify(pass, acct.PasswordHash)
	if err != nil {
		// A digest that cannot be parsed is a corrupted record, not a wrong
		// password; it must not count against the lockout budget.
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		acct.FailedLogins++
		if acct.FailedLogins >= e.config.Lockout.Threshold {
			lockUntil := now.Add(e.config.Lockout.Window)
			acct.LockUntil = &lockUntil
		}
		// The counter must be durable before the caller hears about the
		// failure, or a crash would forget the attempt.
		if saveErr := e.store.Save(ctx, acct); saveErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, saveErr)
		}

		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, acct.ID, email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"failed_logins": fmt.Sprintf("%d", acct.FailedLogins),
			}
		})
		return nil, ErrInvalidCredentials
	}

	acct.FailedLogins = 0
	acct.LockUntil = nil
	if err := e.store.Save(ctx, acct); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tok, err := e.issueSession(acct)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, acct.ID, email, nil, nil)

	return &AuthResult{Token: tok, Account: acct}, nil
}
