package authcore

import (
	"time"

	"github.com/veldtlabs/authcore/password"
	"github.com/veldtlabs/authcore/token"
)

// Engine is the account authentication core. Construct it through
// [Builder.Build]; after that every method is safe for concurrent use. All
// durable state lives behind the [AccountStore] collaborator.
type Engine struct {
	config       Config
	store        AccountStore
	mailer       ResetMailer
	passwordHash *password.Hasher
	tokens       *token.Manager
	audit        *auditDispatcher
	metrics      *Metrics

	now func() time.Time
}

// Close flushes and stops the audit dispatcher. The Engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditDroppedByType breaks the dropped-event count down per event type.
func (e *Engine) AuditDroppedByType() map[string]uint64 {
	if e == nil || e.audit == nil {
		return map[string]uint64{}
	}
	return e.audit.DroppedByType()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// VerifyToken verifies a session token and returns the caller identity it
// carries. Any malformed, unsigned, expired, or non-session token fails
// [ErrUnauthorized].
//
// This is the hot path used by request-authentication middleware: pure
// signature and expiry checks, no store round-trips, no revocation list.
// Compromise mitigation relies on the short session TTL.
func (e *Engine) VerifyToken(tokenStr string) (Identity, error) {
	if e == nil || e.tokens == nil {
		return Identity{}, ErrEngineNotReady
	}

	claims, err := e.tokens.VerifySession(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenVerifyFailure)
		return Identity{}, ErrUnauthorized
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   Role(claims.Role),
	}, nil
}

// issueSession signs a session token for acct, defaulting the role to the
// configured baseline when the record predates role assignment.
func (e *Engine) issueSession(acct *Account) (string, error) {
	role := acct.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}
	return e.tokens.IssueSession(acct.ID, acct.Email, string(role))
}
