package authcore

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSignupSuccess        = "signup_success"
	auditEventSignupFailure        = "signup_failure"
	auditEventSignupDuplicate      = "signup_duplicate"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventAccountLocked        = "account_locked"
	auditEventPasswordResetRequest = "password_reset_request"
	auditEventPasswordResetConfirm = "password_reset_confirm"
	auditEventPasswordResetReplay  = "password_reset_replay"
)

type auditErrorCode string

const (
	auditErrEmailInUse         auditErrorCode = "email_in_use"
	auditErrWeakPassword       auditErrorCode = "weak_password"
	auditErrInvalidCredentials auditErrorCode = "invalid_credentials"
	auditErrAccountLocked      auditErrorCode = "account_locked"
	auditErrInvalidTokenType   auditErrorCode = "invalid_token_type"
	auditErrTokenExpired       auditErrorCode = "token_expired"
	auditErrInvalidToken       auditErrorCode = "invalid_token"
	auditErrUserNotFound       auditErrorCode = "user_not_found"
	auditErrRoleInvalid        auditErrorCode = "role_invalid"
	auditErrDeliveryFailed     auditErrorCode = "delivery_failed"
	auditErrUnavailable        auditErrorCode = "backend_unavailable"
	auditErrInternal           auditErrorCode = "internal_error"
)

func errorCode(err error) auditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return auditErrEmailInUse
	case errors.Is(err, ErrWeakPassword):
		return auditErrWeakPassword
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrAccountLocked):
		return auditErrAccountLocked
	case errors.Is(err, ErrInvalidTokenType):
		return auditErrInvalidTokenType
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrRoleInvalid):
		return auditErrRoleInvalid
	case errors.Is(err, ErrDeliveryFailed):
		return auditErrDeliveryFailed
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := errorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}
