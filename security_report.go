package authcore

import "time"

// SecurityReport is a read-only snapshot of the engine's security posture,
// returned by [Engine.SecurityReport]. Useful for startup logging and
// deploy-time assertions.
type SecurityReport struct {
	ProductionMode   bool
	SigningAlgorithm string
	SessionTTL       time.Duration
	ResetTTL         time.Duration
	LockoutThreshold int
	LockoutWindow    time.Duration
	Argon2           PasswordConfigReport
	AuditActive      bool
	MetricsActive    bool
}

// PasswordConfigReport contains the argon2 parameters active in the engine.
type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// SecurityReport reports the engine's active security configuration.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		ProductionMode:   e.config.Security.ProductionMode,
		SigningAlgorithm: "HS256",
		SessionTTL:       e.config.Token.SessionTTL,
		ResetTTL:         e.config.Reset.TTL,
		LockoutThreshold: e.config.Lockout.Threshold,
		LockoutWindow:    e.config.Lockout.Window,
		Argon2: PasswordConfigReport{
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
			SaltLength:  e.config.Password.SaltLength,
			KeyLength:   e.config.Password.KeyLength,
		},
		AuditActive:   e.audit != nil,
		MetricsActive: e.metrics.Enabled(),
	}
}
