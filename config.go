package authcore

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// DefaultSigningSecret is the insecure development placeholder. Validate
// rejects it when [SecurityConfig.ProductionMode] is set.
const DefaultSigningSecret = "authcore-insecure-dev-secret"

// Config defines the engine's full configuration surface. Instances are
// configured during initialization and treated as immutable afterwards.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Lockout  LockoutConfig
	Reset    ResetConfig
	Account  AccountConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the signing secret and the session-token lifetime.
// SigningSecret is loaded once at construction and never re-read. The
// reset-token lifetime is [ResetConfig.TTL]; one knob governs both the
// token's embedded expiry and the stored wall-clock expiry.
type TokenConfig struct {
	SigningSecret []byte
	SessionTTL    time.Duration
	Issuer        string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the argon2id work factor, fixed at construction.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig controls the per-account failed-attempt lock. The counter
// and lock timestamp are persisted on the account record, so the lock
// survives process restarts.
type LockoutConfig struct {
	Threshold int
	Window    time.Duration
}

/*
====================================
RESET CONFIG
====================================
*/

// ResetConfig controls the password-reset token protocol.
type ResetConfig struct {
	TTL time.Duration
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// AccountConfig restricts what self-service signup can create. Privileged
// roles are reachable only through an external management path.
type AccountConfig struct {
	DefaultRole      Role
	SelfServiceRoles []Role
}

/*
====================================
AUDIT / METRICS / SECURITY
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// SecurityConfig carries deploy-posture switches.
type SecurityConfig struct {
	ProductionMode bool
}

// DefaultConfig returns the configuration the engine runs with when the
// caller overrides nothing. The signing secret is a development placeholder.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			SigningSecret: []byte(DefaultSigningSecret),
			SessionTTL:    2 * time.Hour,
			Issuer:        "authcore",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Lockout: LockoutConfig{
			Threshold: 5,
			Window:    15 * time.Minute,
		},
		Reset: ResetConfig{
			TTL: time.Hour,
		},
		Account: AccountConfig{
			DefaultRole:      RoleUser,
			SelfServiceRoles: []Role{RoleUser},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// ConfigFromEnv builds a Config by overlaying recognized environment
// variables on the defaults:
//
//	AUTHCORE_SIGNING_SECRET          signing secret (insecure default otherwise)
//	AUTHCORE_LOCKOUT_THRESHOLD       failed logins before lock (default 5)
//	AUTHCORE_LOCKOUT_WINDOW_MINUTES  lock duration in minutes (default 15)
//	AUTHCORE_RESET_TTL_HOURS         reset-token lifetime in hours (default 1)
//	AUTHCORE_PRODUCTION              "true" enables production validation
//
// Unset or unparsable values keep their defaults.
func ConfigFromEnv() Config {
	cfg := defaultConfig()

	if v := os.Getenv("AUTHCORE_SIGNING_SECRET"); v != "" {
		cfg.Token.SigningSecret = []byte(v)
	}
	if v := os.Getenv("AUTHCORE_LOCKOUT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Lockout.Threshold = n
		}
	}
	if v := os.Getenv("AUTHCORE_LOCKOUT_WINDOW_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Lockout.Window = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("AUTHCORE_RESET_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Reset.TTL = time.Duration(n) * time.Hour
		}
	}
	if v := os.Getenv("AUTHCORE_PRODUCTION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Security.ProductionMode = b
		}
	}

	return cfg
}

func applyDefaults(cfg Config) Config {
	def := defaultConfig()

	if len(cfg.Token.SigningSecret) == 0 {
		cfg.Token.SigningSecret = def.Token.SigningSecret
	}
	if cfg.Token.SessionTTL == 0 {
		cfg.Token.SessionTTL = def.Token.SessionTTL
	}
	if cfg.Token.Issuer == "" {
		cfg.Token.Issuer = def.Token.Issuer
	}
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = def.Password
	}
	if cfg.Lockout.Threshold == 0 {
		cfg.Lockout.Threshold = def.Lockout.Threshold
	}
	if cfg.Lockout.Window == 0 {
		cfg.Lockout.Window = def.Lockout.Window
	}
	if cfg.Reset.TTL == 0 {
		cfg.Reset.TTL = def.Reset.TTL
	}
	if cfg.Account.DefaultRole == "" {
		cfg.Account.DefaultRole = def.Account.DefaultRole
	}
	if len(cfg.Account.SelfServiceRoles) == 0 {
		cfg.Account.SelfServiceRoles = def.Account.SelfServiceRoles
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}

	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg

	out.Token.SigningSecret = append([]byte(nil), cfg.Token.SigningSecret...)
	out.Account.SelfServiceRoles = append([]Role(nil), cfg.Account.SelfServiceRoles...)

	return out
}

// Validate checks the configuration for internal consistency. It is called
// by [Builder.Build] after defaults are applied.
func (c *Config) Validate() error {
	if len(c.Token.SigningSecret) == 0 {
		return errors.New("Token SigningSecret must not be empty")
	}
	if c.Security.ProductionMode && string(c.Token.SigningSecret) == DefaultSigningSecret {
		return errors.New("Token SigningSecret must be overridden in production mode")
	}
	if c.Token.SessionTTL <= 0 {
		return errors.New("Token SessionTTL must be > 0")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	// Lockout
	if c.Lockout.Threshold <= 0 {
		return errors.New("Lockout Threshold must be > 0")
	}
	if c.Lockout.Window <= 0 {
		return errors.New("Lockout Window must be > 0")
	}

	// Reset
	if c.Reset.TTL <= 0 {
		return errors.New("Reset TTL must be > 0")
	}

	// Account
	if c.Account.DefaultRole == "" {
		return errors.New("Account DefaultRole must not be empty")
	}
	defaultAllowed := false
	for _, role := range c.Account.SelfServiceRoles {
		if role == "" {
			return errors.New("Account SelfServiceRoles must not contain empty roles")
		}
		if role == c.Account.DefaultRole {
			defaultAllowed = true
		}
	}
	if !defaultAllowed {
		return errors.New("Account DefaultRole must be listed in SelfServiceRoles")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
