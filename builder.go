package authcore

import (
	"errors"
	"time"

	"github.com/veldtlabs/authcore/password"
	"github.com/veldtlabs/authcore/token"
)

// Builder assembles an [Engine]. It performs no I/O; construction is
// allocation-only until [Builder.Build]. A Builder is single-use.
type Builder struct {
	config Config

	store  AccountStore
	mailer ResetMailer
	sink   AuditSink

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration. Zero-valued fields are
// filled from the defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore wires the account-record collaborator. Required.
func (b *Builder) WithStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithMailer wires the reset-email delivery collaborator. Required for the
// password-reset flow; engines without a mailer still serve signup, login,
// and token verification.
func (b *Builder) WithMailer(mailer ResetMailer) *Builder {
	b.mailer = mailer
	return b
}

// WithAuditSink wires an [AuditSink] and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, constructs the codec and token
// manager, and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := applyDefaults(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("account store is required")
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret:     cfg.Token.SigningSecret,
		SessionTTL: cfg.Token.SessionTTL,
		ResetTTL:   cfg.Reset.TTL,
		Issuer:     cfg.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Engine{
		config:       cfg,
		store:        b.store,
		mailer:       b.mailer,
		passwordHash: hasher,
		tokens:       tokens,
		audit:        newAuditDispatcher(cfg.Audit, b.sink),
		metrics:      NewMetrics(cfg.Metrics),
		now:          time.Now,
	}, nil
}
