package authcore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	engine := newTestEngine(t, newMockStore(), nil)

	for _, tok := range []string{"", "nope", "a.b.c"} {
		if _, err := engine.VerifyToken(tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("VerifyToken(%q) = %v, want ErrUnauthorized", tok, err)
		}
	}
}

func TestVerifyTokenRejectsResetTokens(t *testing.T) {
	store := newMockStore()
	mailer := &mockMailer{}
	engine := newTestEngine(t, store, mailer)
	mustSignup(t, engine, "a@x.com", "Abcdef12")

	if err := engine.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}

	// A reset token is a valid signature with the wrong kind; it must never
	// pass as a bearer credential.
	if _, err := engine.VerifyToken(mailer.lastSent(t).token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for reset token, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	engine := newTestEngine(t, newMockStore(), nil)
	res := mustSignup(t, engine, "a@x.com", "Abcdef12")

	otherCfg := fastTestConfig()
	otherCfg.Token.SigningSecret = []byte("a-different-process-secret")
	other, err := New().WithConfig(otherCfg).WithStore(newMockStore()).Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(other.Close)

	if _, err := other.VerifyToken(res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized across secrets, got %v", err)
	}
}

func TestNilEngineIsSafe(t *testing.T) {
	var engine *Engine

	if _, err := engine.VerifyToken("x"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.Login(context.Background(), "a@x.com", "pw"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	engine.Close()
	if engine.AuditDropped() != 0 {
		t.Fatal("expected zero dropped events on nil engine")
	}
}

func TestBuilderRequiresStore(t *testing.T) {
	if _, err := New().WithConfig(fastTestConfig()).Build(); err == nil {
		t.Fatal("expected Build to fail without a store")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithConfig(fastTestConfig()).WithStore(newMockStore())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestSecurityReport(t *testing.T) {
	engine := newTestEngine(t, newMockStore(), nil)

	report := engine.SecurityReport()
	if report.SigningAlgorithm != "HS256" {
		t.Fatalf("unexpected algorithm %q", report.SigningAlgorithm)
	}
	if report.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected session TTL %v", report.SessionTTL)
	}
	if report.LockoutThreshold != 5 || report.LockoutWindow != 15*time.Minute {
		t.Fatalf("unexpected lockout settings: %+v", report)
	}
	if !report.MetricsActive {
		t.Fatal("expected metrics active in test engine")
	}
}
