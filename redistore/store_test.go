package redistore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authcore "github.com/veldtlabs/authcore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, "actest")
}

func TestSaveAndFindRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lockUntil := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)
	acct := &authcore.Account{
		ID:           "u1",
		Email:        "alice@x.com",
		Name:         "Alice",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         authcore.RoleUser,
		FailedLogins: 3,
		LockUntil:    &lockUntil,
		Reset: &authcore.PendingReset{
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
	}

	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	byID, err := store.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if byID == nil {
		t.Fatal("expected account by ID")
	}
	if byID.FailedLogins != 3 || byID.LockUntil == nil || !byID.LockUntil.Equal(lockUntil) {
		t.Fatalf("lockout state did not round-trip: %+v", byID)
	}
	if byID.Reset == nil || byID.Reset.Token != "tok" {
		t.Fatalf("reset pair did not round-trip: %+v", byID.Reset)
	}

	byEmail, err := store.FindByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u1" {
		t.Fatalf("expected account by email, got %+v", byEmail)
	}
}

func TestFindByEmailNormalizes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acct := &authcore.Account{ID: "u2", Email: "bob@x.com", Role: authcore.RoleUser}
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	found, err := store.FindByEmail(ctx, "  BOB@X.COM ")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if found == nil || found.ID != "u2" {
		t.Fatalf("expected normalized lookup to find u2, got %+v", found)
	}
}

func TestAbsentAccountsReturnNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	byEmail, err := store.FindByEmail(ctx, "nobody@x.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if byEmail != nil {
		t.Fatalf("expected nil for unknown email, got %+v", byEmail)
	}

	byID, err := store.FindByID(ctx, "missing")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if byID != nil {
		t.Fatalf("expected nil for unknown ID, got %+v", byID)
	}
}

func TestSaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acct := &authcore.Account{ID: "u3", Email: "carol@x.com", Role: authcore.RoleUser}
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	acct.FailedLogins = 4
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	found, err := store.FindByID(ctx, "u3")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if found.FailedLogins != 4 {
		t.Fatalf("expected counter update to persist, got %d", found.FailedLogins)
	}
}

func TestSaveRejectsMissingID(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(context.Background(), &authcore.Account{Email: "x@x.com"}); err == nil {
		t.Fatal("expected error for account without ID")
	}
}
