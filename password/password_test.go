package password

import (
	"errors"
	"strings"
	"testing"
)

func secureConfig() Config {
	return Config{
		Memory:      65536,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewHasher(secureConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	hash, err := hasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}
	if strings.Contains(hash, "Abcdef12") {
		t.Fatal("digest must not contain the plaintext password")
	}

	ok, err := hasher.Verify("Abcdef12", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher, err := NewHasher(secureConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	hash, err := hasher.Hash("Correct-Passw0rd")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify("Wrong-Passw0rd", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher, err := NewHasher(secureConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	first, err := hasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct salts to produce distinct digests")
	}
}

func TestVerifyRejectsMalformedPHC(t *testing.T) {
	hasher, err := NewHasher(secureConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	}

	for _, encoded := range cases {
		if _, err := hasher.Verify("whatever", encoded); err == nil {
			t.Errorf("expected parse error for %q", encoded)
		}
	}
}

func TestNeedsUpgrade(t *testing.T) {
	weak := Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	weakHasher, err := NewHasher(weak)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	hash, err := weakHasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	strongHasher, err := NewHasher(secureConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	upgrade, err := strongHasher.NeedsUpgrade(hash)
	if err != nil {
		t.Fatalf("NeedsUpgrade error: %v", err)
	}
	if !upgrade {
		t.Fatal("expected weak-parameter hash to need upgrade")
	}

	current, err := strongHasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	upgrade, err = strongHasher.NeedsUpgrade(current)
	if err != nil {
		t.Fatalf("NeedsUpgrade error: %v", err)
	}
	if upgrade {
		t.Fatal("expected current-parameter hash to not need upgrade")
	}
}

func TestCheckStrength(t *testing.T) {
	valid := []string{"Abcdef12", "xY3aaaaa", "Password1", "A1b2C3d4e5"}
	for _, pw := range valid {
		if err := CheckStrength(pw); err != nil {
			t.Errorf("CheckStrength(%q) = %v, want nil", pw, err)
		}
	}

	weak := []string{
		"",
		"Ab1",      // too short
		"abcdefg1", // missing uppercase
		"ABCDEFG1", // missing lowercase
		"Abcdefgh", // missing digit
		"12345678", // digits only
	}
	for _, pw := range weak {
		err := CheckStrength(pw)
		if !errors.Is(err, ErrWeak) {
			t.Errorf("CheckStrength(%q) = %v, want ErrWeak", pw, err)
		}
	}
}

func TestNewHasherRejectsWeakParameters(t *testing.T) {
	bad := []Config{
		{Memory: 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{Memory: 65536, Time: 0, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{Memory: 65536, Time: 3, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Memory: 65536, Time: 3, Parallelism: 2, SaltLength: 8, KeyLength: 32},
		{Memory: 65536, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 8},
	}

	for i, cfg := range bad {
		if _, err := NewHasher(cfg); err == nil {
			t.Errorf("case %d: expected config validation error", i)
		}
	}
}
