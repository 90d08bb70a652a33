package authcore

import (
	"context"
	"sync"
	"testing"
)

// mockAccountStore keeps value copies so engine-side mutations only become
// visible through Save, matching real store semantics.
type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]Account
	emails   map[string]string
	saves    int

	findErr error
	saveErr error
	// saveErr applies only once this many saves have succeeded; zero means
	// every save fails.
	saveErrAfter int
}

func newMockStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: map[string]Account{},
		emails:   map[string]string{},
	}
}

func (s *mockAccountStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}

	id, ok := s.emails[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	acct := s.accounts[id]
	return &acct, nil
}

func (s *mockAccountStore) FindByID(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}

	acct, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acct, nil
}

func (s *mockAccountStore) Save(_ context.Context, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil && s.saves >= s.saveErrAfter {
		return s.saveErr
	}

	s.saves++
	s.accounts[acct.ID] = *acct
	s.emails[NormalizeEmail(acct.Email)] = acct.ID
	return nil
}

func (s *mockAccountStore) get(t *testing.T, id string) Account {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		t.Fatalf("account %q not in store", id)
	}
	return acct
}

func (s *mockAccountStore) put(acct Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
	s.emails[NormalizeEmail(acct.Email)] = acct.ID
}

func (s *mockAccountStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
}

func (s *mockAccountStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type sentMail struct {
	email string
	token string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) SendPasswordResetEmail(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, token: token})
	return nil
}

func (m *mockMailer) lastSent(t *testing.T) sentMail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		t.Fatal("no reset email was sent")
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fastTestConfig keeps argon2 at the validation floor so tests stay quick.
func fastTestConfig() Config {
	cfg := defaultConfig()
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	cfg.Token.SigningSecret = []byte("unit-test-signing-secret")
	return cfg
}

func newTestEngine(t *testing.T, store AccountStore, mailer ResetMailer) *Engine {
	t.Helper()

	b := New().WithConfig(fastTestConfig()).WithStore(store).WithMetricsEnabled(true)
	if mailer != nil {
		b = b.WithMailer(mailer)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustSignup(t *testing.T, e *Engine, email, pass string) *AuthResult {
	t.Helper()

	res, err := e.Signup(context.Background(), SignupRequest{Email: email, Password: pass})
	if err != nil {
		t.Fatalf("Signup(%q) error: %v", email, err)
	}
	return res
}
