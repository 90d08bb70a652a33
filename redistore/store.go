package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	authcore "github.com/veldtlabs/authcore"
)

// Store is an [authcore.AccountStore] over a Redis keyed-record store.
// Accounts are JSON values keyed by ID with a lowercase-email index key
// pointing back at the ID.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Store. prefix namespaces all keys; "ac" is used when empty.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) accountKey(id string) string {
	return s.prefix + ":acct:" + id
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":email:" + authcore.NormalizeEmail(email)
}

// FindByEmail resolves the email index, then loads the record.
// Returns (nil, nil) when no account matches.
func (s *Store) FindByEmail(ctx context.Context, email string) (*authcore.Account, error) {
	id, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get email index: %w", err)
	}

	return s.FindByID(ctx, id)
}

// FindByID loads an account record. Returns (nil, nil) when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*authcore.Account, error) {
	raw, err := s.redis.Get(ctx, s.accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get account: %w", err)
	}

	var acct authcore.Account
	if err := json.Unmarshal(raw, &acct); err != nil {
		return nil, fmt.Errorf("decode account record: %w", err)
	}

	return &acct, nil
}

// Save upserts the record and its email index in one pipeline. The whole
// record is written each time, so partial field changes (counters, lock
// timestamps, reset pairs) always persist.
func (s *Store) Save(ctx context.Context, acct *authcore.Account) error {
	if acct == nil || acct.ID == "" {
		return errors.New("account must have an ID")
	}

	raw, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account record: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.accountKey(acct.ID), raw, 0)
	pipe.Set(ctx, s.emailKey(acct.Email), acct.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save account: %w", err)
	}

	return nil
}
