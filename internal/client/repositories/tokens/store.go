// Package tokens keeps the bearer token of the signed-in user.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/imagefeed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imagefeed/internal/dbx"
)

// Key is the metadata key the token is persisted under.
const Key = "bearer_token"

var ErrEmptyToken = errors.New("empty token")

// Store is a single-value cell holding the bearer token. Readers may call
// Token from any goroutine; they observe either the previous or the new value.
type Store interface {
	Token() (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// SQLiteStore persists the token in the metadata table and serves reads from
// memory.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // serialises writers
	current atomic.Pointer[string]
}

// NewSQLiteStore loads the persisted token, if any.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	v, ok, err := metadata.NewSQLiteRepository(db).Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if ok && len(v) > 0 {
		tok := string(v)
		s.current.Store(&tok)
	}
	return s, nil
}

func (s *SQLiteStore) Token() (string, bool) {
	p := s.current.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set overwrites the token. The in-memory value changes only after the write
// has been committed.
func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Set(ctx, Key, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.current.Store(&token)
	return nil
}

// Clear removes the token. The in-memory value is dropped even if the delete
// fails, so a failed logout never leaves the session usable.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(nil)
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, Key)
	})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Memory is a Store without persistence. It stands in for SQLiteStore in
// the service tests; the application always persists the token.
type Memory struct {
	current atomic.Pointer[string]
}

func (m *Memory) Token() (string, bool) {
	p := m.current.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (m *Memory) Set(_ context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.current.Store(&token)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.current.Store(nil)
	return nil
}
