package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/linguist/internal/logger"
	"github.com/example/linguist/pkg/models"
)

// StorageKey is the fixed key of the persisted aggregate
const StorageKey = "linguist_pro_db"

// errUnchanged tells Mutate that nothing needs to be written
var errUnchanged = errors.New("aggregate unchanged")

// Store owns the persisted aggregate. Every write replaces the whole record.
type Store struct {
	db  *sqlx.DB
	log *logger.Logger
	now func() time.Time

	// serializes read-modify-write cycles within the process
	mu sync.Mutex
	// taken before mu is released so notifications follow write order
	notifyMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]func(models.AppState)
	nextSub     int
}

// NewStore creates a store on top of an initialized database
func NewStore(db *sqlx.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		db:          db,
		log:         log.With("component", "store"),
		now:         time.Now,
		subscribers: make(map[int]func(models.AppState)),
	}
}

// SetClock replaces the time source used for createdAt stamps
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Load returns the current aggregate, or the empty default when nothing was saved
func (s *Store) Load(ctx context.Context) (models.AppState, error) {
	var raw string
	query := s.db.Rebind("SELECT value FROM kv_store WHERE key = ?")
	err := s.db.GetContext(ctx, &raw, query, StorageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EmptyState(), nil
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to load state: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.AppState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	state.Normalize()
	return state, nil
}

// Save overwrites the whole aggregate
func (s *Store) Save(ctx context.Context, state models.AppState) error {
	s.mu.Lock()
	if err := s.write(ctx, state); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(state)
	return nil
}

// Mutate loads the aggregate, applies fn and writes the result back
func (s *Store) Mutate(ctx context.Context, fn func(state *models.AppState) error) error {
	s.mu.Lock()
	state, changed, err := s.mutate(ctx, fn)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(state)
	return nil
}

// mutate runs with s.mu held
func (s *Store) mutate(ctx context.Context, fn func(state *models.AppState) error) (models.AppState, bool, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return state, false, err
	}
	if err := fn(&state); err != nil {
		if errors.Is(err, errUnchanged) {
			return state, false, nil
		}
		return state, false, err
	}
	if err := s.write(ctx, state); err != nil {
		return state, false, err
	}
	return state, true, nil
}

func (s *Store) write(ctx context.Context, state models.AppState) error {
	state.Normalize()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	s.log.Debug("state saved", "vocabs", len(state.Vocabs), "grammars", len(state.Grammars), "bytes", len(data))
	return nil
}

// Subscribe registers fn to be called with the new aggregate after every write.
// Notifications arrive in write order. fn must not write to the store.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.AppState)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(state models.AppState) {
	s.subMu.Lock()
	fns := make([]func(models.AppState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
}
