package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/pkg/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })

	s := NewStore(db, nil)
	s.SetClock(func() time.Time { return time.UnixMilli(1700000000000) })
	return s
}

func TestLoadEmptyDefault(t *testing.T) {
	s := setupTestStore(t)

	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state.Vocabs)
	assert.NotNil(t, state.Grammars)
	assert.NotNil(t, state.Progress)
	assert.Empty(t, state.Vocabs)
	assert.Empty(t, state.Grammars)
}

func TestSaveOverwritesAggregate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := models.EmptyState()
	first.Vocabs = append(first.Vocabs, models.Vocab{ID: "a", Word: "air", Meaning: "water"})
	first.Progress[2] = 40
	require.NoError(t, s.Save(ctx, first))

	second := models.EmptyState()
	second.Grammars = append(second.Grammars, models.Grammar{ID: "g", Title: "Particles", Examples: []string{"wa", "ga"}})
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Vocabs)
	require.Len(t, got.Grammars, 1)
	assert.Equal(t, []string{"wa", "ga"}, got.Grammars[0].Examples)
	assert.Empty(t, got.Progress)
}

func TestProgressRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	state := models.EmptyState()
	state.Progress[7] = 12.5
	require.NoError(t, s.Save(ctx, state))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Progress[7])
}

func TestSubscribeNotifiesAfterWrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	repo := NewVocabRepository(s)

	var seen []int
	unsubscribe := s.Subscribe(func(state models.AppState) {
		seen = append(seen, len(state.Vocabs))
	})

	v, err := repo.Create(ctx, models.VocabFields{Word: "rumah", Meaning: "house"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "missing"))
	require.NoError(t, repo.Delete(ctx, v.ID))

	unsubscribe()
	_, err = repo.Create(ctx, models.VocabFields{Word: "pintu", Meaning: "door"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0}, seen, "no-op deletes and unsubscribed listeners are not notified")
}

func TestNotificationsFollowWriteOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	repo := NewVocabRepository(s)

	gate := make(chan struct{})
	entered := make(chan struct{})
	var (
		mu   sync.Mutex
		last int
		once sync.Once
	)
	s.Subscribe(func(state models.AppState) {
		once.Do(func() {
			close(entered)
			<-gate
		})
		mu.Lock()
		last = len(state.Vocabs)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := repo.Create(ctx, models.VocabFields{Word: "satu", Meaning: "one"})
		assert.NoError(t, err)
	}()
	<-entered
	go func() {
		defer wg.Done()
		_, err := repo.Create(ctx, models.VocabFields{Word: "dua", Meaning: "two"})
		assert.NoError(t, err)
	}()

	// the second write lands while the first notification is still running
	require.Eventually(t, func() bool {
		state, err := s.Load(ctx)
		return err == nil && len(state.Vocabs) == 2
	}, 2*time.Second, 5*time.Millisecond)
	close(gate)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, last)
}

func TestNewIDFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := newID(func(id string) bool { return seen[id] })
		assert.Len(t, id, idLength)
		assert.Regexp(t, "^[0-9a-z]+$", id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestNewIDSkipsTaken(t *testing.T) {
	calls := 0
	id := newID(func(string) bool {
		calls++
		return calls < 3
	})
	assert.Equal(t, 3, calls)
	assert.Len(t, id, idLength)
}
