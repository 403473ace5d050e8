package practice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/pkg/models"
)

func TestSampleEmptyPool(t *testing.T) {
	_, err := Sample(nil, MaxQuizSize, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = Sample([]models.Vocab{}, MaxQuizSize, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSampleSizeAndMembership(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for _, size := range []int{1, 4, 10, 11, 37} {
		pool := randomCollection(rnd, size)
		members := map[string]bool{}
		for _, v := range pool {
			members[v.ID] = true
		}

		got, err := Sample(pool, MaxQuizSize, rnd)
		require.NoError(t, err)

		want := size
		if want > MaxQuizSize {
			want = MaxQuizSize
		}
		assert.Len(t, got, want)

		seen := map[string]bool{}
		for _, v := range got {
			assert.True(t, members[v.ID], "%s is not from the pool", v.ID)
			assert.False(t, seen[v.ID], "%s drawn twice", v.ID)
			seen[v.ID] = true
		}
	}
}

func TestSampleDoesNotModifyPool(t *testing.T) {
	pool := randomCollection(rand.New(rand.NewSource(5)), 20)
	before := ids(pool)

	_, err := Sample(pool, MaxQuizSize, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	assert.Equal(t, before, ids(pool))
}

func TestSampleIsRoughlyUniform(t *testing.T) {
	pool := randomCollection(rand.New(rand.NewSource(1)), 20)
	rnd := rand.New(rand.NewSource(42))

	counts := map[string]int{}
	const rounds = 4000
	for i := 0; i < rounds; i++ {
		got, err := Sample(pool, MaxQuizSize, rnd)
		require.NoError(t, err)
		for _, v := range got {
			counts[v.ID]++
		}
	}

	// every item is expected in half of the draws
	expected := float64(rounds) * MaxQuizSize / float64(len(pool))
	for _, v := range pool {
		assert.InDelta(t, expected, float64(counts[v.ID]), expected*0.1, "item %s", v.ID)
	}
}
