package practice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/pkg/models"
)

func newTestSession(seed int64) *Session {
	return NewSession(rand.New(rand.NewSource(seed)))
}

func playThrough(t *testing.T, s *Session, correct bool) Result {
	t.Helper()
	_, total, _ := s.Progress()
	for i := 0; i < total; i++ {
		require.True(t, s.Reveal())
		finished := s.Grade(correct)
		assert.Equal(t, i == total-1, finished)
	}
	res, ok := s.Result()
	require.True(t, ok)
	return res
}

func TestSessionAllCorrect(t *testing.T) {
	for _, n := range []int{1, 3, 10, 25} {
		s := newTestSession(int64(n))
		require.NoError(t, s.Start(randomCollection(rand.New(rand.NewSource(2)), n), Filter{Mode: FilterAll}, ModeMeaning))

		want := n
		if want > MaxQuizSize {
			want = MaxQuizSize
		}
		res := playThrough(t, s, true)
		assert.Equal(t, Result{Score: want, Total: want}, res)
		assert.Equal(t, Finished, s.State())
	}
}

func TestSessionAllWrong(t *testing.T) {
	s := newTestSession(1)
	require.NoError(t, s.Start(randomCollection(rand.New(rand.NewSource(2)), 6), Filter{Mode: FilterAll}, ModeReverse))

	res := playThrough(t, s, false)
	assert.Equal(t, Result{Score: 0, Total: 6}, res)
}

func TestSessionEmptyPoolStaysInSetup(t *testing.T) {
	s := newTestSession(1)
	all := []models.Vocab{vocab("1", "apple", "apel", models.Chapter(1))}

	err := s.Start(all, Filter{Mode: FilterAdditional}, ModeMeaning)
	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Equal(t, Setup, s.State())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Reveal())
}

func TestSessionTransitions(t *testing.T) {
	s := newTestSession(1)
	all := []models.Vocab{
		vocab("1", "apple", "apel", nil),
		vocab("2", "pear", "pir", nil),
	}
	require.NoError(t, s.Start(all, Filter{Mode: FilterAll}, ModeMeaning))
	assert.Equal(t, InProgress, s.State())

	pos, total, score := s.Progress()
	assert.Equal(t, []int{1, 2, 0}, []int{pos, total, score})
	assert.False(t, s.Revealed())

	// grading before the reveal is ignored
	assert.False(t, s.Grade(true))
	pos, _, score = s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 0, score)

	assert.True(t, s.Reveal())
	assert.True(t, s.Reveal(), "reveal is idempotent")
	assert.True(t, s.Revealed())

	assert.False(t, s.Grade(true))
	pos, _, score = s.Progress()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 1, score)
	assert.False(t, s.Revealed())

	_, ok := s.Result()
	assert.False(t, ok)

	s.Reveal()
	assert.True(t, s.Grade(false))
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, Result{Score: 1, Total: 2}, res)

	// finished sessions ignore further input
	assert.False(t, s.Reveal())
	assert.True(t, s.Grade(true))
	res, _ = s.Result()
	assert.Equal(t, 1, res.Score)

	s.Reset()
	assert.Equal(t, Setup, s.State())
	assert.Empty(t, s.Items())
	_, ok = s.Result()
	assert.False(t, ok)
}

func TestSessionRestartResetsScore(t *testing.T) {
	s := newTestSession(4)
	all := randomCollection(rand.New(rand.NewSource(8)), 5)

	require.NoError(t, s.Start(all, Filter{Mode: FilterAll}, ModeMeaning))
	s.Reveal()
	s.Grade(true)

	require.NoError(t, s.Start(all, Filter{Mode: FilterAll}, ModeReverse))
	pos, total, score := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 5, total)
	assert.Equal(t, 0, score)
	assert.Equal(t, ModeReverse, s.Mode())
}

func TestSessionCards(t *testing.T) {
	img := "data:image/png;base64,AAAA"
	withImage := models.Vocab{ID: "1", Word: "kucing", Meaning: "cat", ImageURL: &img}
	plain := models.Vocab{ID: "2", Word: "anjing", Meaning: "dog"}

	tests := []struct {
		name string
		item models.Vocab
		mode Mode
		want Card
	}{
		{"meaning", plain, ModeMeaning, Card{Item: plain, Mode: ModeMeaning, Prompt: "anjing", Answer: "dog"}},
		{"reverse", plain, ModeReverse, Card{Item: plain, Mode: ModeReverse, Prompt: "dog", Answer: "anjing"}},
		{"image", withImage, ModeImage, Card{Item: withImage, Mode: ModeImage, ImageURL: img, Answer: "kucing"}},
		{"image fallback", plain, ModeImage, Card{Item: plain, Mode: ModeImage, Prompt: "anjing", Answer: "dog", Degraded: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(1)
			require.NoError(t, s.Start([]models.Vocab{tt.item}, Filter{Mode: FilterAll}, tt.mode))
			card, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, tt.want, card)
		})
	}
}

func TestSessionRandomModeMixesConcreteModes(t *testing.T) {
	s := newTestSession(99)
	require.NoError(t, s.Start(randomCollection(rand.New(rand.NewSource(3)), 30), Filter{Mode: FilterAll}, ModeRandom))

	seen := map[Mode]int{}
	for {
		card, ok := s.Current()
		require.True(t, ok)
		assert.NotEqual(t, ModeRandom, card.Mode)
		seen[card.Mode]++

		// the mode of an item is fixed for the whole session
		again, _ := s.Current()
		assert.Equal(t, card.Mode, again.Mode)

		s.Reveal()
		if s.Grade(true) {
			break
		}
	}
	assert.Equal(t, MaxQuizSize, seen[ModeMeaning]+seen[ModeReverse]+seen[ModeImage])
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestParseMode(t *testing.T) {
	for _, m := range []string{"meaning", "reverse", "image", "random"} {
		got, err := ParseMode(m)
		assert.NoError(t, err)
		assert.Equal(t, Mode(m), got)
	}
	_, err := ParseMode("spelling")
	assert.Error(t, err)
}
