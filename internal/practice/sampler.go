package practice

import (
	"errors"
	"math/rand"

	"github.com/example/linguist/pkg/models"
)

// MaxQuizSize is the number of questions in a full session
const MaxQuizSize = 10

// ErrEmptyPool is returned when no item matches the selected filter
var ErrEmptyPool = errors.New("no vocabulary matches the selected filter")

// Sample draws min(max, len(pool)) distinct items uniformly at random.
// pool is not modified.
func Sample(pool []models.Vocab, max int, rnd *rand.Rand) ([]models.Vocab, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	n := max
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}

	// Fisher-Yates stopped after n steps
	shuffled := make([]models.Vocab, len(pool))
	copy(shuffled, pool)
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n:n], nil
}
