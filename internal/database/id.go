package database

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const idLength = 12

// newID returns a random base-36 identifier not contained in taken
func newID(taken func(id string) bool) string {
	for {
		u := uuid.New()
		id := new(big.Int).SetBytes(u[:]).Text(36)
		if len(id) < idLength {
			id = strings.Repeat("0", idLength-len(id)) + id
		}
		id = id[:idLength]
		if taken == nil || !taken(id) {
			return id
		}
	}
}
