package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"slices"

	"github.com/draftnight/draftnight/internal/roster"
)

// ShuffleFunc matches rand.Shuffle so tests can inject a fixed-seed
// source while production shuffles from real entropy.
type ShuffleFunc func(n int, swap func(i, j int))

func seededShuffle() ShuffleFunc {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively impossible; fall back to
		// the global source rather than refuse to draft.
		return rand.Shuffle
	}
	rnd := rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
	return rnd.Shuffle
}

// SnakeOrder builds the full pick sequence: a random permutation of the
// participant ids, concatenated forward on even rounds and reversed on
// odd rounds, for RoundsPerTeam rounds. Every id appears exactly once
// per round.
func SnakeOrder(ids []string, shuffle ShuffleFunc) []string {
	perm := slices.Clone(ids)
	shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	order := make([]string, 0, len(perm)*roster.RoundsPerTeam)
	for round := 0; round < roster.RoundsPerTeam; round++ {
		if round%2 == 0 {
			order = append(order, perm...)
		} else {
			for i := len(perm) - 1; i >= 0; i-- {
				order = append(order, perm[i])
			}
		}
	}
	return order
}
