package app

import (
	"fmt"
	"math/rand"
	"sort"

	"scale-trainer/internal/domain"
)

// WeightedIndex samples indexes in proportion to a fixed weight table.
type WeightedIndex struct {
	cumulative []int
	total      int
}

// NewWeightedIndex rejects tables that cannot produce a sample.
func NewWeightedIndex(weights []int) (*WeightedIndex, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty", domain.ErrInvalidWeights)
	}
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %d at %d", domain.ErrInvalidWeights, w, i)
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: all weights zero", domain.ErrInvalidWeights)
	}
	return &WeightedIndex{cumulative: cumulative, total: total}, nil
}

// MustWeightedIndex panics on a malformed table. Use it for compiled-in tables only.
func MustWeightedIndex(weights []int) *WeightedIndex {
	w, err := NewWeightedIndex(weights)
	if err != nil {
		panic(err)
	}
	return w
}

// Sample returns an index; entries with weight 0 are never returned.
func (w *WeightedIndex) Sample(rnd *rand.Rand) int {
	n := rnd.Intn(w.total)
	return sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > n
	})
}
