package index

import (
	"sort"

	"github.com/gcbaptista/go-similarity-join/internal/tokenizer"
)

// FrequencyOrder is the global total order over all distinct tokens of a
// corpus: ascending by total occurrence count, ties broken by token bytes for
// reproducibility. It is computed once before index construction and frozen;
// every profile reordering and every filter comparison uses this order.
type FrequencyOrder struct {
	ranks  map[string]int
	counts map[string]int
}

// NewFrequencyOrder builds the frozen order from the merged per-token
// occurrence counts of the whole corpus.
func NewFrequencyOrder(counts map[string]int) *FrequencyOrder {
	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if counts[a] != counts[b] {
			return counts[a] < counts[b]
		}
		return a < b
	})

	ranks := make(map[string]int, len(tokens))
	for rank, token := range tokens {
		ranks[token] = rank
	}
	return &FrequencyOrder{ranks: ranks, counts: counts}
}

// Rank returns the position of a token in the global order. The second return
// is false for tokens that never occurred in the corpus.
func (fo *FrequencyOrder) Rank(token string) (int, bool) {
	rank, ok := fo.ranks[token]
	return rank, ok
}

// Count returns the total number of occurrences of a token in the corpus.
func (fo *FrequencyOrder) Count(token string) int {
	return fo.counts[token]
}

// Size returns the number of distinct tokens in the order.
func (fo *FrequencyOrder) Size() int {
	return len(fo.ranks)
}

// SortProfile reorders a q-gram profile in place by ascending global
// frequency. Occurrences of the same token stay in increasing order of
// location so the reordering is deterministic.
func (fo *FrequencyOrder) SortProfile(profile tokenizer.QGramProfile) {
	sort.SliceStable(profile, func(i, j int) bool {
		ri := fo.ranks[profile[i].Token]
		rj := fo.ranks[profile[j].Token]
		if ri != rj {
			return ri < rj
		}
		return profile[i].Loc < profile[j].Loc
	})
}
