// Package index holds the frozen q-gram inverted index used for candidate
// generation. The index is built in one batch pass and is read-only
// afterwards, so workers share it without locking.
package index

import (
	"fmt"
	"sort"
)

// Occurrence records one appearance of a token: the record it appears in and
// the 0-based rune offset within that record.
type Occurrence struct {
	RecordID uint32
	Loc      int
}

// InvertedList is the sequence of occurrences of one token, sorted by
// RecordID ascending. The ordering is what lets a candidate scan skip every
// record with an ID at or below the probe in one binary search.
type InvertedList []Occurrence

// FirstAfter returns the position of the first occurrence whose RecordID is
// strictly greater than id, or len(l) if there is none.
func (l InvertedList) FirstAfter(id uint32) int {
	return sort.Search(len(l), func(i int) bool { return l[i].RecordID > id })
}

// InvertedIndex maps each token to its occurrence list. Only tokens from each
// record's prefix set (the first q*tau+1 tokens of the frequency-ordered
// profile) are indexed.
type InvertedIndex struct {
	Lists map[string]InvertedList
	Order *FrequencyOrder
}

// List returns the occurrence list for a token, or nil if the token was not
// indexed.
func (ii *InvertedIndex) List(token string) InvertedList {
	return ii.Lists[token]
}

// Occurrences returns the total number of indexed occurrences.
func (ii *InvertedIndex) Occurrences() int64 {
	var total int64
	for _, list := range ii.Lists {
		total += int64(len(list))
	}
	return total
}

// Validate checks the structural invariants of a built index: every list is
// RecordID-ascending and every indexed token has a global rank. A violation
// is a programming defect in the builder, not a recoverable condition.
func (ii *InvertedIndex) Validate() error {
	for token, list := range ii.Lists {
		if _, ok := ii.Order.Rank(token); !ok {
			return fmt.Errorf("indexed token %q is missing from the global frequency order", token)
		}
		for i := 1; i < len(list); i++ {
			if list[i].RecordID < list[i-1].RecordID {
				return fmt.Errorf("inverted list for token %q is not sorted by record ID at position %d", token, i)
			}
		}
	}
	return nil
}
