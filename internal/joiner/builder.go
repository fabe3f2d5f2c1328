package joiner

import (
	"sync"

	"github.com/gcbaptista/go-similarity-join/index"
	"github.com/gcbaptista/go-similarity-join/internal/tokenizer"
)

// corpus is the frozen per-join view of the record collection: rune slices,
// frequency-ordered q-gram profiles, per-record prefix lengths, and the
// prefix-set inverted index. It is built once and only read afterwards, so
// workers share it without locking.
type corpus struct {
	runes    [][]rune
	profiles []tokenizer.QGramProfile // reordered by global frequency
	prefixes []int                    // indexed prefix length per record
	short    []bool                   // profile has fewer than q*tau+1 grams
	shortIDs []uint32                 // ascending IDs of short-profile records
	index    *index.InvertedIndex
}

// buildCorpus tokenizes all records, computes the global frequency order,
// and assembles the inverted index from each record's prefix set. Work is
// partitioned into contiguous record chunks, one per worker; per-worker
// partial results are merged after the barrier.
func buildCorpus(records []string, q, tau, workers int) *corpus {
	n := len(records)
	c := &corpus{
		runes:    make([][]rune, n),
		profiles: make([]tokenizer.QGramProfile, n),
		prefixes: make([]int, n),
		short:    make([]bool, n),
	}

	// Phase 1: tokenize every record independently and count token
	// occurrences into per-worker maps.
	partialCounts := make([]map[string]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			counts := make(map[string]int)
			for i := chunkStart(n, workers, w); i < chunkStart(n, workers, w+1); i++ {
				c.runes[i] = []rune(records[i])
				profile := tokenizer.Profile(records[i], q)
				c.profiles[i] = profile
				for _, gram := range profile {
					counts[gram.Token]++
				}
			}
			partialCounts[w] = counts
		}(w)
	}
	wg.Wait()

	// Merge counts by summation and freeze the global frequency order.
	totalCounts := make(map[string]int)
	for _, counts := range partialCounts {
		for token, count := range counts {
			totalCounts[token] += count
		}
	}
	order := index.NewFrequencyOrder(totalCounts)

	// Records with fewer than q*tau+1 grams cannot rely on the prefix overlap
	// guarantee, so they stay out of the index and are paired by direct
	// verification instead.
	prefixLength := q*tau + 1
	for i, profile := range c.profiles {
		if len(profile) < prefixLength {
			c.short[i] = true
			c.shortIDs = append(c.shortIDs, uint32(i))
		}
	}

	// Phase 2: reorder each profile by global frequency, select its prefix
	// set, and append prefix occurrences into per-worker partial indices.
	partialLists := make([]map[string]index.InvertedList, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			lists := make(map[string]index.InvertedList)
			for i := chunkStart(n, workers, w); i < chunkStart(n, workers, w+1); i++ {
				profile := c.profiles[i]
				order.SortProfile(profile)
				if c.short[i] {
					c.prefixes[i] = len(profile)
					continue
				}
				c.prefixes[i] = prefixLength
				for _, gram := range profile[:prefixLength] {
					lists[gram.Token] = append(lists[gram.Token], index.Occurrence{RecordID: uint32(i), Loc: gram.Loc})
				}
			}
			partialLists[w] = lists
		}(w)
	}
	wg.Wait()

	// Chunks are contiguous and merged in ascending worker order, so every
	// concatenated list stays RecordID-ascending.
	merged := make(map[string]index.InvertedList)
	for w := 0; w < workers; w++ {
		for token, list := range partialLists[w] {
			merged[token] = append(merged[token], list...)
		}
	}

	c.index = &index.InvertedIndex{Lists: merged, Order: order}
	return c
}

// chunkStart returns the first record ID of worker w's contiguous chunk;
// chunkStart(n, workers, workers) == n.
func chunkStart(n, workers, w int) int {
	return n * w / workers
}
