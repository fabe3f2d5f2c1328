// Package joiner implements the Ed-Join approximate string similarity
// self-join: it reports every unordered pair of records whose edit distance
// is at most a threshold tau, without comparing all record pairs.
//
// The pipeline builds a frequency-ordered q-gram inverted index over each
// record's prefix set, probes it per record to generate candidates, prunes
// them with a cascade of filters (length, count, position, content), and
// verifies the survivors with a banded edit-distance computation. Records are
// processed in parallel by a fixed worker pool; the result set is identical
// for any worker count.
package joiner

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
	"github.com/gcbaptista/go-similarity-join/model"
)

// progressStride is how many processed records separate progress callbacks.
const progressStride = 64

// Options are the tuning parameters of one join execution.
type Options struct {
	QGramLength     int // q, must be positive
	MaxEditDistance int // tau, must be non-negative
	NumWorkers      int // 0 = available CPUs

	// OnProgress, when set, is invoked periodically with the number of
	// records whose pipeline has completed. It may be called concurrently
	// from multiple workers.
	OnProgress func(processed, total int)
}

// Result is the merged output of a join: the confirmed pairs in canonical
// (IDA, IDB) order and the filter-cascade accounting.
type Result struct {
	Pairs []model.ResultPair
	Stats model.JoinStats
}

// Join runs the similarity self-join over the given records. Record IDs are
// the positions in the input slice. The call is synchronous and deterministic
// for fixed inputs and parameters; zero records is a valid input yielding an
// empty result.
func Join(records []string, opts Options) (*Result, error) {
	if opts.QGramLength <= 0 {
		return nil, errors.NewInvalidParameterError("q_gram_length", "must be a positive integer")
	}
	if opts.MaxEditDistance < 0 {
		return nil, errors.NewInvalidParameterError("max_edit_distance", "must be a non-negative integer")
	}

	result := &Result{Pairs: []model.ResultPair{}}
	result.Stats.Records = len(records)
	if len(records) == 0 {
		return result, nil
	}

	workers := opts.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}

	q, tau := opts.QGramLength, opts.MaxEditDistance
	corpus := buildCorpus(records, q, tau, workers)
	result.Stats.DistinctTokens = corpus.index.Order.Size()
	result.Stats.IndexedOccurrences = corpus.index.Occurrences()

	// One record's full pipeline is the unit of work. Workers claim the next
	// unclaimed record ID instead of owning fixed ranges, so uneven records
	// balance across the pool. The index and profiles are read-only here; the
	// only shared mutable state is the claim counter and each worker's own
	// accumulator.
	total := len(records)
	next := int64(-1)
	processed := int64(0)
	workerPairs := make([][]model.ResultPair, workers)
	workerStats := make([]model.JoinStats, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var pairs []model.ResultPair
			for {
				claimed := atomic.AddInt64(&next, 1)
				if claimed >= int64(total) {
					break
				}
				pairs = corpus.joinRecord(uint32(claimed), q, tau, &workerStats[w], pairs)

				done := atomic.AddInt64(&processed, 1)
				if opts.OnProgress != nil && (done%progressStride == 0 || done == int64(total)) {
					opts.OnProgress(int(done), total)
				}
			}
			workerPairs[w] = pairs
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		result.Pairs = append(result.Pairs, workerPairs[w]...)
		mergeStats(&result.Stats, &workerStats[w])
	}
	sort.Slice(result.Pairs, func(i, j int) bool {
		if result.Pairs[i].IDA != result.Pairs[j].IDA {
			return result.Pairs[i].IDA < result.Pairs[j].IDA
		}
		return result.Pairs[i].IDB < result.Pairs[j].IDB
	})
	result.Stats.PairsConfirmed = int64(len(result.Pairs))
	return result, nil
}

// joinRecord runs candidate generation, the filter cascade, and verification
// for one probe record, appending confirmed pairs to out.
//
// The index path only covers pairs where both profiles reach q*tau+1 grams;
// below that the prefix overlap guarantee does not hold and two records
// within tau can share no prefix token at all. Pairs touching a short-profile
// record are therefore verified directly: a short probe scans every later
// record, and a long probe additionally scans the later short records, which
// the index never lists.
func (c *corpus) joinRecord(r uint32, q, tau int, stats *model.JoinStats, out []model.ResultPair) []model.ResultPair {
	if c.short[r] {
		for id := r + 1; id < uint32(len(c.runes)); id++ {
			out = c.verifyDirect(r, id, tau, stats, out)
		}
		return out
	}
	for _, candidate := range c.candidatesFor(r, tau, stats) {
		if distance, ok := c.verifyCandidate(r, candidate, q, tau, stats); ok {
			out = append(out, model.ResultPair{IDA: r, IDB: candidate, Distance: distance})
		}
	}
	for _, id := range c.shortIDsAfter(r) {
		out = c.verifyDirect(r, id, tau, stats, out)
	}
	return out
}

// shortIDsAfter returns the IDs of short-profile records strictly greater
// than r.
func (c *corpus) shortIDsAfter(r uint32) []uint32 {
	i := sort.Search(len(c.shortIDs), func(i int) bool { return c.shortIDs[i] > r })
	return c.shortIDs[i:]
}

// verifyDirect pushes one pair through the length filter and straight into
// verification, bypassing the gram-based filters that assume full-length
// profiles. Short-profile records are tiny, so the verification is cheap.
func (c *corpus) verifyDirect(r, candidate uint32, tau int, stats *model.JoinStats, out []model.ResultPair) []model.ResultPair {
	stats.CandidatesProbed++
	if abs(len(c.runes[candidate])-len(c.runes[r])) > tau {
		stats.LengthRejected++
		return out
	}
	stats.VerificationsRun++
	distance := bandedEditDistance(c.runes[r], c.runes[candidate], tau)
	if distance > tau {
		stats.PairsRefuted++
		return out
	}
	return append(out, model.ResultPair{IDA: r, IDB: candidate, Distance: distance})
}

// verifyCandidate pushes one candidate pair through the count, position, and
// content filters and, if it survives, through the banded edit-distance
// verification.
func (c *corpus) verifyCandidate(r, candidate uint32, q, tau int, stats *model.JoinStats) (int, bool) {
	budget := q * tau

	loose, strict, ok := compareQGrams(c.profiles[r], c.profiles[candidate], c.index.Order, tau, budget)
	if !ok || strict > budget {
		stats.CountRejected++
		return 0, false
	}

	if minEditErrors(loose, q) > tau {
		stats.PositionRejected++
		return 0, false
	}

	if sums := suffixErrorSums(loose, q); sums != nil {
		if bound, applies := contentFilter(c.runes[r], c.runes[candidate], loose, sums, q, tau); applies && bound > tau {
			stats.ContentRejected++
			return 0, false
		}
	}

	stats.VerificationsRun++
	distance := bandedEditDistance(c.runes[r], c.runes[candidate], tau)
	if distance > tau {
		stats.PairsRefuted++
		return 0, false
	}
	return distance, true
}

func mergeStats(total, part *model.JoinStats) {
	total.CandidatesProbed += part.CandidatesProbed
	total.LengthRejected += part.LengthRejected
	total.CountRejected += part.CountRejected
	total.PositionRejected += part.PositionRejected
	total.ContentRejected += part.ContentRejected
	total.VerificationsRun += part.VerificationsRun
	total.PairsRefuted += part.PairsRefuted
}
