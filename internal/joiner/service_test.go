package joiner

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
	"github.com/gcbaptista/go-similarity-join/model"
)

// bruteForcePairs computes the expected result by comparing every pair
// directly with the verifier.
func bruteForcePairs(records []string, tau int) []model.ResultPair {
	pairs := []model.ResultPair{}
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if d := BandedEditDistance(records[i], records[j], tau); d <= tau {
				pairs = append(pairs, model.ResultPair{IDA: uint32(i), IDB: uint32(j), Distance: d})
			}
		}
	}
	return pairs
}

var joinWords = []string{
	"kitten", "sitting", "mitten", "kitchen",
	"flower", "flours", "flower", "powers",
	"similar", "simular", "abcdef", "quartz",
}

func TestJoinKnownPairs(t *testing.T) {
	records := []string{"kitten", "sitting", "mitten", "kitchen"}

	result, err := Join(records, Options{QGramLength: 2, MaxEditDistance: 2, NumWorkers: 1})
	require.NoError(t, err)

	assert.Contains(t, result.Pairs, model.ResultPair{IDA: 0, IDB: 2, Distance: 1}, "kitten/mitten should match")
	assert.Contains(t, result.Pairs, model.ResultPair{IDA: 0, IDB: 3, Distance: 2}, "kitten/kitchen should match")
	for _, pair := range result.Pairs {
		if pair.IDA == 0 && pair.IDB == 1 {
			t.Errorf("kitten/sitting has distance 3 and must not match at tau=2")
		}
	}
}

func TestJoinMatchesBruteForce(t *testing.T) {
	for _, tau := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("tau=%d", tau), func(t *testing.T) {
			result, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: tau, NumWorkers: 3})
			require.NoError(t, err)
			assert.Equal(t, bruteForcePairs(joinWords, tau), result.Pairs)
		})
	}
}

func TestJoinShortRecords(t *testing.T) {
	tests := []struct {
		name     string
		records  []string
		q, tau   int
		expected []model.ResultPair
	}{
		{
			name:    "empty string pairs with one letter",
			records: []string{"", "a"},
			q:       2, tau: 1,
			expected: []model.ResultPair{{IDA: 0, IDB: 1, Distance: 1}},
		},
		{
			name:    "short records sharing no grams",
			records: []string{"acdbbaad", "d", "aab"},
			q:       1, tau: 3,
			expected: []model.ResultPair{{IDA: 1, IDB: 2, Distance: 3}},
		},
		{
			name:    "all records below the gram bound",
			records: []string{"", "a", "ab"},
			q:       2, tau: 2,
			expected: []model.ResultPair{
				{IDA: 0, IDB: 1, Distance: 1},
				{IDA: 0, IDB: 2, Distance: 2},
				{IDA: 1, IDB: 2, Distance: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range []int{1, 2, 4} {
				result, err := Join(tt.records, Options{QGramLength: tt.q, MaxEditDistance: tt.tau, NumWorkers: workers})
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result.Pairs, "workers=%d", workers)
			}
		})
	}
}

func TestJoinRandomizedMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte("abcd")

	for _, q := range []int{1, 2, 3} {
		for _, tau := range []int{0, 1, 2} {
			t.Run(fmt.Sprintf("q=%d/tau=%d", q, tau), func(t *testing.T) {
				for trial := 0; trial < 20; trial++ {
					// Lengths from 0 upward, so records shorter than q and
					// profiles below q*tau+1 grams are always in the mix.
					records := make([]string, 12)
					for i := range records {
						b := make([]byte, rng.Intn(8))
						for j := range b {
							b[j] = alphabet[rng.Intn(len(alphabet))]
						}
						records[i] = string(b)
					}
					expected := bruteForcePairs(records, tau)
					for _, workers := range []int{1, 3} {
						result, err := Join(records, Options{QGramLength: q, MaxEditDistance: tau, NumWorkers: workers})
						require.NoError(t, err)
						assert.Equal(t, expected, result.Pairs, "records=%q workers=%d", records, workers)
					}
				}
			})
		}
	}
}

func TestJoinDeterministicAcrossWorkerCounts(t *testing.T) {
	reference, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: 2, NumWorkers: 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 8, 32} {
		result, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: 2, NumWorkers: workers})
		require.NoError(t, err)
		assert.Equal(t, reference.Pairs, result.Pairs, "pairs differ with %d workers", workers)
		assert.Equal(t, reference.Stats, result.Stats, "stats differ with %d workers", workers)
	}
}

func TestJoinThresholdMonotonicity(t *testing.T) {
	previous := map[model.ResultPair]bool{}
	for tau := 0; tau <= 3; tau++ {
		result, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: tau, NumWorkers: 2})
		require.NoError(t, err)

		current := map[model.ResultPair]bool{}
		for _, pair := range result.Pairs {
			current[pair] = true
			// A pair found at a smaller threshold keeps its distance at a
			// larger one, so the earlier pair value must still be present.
		}
		for pair := range previous {
			assert.True(t, current[pair], "pair %v found at tau=%d disappeared at tau=%d", pair, tau-1, tau)
		}
		previous = current
	}
}

func TestJoinDuplicateRecords(t *testing.T) {
	result, err := Join([]string{"abc", "abc", "xyz"}, Options{QGramLength: 2, MaxEditDistance: 0, NumWorkers: 2})
	require.NoError(t, err)
	assert.Equal(t, []model.ResultPair{{IDA: 0, IDB: 1, Distance: 0}}, result.Pairs)
}

func TestJoinCanonicalOrder(t *testing.T) {
	result, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: 2, NumWorkers: 4})
	require.NoError(t, err)

	for i, pair := range result.Pairs {
		assert.Less(t, pair.IDA, pair.IDB, "pair %v is not canonical", pair)
		if i > 0 {
			prev := result.Pairs[i-1]
			ordered := prev.IDA < pair.IDA || (prev.IDA == pair.IDA && prev.IDB < pair.IDB)
			assert.True(t, ordered, "pairs %v and %v are out of order", prev, pair)
		}
	}
}

func TestJoinEmptyInput(t *testing.T) {
	result, err := Join(nil, Options{QGramLength: 2, MaxEditDistance: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)
	assert.Equal(t, 0, result.Stats.Records)
}

func TestJoinSingleRecord(t *testing.T) {
	result, err := Join([]string{"kitten"}, Options{QGramLength: 2, MaxEditDistance: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Pairs, "a single record can never pair with itself")
}

func TestJoinInvalidParameters(t *testing.T) {
	_, err := Join([]string{"a"}, Options{QGramLength: 0, MaxEditDistance: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	_, err = Join([]string{"a"}, Options{QGramLength: 2, MaxEditDistance: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestJoinStatsConsistency(t *testing.T) {
	result, err := Join(joinWords, Options{QGramLength: 2, MaxEditDistance: 2, NumWorkers: 2})
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, len(joinWords), stats.Records)
	assert.Equal(t, int64(len(result.Pairs)), stats.PairsConfirmed)
	assert.Equal(t, stats.VerificationsRun, stats.PairsRefuted+stats.PairsConfirmed)
	rejected := stats.LengthRejected + stats.CountRejected + stats.PositionRejected + stats.ContentRejected
	assert.GreaterOrEqual(t, stats.CandidatesProbed, rejected+stats.VerificationsRun)
	assert.Positive(t, stats.DistinctTokens)
	assert.Positive(t, stats.IndexedOccurrences)
}

func TestJoinProgressReporting(t *testing.T) {
	records := make([]string, 150)
	for i := range records {
		records[i] = fmt.Sprintf("record-%04d", i)
	}

	var mu sync.Mutex
	last := 0
	_, err := Join(records, Options{
		QGramLength:     2,
		MaxEditDistance: 1,
		NumWorkers:      4,
		OnProgress: func(processed, total int) {
			mu.Lock()
			if processed > last {
				last = processed
			}
			mu.Unlock()
			assert.Equal(t, len(records), total)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, len(records), last, "final progress callback should report all records processed")
}

func TestBuildCorpusDeterministicAcrossWorkers(t *testing.T) {
	one := buildCorpus(joinWords, 2, 2, 1)
	three := buildCorpus(joinWords, 2, 2, 3)

	assert.Equal(t, one.profiles, three.profiles)
	assert.Equal(t, one.prefixes, three.prefixes)
	assert.Equal(t, one.index.Lists, three.index.Lists)
	require.NoError(t, one.index.Validate())
	require.NoError(t, three.index.Validate())
}
