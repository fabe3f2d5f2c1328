package joiner

import (
	"sort"

	"github.com/gcbaptista/go-similarity-join/index"
	"github.com/gcbaptista/go-similarity-join/internal/tokenizer"
)

// compareQGrams merges the frequency-ordered profiles of probe x and
// candidate y, counting the q-grams of x that have no partner in y with the
// same token within a location offset of tau (strict mismatches) and
// collecting the loosely mismatching ones for the later filter stages.
//
// The scan aborts as soon as the strict mismatch count exceeds budget, since
// the count can only grow; ok is false in that case and the candidate is
// provably outside the threshold. The returned loose set is sorted by
// location.
func compareQGrams(x, y tokenizer.QGramProfile, order *index.FrequencyOrder, tau, budget int) (loose tokenizer.QGramProfile, strict int, ok bool) {
	i, j := 0, 0

	// Advances past x[i] as unmatched. A gram only joins the loose set when
	// it is not a repeat of an already-handled token occurrence nearby.
	mismatch := func() bool {
		if (i >= 1 && x[i].Token != x[i-1].Token) ||
			(j >= 1 && x[i].Token != y[j-1].Token) ||
			(j >= 1 && abs(x[i].Loc-y[j-1].Loc) > tau) {
			loose = append(loose, x[i])
		}
		i++
		strict++
		return strict <= budget
	}

	for i < len(x) && j < len(y) {
		if x[i].Token == y[j].Token {
			switch {
			case abs(x[i].Loc-y[j].Loc) <= tau:
				i++
				j++
			case x[i].Loc < y[j].Loc:
				if !mismatch() {
					return nil, strict, false
				}
			default:
				j++
			}
			continue
		}

		rankX, _ := order.Rank(x[i].Token)
		rankY, _ := order.Rank(y[j].Token)
		if rankX < rankY {
			if !mismatch() {
				return nil, strict, false
			}
		} else {
			j++
		}
	}
	for i < len(x) {
		if !mismatch() {
			return nil, strict, false
		}
	}

	sort.Slice(loose, func(a, b int) bool { return loose[a].Loc < loose[b].Loc })
	return loose, strict, true
}

// minEditErrors returns the minimum number of edit operations needed to
// destroy every q-gram in the set: grams are swept in location order and one
// operation accounts for all grams overlapping its position.
func minEditErrors(grams tokenizer.QGramProfile, q int) int {
	sorted := make(tokenizer.QGramProfile, len(grams))
	copy(sorted, grams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Loc < sorted[j].Loc })

	count, covered := 0, 0
	for _, gram := range sorted {
		if gram.Loc > covered {
			count++
			covered = gram.Loc + q - 1
		}
	}
	return count
}

// suffixErrorSum records how many edit operations the suffix starting at loc
// still requires to destroy the remaining mismatching grams.
type suffixErrorSum struct {
	loc    int
	errors int
}

// suffixErrorSums condenses a location-sorted mismatch set into suffix error
// counts, in decreasing order of location. Returns nil for an empty set.
func suffixErrorSums(grams tokenizer.QGramProfile, q int) []suffixErrorSum {
	if len(grams) == 0 {
		return nil
	}

	sums := make([]suffixErrorSum, 0, len(grams))
	count := 0
	covered := grams[len(grams)-1].Loc + 1
	for i := len(grams) - 1; i >= 0; i-- {
		gram := grams[i]
		if gram.Loc < covered {
			count++
			sums = append(sums, suffixErrorSum{loc: gram.Loc, errors: count})
			if gram.Loc+1 >= q {
				covered = gram.Loc + 1 - q
			} else {
				covered = 0
			}
		}
	}
	return sums
}

// rightErrors returns the suffix error count for the first condensed entry at
// or beyond loc, or 0 when the suffix holds no mismatching gram.
func rightErrors(sums []suffixErrorSum, loc int) int {
	for _, sum := range sums {
		if sum.loc >= loc {
			return sum.errors
		}
	}
	return 0
}

// contentFilter derives a lower bound on the edit distance from the
// mismatching segments: half the L1 distance between the character frequency
// histograms of each probing window plus the errors still required right of
// it. The filter only applies when the mismatch set has at least two grams;
// applies is false otherwise. A mid-scan bound above tau short-circuits with
// 2*tau+1.
func contentFilter(s, t []rune, mismatch tokenizer.QGramProfile, sums []suffixErrorSum, q, tau int) (bound int, applies bool) {
	if len(mismatch) < 2 {
		return 0, false
	}

	segmentBound := func(from, to int) int {
		lb := l1Distance(s, t, mismatch[from].Loc, mismatch[to-1].Loc+q-1) / 2
		return lb + rightErrors(sums, mismatch[to-1].Loc+q)
	}

	from := 0
	for i := 1; i < len(mismatch); i++ {
		if mismatch[i].Loc-mismatch[i-1].Loc > 1 {
			if segmentBound(from, i) > tau {
				return 2*tau + 1, true
			}
			from = i
		}
	}
	return segmentBound(from, len(mismatch)), true
}

// l1Distance computes the L1 distance between the character frequency
// histograms of the probing windows [lo, hi) of s and t. Windows are clamped
// to each string's bounds.
func l1Distance(s, t []rune, lo, hi int) int {
	hs := histogram(s, lo, hi)
	ht := histogram(t, lo, hi)

	distance := 0
	for r, count := range hs {
		distance += abs(count - ht[r])
	}
	for r, count := range ht {
		if _, seen := hs[r]; !seen {
			distance += count
		}
	}
	return distance
}

func histogram(runes []rune, lo, hi int) map[rune]int {
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo > hi {
		lo = hi
	}
	h := make(map[rune]int)
	for _, r := range runes[lo:hi] {
		h[r]++
	}
	return h
}
