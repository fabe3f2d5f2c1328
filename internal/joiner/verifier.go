package joiner

import "math"

// BandedEditDistance computes the edit distance between a and b whenever it
// is at most tau, and returns tau+1 otherwise. The dynamic program is
// restricted to a diagonal band of width 2*tau+1 and aborts as soon as every
// cell of a row exceeds tau, since no suffix can bring the distance back
// under the threshold. Cost is O(tau * min(len(a), len(b))). The function is
// pure and safe to call from any number of goroutines.
func BandedEditDistance(a, b string, tau int) int {
	return bandedEditDistance([]rune(a), []rune(b), tau)
}

// unreachable marks band cells outside the diagonal corridor. Half of MaxInt32
// keeps additions from overflowing.
const unreachable = math.MaxInt32 / 2

func bandedEditDistance(a, b []rune, tau int) int {
	lenA, lenB := len(a), len(b)
	if abs(lenA-lenB) > tau {
		return tau + 1
	}
	if lenA == 0 {
		return lenB // within tau, by the length check above
	}
	if lenB == 0 {
		return lenA
	}

	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		if j <= tau {
			prev[j] = j
		} else {
			prev[j] = unreachable
		}
	}

	for i := 1; i <= lenA; i++ {
		lo := i - tau
		if lo < 1 {
			lo = 1
		}
		hi := i + tau
		if hi > lenB {
			hi = lenB
		}

		if lo == 1 {
			curr[0] = i
		} else {
			curr[lo-1] = unreachable
		}

		rowMin := unreachable
		for j := lo; j <= hi; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			best := prev[j-1] + cost // substitution
			if deletion := prev[j] + 1; deletion < best {
				best = deletion
			}
			if insertion := curr[j-1] + 1; insertion < best {
				best = insertion
			}
			curr[j] = best
			if best < rowMin {
				rowMin = best
			}
		}
		if hi < lenB {
			curr[hi+1] = unreachable
		}

		if rowMin > tau {
			return tau + 1
		}
		prev, curr = curr, prev
	}

	if prev[lenB] > tau {
		return tau + 1
	}
	return prev[lenB]
}
