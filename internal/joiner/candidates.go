package joiner

import (
	"sort"

	"github.com/gcbaptista/go-similarity-join/model"
)

// candidateState tracks one (probe, candidate) pair during index probing.
type candidateState uint8

const (
	stateProbing candidateState = iota
	stateLengthRejected
)

// candidateEntry is the transient per-pair scratch state; entries are created
// during one probing pass and discarded with it.
type candidateEntry struct {
	state candidateState
	hits  int // prefix tokens matched within the location tolerance
}

// candidatesFor probes the inverted index with record r's prefix tokens and
// returns the surviving candidate IDs in ascending order.
//
// Only IDs strictly greater than r are considered: a pair is generated
// exclusively by its smaller-ID member, which makes the final result free of
// duplicates without a dedup pass. The length filter runs on first contact
// with a candidate, before any token accounting; a candidate qualifies for
// verification once at least one prefix token matches with a location offset
// within tau.
func (c *corpus) candidatesFor(r uint32, tau int, stats *model.JoinStats) []uint32 {
	prefix := c.profiles[r][:c.prefixes[r]]
	probeLen := len(c.runes[r])
	entries := make(map[uint32]*candidateEntry)

	for _, gram := range prefix {
		list := c.index.List(gram.Token)
		for _, occ := range list[list.FirstAfter(r):] {
			entry := entries[occ.RecordID]
			if entry == nil {
				entry = &candidateEntry{}
				entries[occ.RecordID] = entry
				stats.CandidatesProbed++
				if abs(len(c.runes[occ.RecordID])-probeLen) > tau {
					entry.state = stateLengthRejected
					stats.LengthRejected++
				}
			}
			if entry.state != stateProbing {
				continue
			}
			if abs(gram.Loc-occ.Loc) <= tau {
				entry.hits++
			}
		}
	}

	candidates := make([]uint32, 0, len(entries))
	for id, entry := range entries {
		if entry.state == stateProbing && entry.hits > 0 {
			candidates = append(candidates, id)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
