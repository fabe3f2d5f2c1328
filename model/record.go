// Package model defines the shared data types for the similarity join engine.
package model

// Record is a single input string together with its stable internal ID.
// The ID is the position at which the record first appeared in its dataset
// and never changes once assigned.
type Record struct {
	ID   uint32 `json:"id"`
	Text string `json:"text"`
}

// ResultPair is one matched pair of records. Pairs are unordered and
// canonicalized so that IDA < IDB; a pair appears at most once in a result.
type ResultPair struct {
	IDA      uint32 `json:"id_a"`
	IDB      uint32 `json:"id_b"`
	Distance int    `json:"distance"` // verified edit distance, <= the join threshold
}

// JoinStats counts how candidate pairs moved through the filter cascade.
// The counters follow the candidate state machine: a pair is either rejected
// by exactly one filter stage, refuted by verification, or confirmed.
type JoinStats struct {
	Records            int   `json:"records"`
	CandidatesProbed   int64 `json:"candidates_probed"`   // distinct (probe, candidate) entries created
	LengthRejected     int64 `json:"length_rejected"`     // pruned by the length filter during probing
	CountRejected      int64 `json:"count_rejected"`      // pruned by the count filter
	PositionRejected   int64 `json:"position_rejected"`   // pruned by the location-based filter
	ContentRejected    int64 `json:"content_rejected"`    // pruned by the content-based mismatch filter
	VerificationsRun   int64 `json:"verifications_run"`   // pairs that reached the edit-distance computation
	PairsRefuted       int64 `json:"pairs_refuted"`       // verified distance exceeded the threshold
	PairsConfirmed     int64 `json:"pairs_confirmed"`     // pairs in the final result
	DistinctTokens     int   `json:"distinct_tokens"`     // size of the global frequency order
	IndexedOccurrences int64 `json:"indexed_occurrences"` // prefix occurrences stored in the inverted index
}

// JoinResult is the outcome of one join execution over a dataset.
type JoinResult struct {
	Dataset         string       `json:"dataset"`
	QGramLength     int          `json:"q_gram_length"`
	MaxEditDistance int          `json:"max_edit_distance"`
	Pairs           []ResultPair `json:"pairs"`
	Stats           JoinStats    `json:"stats"`
	TookMs          int64        `json:"took_ms"`
}
