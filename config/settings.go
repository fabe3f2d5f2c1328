// Package config provides configuration structures for the similarity join
// engine. It defines per-dataset join settings and the server configuration.
package config

import (
	"runtime"
	"strings"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
)

// JoinSettings contains all tuning parameters for a similarity join over a
// dataset.
//
// QGramLength (q) controls the token granularity: a large q produces fewer,
// more selective tokens but weakens the count filter; a small q produces many
// tokens and stronger filtering at a higher probing cost. MaxEditDistance
// (tau) is the inclusive threshold: the join reports every pair of records
// whose edit distance is at most tau.
type JoinSettings struct {
	Name            string `json:"name"`              // Unique name for the dataset
	QGramLength     int    `json:"q_gram_length"`     // q, must be positive
	MaxEditDistance int    `json:"max_edit_distance"` // tau, must be non-negative
	NumWorkers      int    `json:"num_workers"`       // degree of parallelism, 0 = available CPUs
}

// PrefixLength returns the number of tokens of a frequency-ordered q-gram
// profile that must be indexed and probed: q*tau + 1. Any two records within
// edit distance tau share at least one token among this prefix of either
// record.
func (settings *JoinSettings) PrefixLength() int {
	return settings.QGramLength*settings.MaxEditDistance + 1
}

// Validate checks the join parameters and returns the first violation found.
func (settings *JoinSettings) Validate() error {
	if strings.TrimSpace(settings.Name) == "" {
		return errors.NewValidationError("name", "dataset name cannot be empty or whitespace-only")
	}
	if settings.QGramLength <= 0 {
		return errors.NewInvalidParameterError("q_gram_length", "must be a positive integer")
	}
	if settings.MaxEditDistance < 0 {
		return errors.NewInvalidParameterError("max_edit_distance", "must be a non-negative integer")
	}
	if settings.NumWorkers < 0 {
		return errors.NewInvalidParameterError("num_workers", "must be a non-negative integer")
	}
	return nil
}

// ApplyDefaults applies default values to unset join settings.
func (settings *JoinSettings) ApplyDefaults() {
	if settings.QGramLength == 0 {
		settings.QGramLength = 2
	}
	if settings.NumWorkers == 0 {
		settings.NumWorkers = runtime.NumCPU()
	}
}
