// Package tokenizer converts records into positional q-gram profiles.
//
// A q-gram is a contiguous substring of length q. A string of n characters
// yields n-q+1 overlapping q-grams; together with their start offsets they
// form an alternative representation of the string:
//
//	         +---+---+---+---+---+
//	"hello"  | h | e | l | l | o |  <=>  {(he,0), (el,1), (ll,2), (lo,3)}  for q = 2
//	         +---+---+---+---+---+
package tokenizer

import "strings"

// PadRune is the sentinel appended to records shorter than q so that every
// record, including the empty string, yields at least one token. It is a
// non-printable rune that cannot collide with ordinary text.
const PadRune = '\x00'

// PositionalQGram is one token occurrence: the q-gram and the 0-based rune
// offset where it starts within its record.
type PositionalQGram struct {
	Token string
	Loc   int
}

// QGramProfile is the ordered sequence of positional q-grams of one record.
// Profile returns it in increasing order of location; the index builder later
// reorders it by global token frequency.
type QGramProfile []PositionalQGram

// Profile tokenizes a record into its positional q-gram profile. It operates
// on runes, always succeeds, and is deterministic: identical strings yield
// identical profiles. The profile has max(1, n-q+1) entries for a record of
// n runes; records shorter than q are padded with PadRune and yield exactly
// one token. q must be positive.
func Profile(text string, q int) QGramProfile {
	runes := []rune(text)

	if len(runes) < q {
		padded := string(runes) + strings.Repeat(string(PadRune), q-len(runes))
		return QGramProfile{{Token: padded, Loc: 0}}
	}

	profile := make(QGramProfile, 0, len(runes)-q+1)
	for i := 0; i+q <= len(runes); i++ {
		profile = append(profile, PositionalQGram{Token: string(runes[i : i+q]), Loc: i})
	}
	return profile
}

// Length returns the rune count of a record, the length measure used by the
// length filter and the verifier.
func Length(text string) int {
	return len([]rune(text))
}
