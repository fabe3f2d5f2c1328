package tokenizer

import (
	"reflect"
	"testing"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		q     int
		want  QGramProfile
	}{
		{"simple word", "hello", 2, QGramProfile{
			{Token: "he", Loc: 0},
			{Token: "el", Loc: 1},
			{Token: "ll", Loc: 2},
			{Token: "lo", Loc: 3},
		}},
		{"length equals q", "ab", 2, QGramProfile{
			{Token: "ab", Loc: 0},
		}},
		{"shorter than q", "a", 3, QGramProfile{
			{Token: "a\x00\x00", Loc: 0},
		}},
		{"empty string", "", 2, QGramProfile{
			{Token: "\x00\x00", Loc: 0},
		}},
		{"repeated token", "aaaa", 2, QGramProfile{
			{Token: "aa", Loc: 0},
			{Token: "aa", Loc: 1},
			{Token: "aa", Loc: 2},
		}},
		{"multibyte runes", "héllo", 2, QGramProfile{
			{Token: "hé", Loc: 0},
			{Token: "él", Loc: 1},
			{Token: "ll", Loc: 2},
			{Token: "lo", Loc: 3},
		}},
		{"q of three", "kitten", 3, QGramProfile{
			{Token: "kit", Loc: 0},
			{Token: "itt", Loc: 1},
			{Token: "tte", Loc: 2},
			{Token: "ten", Loc: 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Profile(tt.input, tt.q)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Profile(%q, %d) = %v, want %v", tt.input, tt.q, got, tt.want)
			}
		})
	}
}

func TestProfileDeterministic(t *testing.T) {
	a := Profile("similarity", 2)
	b := Profile("similarity", 2)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different profiles: %v vs %v", a, b)
	}
}

func TestProfileSize(t *testing.T) {
	// A record of n runes yields max(1, n-q+1) tokens.
	tests := []struct {
		input string
		q     int
		want  int
	}{
		{"hello", 2, 4},
		{"hello", 5, 1},
		{"hello", 9, 1},
		{"", 4, 1},
	}
	for _, tt := range tests {
		if got := len(Profile(tt.input, tt.q)); got != tt.want {
			t.Errorf("len(Profile(%q, %d)) = %d, want %d", tt.input, tt.q, got, tt.want)
		}
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"日本語", 3},
	}
	for _, tt := range tests {
		if got := Length(tt.input); got != tt.want {
			t.Errorf("Length(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
