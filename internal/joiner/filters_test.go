package joiner

import (
	"reflect"
	"testing"

	"github.com/gcbaptista/go-similarity-join/index"
	"github.com/gcbaptista/go-similarity-join/internal/tokenizer"
)

func TestMinEditErrors(t *testing.T) {
	tests := []struct {
		name  string
		grams tokenizer.QGramProfile
		q     int
		want  int
	}{
		{"empty set", nil, 2, 0},
		{"all grams of hello", tokenizer.QGramProfile{
			{Token: "he", Loc: 0},
			{Token: "el", Loc: 1},
			{Token: "ll", Loc: 2},
			{Token: "lo", Loc: 3},
		}, 2, 2},
		{"single gram past the origin", tokenizer.QGramProfile{
			{Token: "ll", Loc: 3},
		}, 2, 1},
		{"overlapping grams destroyed together", tokenizer.QGramProfile{
			{Token: "abc", Loc: 2},
			{Token: "bcd", Loc: 3},
			{Token: "cde", Loc: 4},
		}, 3, 1},
		{"unsorted input", tokenizer.QGramProfile{
			{Token: "lo", Loc: 3},
			{Token: "el", Loc: 1},
		}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := minEditErrors(tt.grams, tt.q); got != tt.want {
				t.Errorf("minEditErrors(%v, %d) = %d, want %d", tt.grams, tt.q, got, tt.want)
			}
		})
	}
}

func TestSuffixErrorSums(t *testing.T) {
	grams := tokenizer.QGramProfile{
		{Token: "ab", Loc: 1},
		{Token: "cd", Loc: 3},
		{Token: "ef", Loc: 6},
	}
	got := suffixErrorSums(grams, 2)
	want := []suffixErrorSum{
		{loc: 6, errors: 1},
		{loc: 3, errors: 2},
		{loc: 1, errors: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suffixErrorSums = %v, want %v", got, want)
	}

	if sums := suffixErrorSums(nil, 2); sums != nil {
		t.Errorf("suffixErrorSums(nil) = %v, want nil", sums)
	}
}

func TestRightErrors(t *testing.T) {
	sums := []suffixErrorSum{
		{loc: 6, errors: 1},
		{loc: 3, errors: 2},
		{loc: 1, errors: 3},
	}
	tests := []struct {
		loc  int
		want int
	}{
		{4, 1},
		{6, 1},
		{7, 0},
		{2, 1},
	}
	for _, tt := range tests {
		if got := rightErrors(sums, tt.loc); got != tt.want {
			t.Errorf("rightErrors(sums, %d) = %d, want %d", tt.loc, got, tt.want)
		}
	}
}

func TestCompareQGrams(t *testing.T) {
	// Corpus of "abcd" and "abzd" with q=2. Ranks ascending by count then
	// token: bc=0, bz=1, cd=2, zd=3, ab=4.
	order := index.NewFrequencyOrder(map[string]int{
		"ab": 2, "bc": 1, "cd": 1, "bz": 1, "zd": 1,
	})

	x := tokenizer.QGramProfile{ // "abcd", frequency-ordered
		{Token: "bc", Loc: 1},
		{Token: "cd", Loc: 2},
		{Token: "ab", Loc: 0},
	}
	y := tokenizer.QGramProfile{ // "abzd", frequency-ordered
		{Token: "bz", Loc: 1},
		{Token: "zd", Loc: 2},
		{Token: "ab", Loc: 0},
	}

	loose, strict, ok := compareQGrams(x, y, order, 1, 2)
	if !ok {
		t.Fatal("compareQGrams aborted although strict mismatches fit the budget")
	}
	if strict != 2 {
		t.Errorf("strict = %d, want 2", strict)
	}
	wantLoose := tokenizer.QGramProfile{{Token: "cd", Loc: 2}}
	if !reflect.DeepEqual(loose, wantLoose) {
		t.Errorf("loose = %v, want %v", loose, wantLoose)
	}
}

func TestCompareQGramsBudgetAbort(t *testing.T) {
	order := index.NewFrequencyOrder(map[string]int{
		"ab": 2, "bc": 1, "cd": 1, "bz": 1, "zd": 1,
	})
	x := tokenizer.QGramProfile{
		{Token: "bc", Loc: 1},
		{Token: "cd", Loc: 2},
		{Token: "ab", Loc: 0},
	}
	y := tokenizer.QGramProfile{
		{Token: "bz", Loc: 1},
		{Token: "zd", Loc: 2},
		{Token: "ab", Loc: 0},
	}

	if _, _, ok := compareQGrams(x, y, order, 1, 1); ok {
		t.Error("compareQGrams should abort once strict mismatches exceed the budget")
	}
}

func TestCompareQGramsIdenticalProfiles(t *testing.T) {
	order := index.NewFrequencyOrder(map[string]int{"ab": 2, "bc": 2})
	x := tokenizer.QGramProfile{
		{Token: "ab", Loc: 0},
		{Token: "bc", Loc: 1},
	}
	loose, strict, ok := compareQGrams(x, x, order, 0, 4)
	if !ok || strict != 0 || len(loose) != 0 {
		t.Errorf("identical profiles: loose=%v strict=%d ok=%v, want empty/0/true", loose, strict, ok)
	}
}

func TestL1Distance(t *testing.T) {
	s := []rune("abcdef")
	u := []rune("abcxyf")

	// Window [3, 5): s has {d, e}, t has {x, y}.
	if got := l1Distance(s, u, 3, 5); got != 4 {
		t.Errorf("l1Distance window [3,5) = %d, want 4", got)
	}
	// Identical windows.
	if got := l1Distance(s, u, 0, 3); got != 0 {
		t.Errorf("l1Distance window [0,3) = %d, want 0", got)
	}
	// Windows past the end of a string are clamped, not a panic.
	if got := l1Distance(s, []rune("ab"), 0, 10); got != 4 {
		t.Errorf("l1Distance clamped window = %d, want 4", got)
	}
}
