package index

import "testing"

func TestInvertedListFirstAfter(t *testing.T) {
	list := InvertedList{
		{RecordID: 0, Loc: 1},
		{RecordID: 2, Loc: 0},
		{RecordID: 2, Loc: 3},
		{RecordID: 5, Loc: 2},
	}

	tests := []struct {
		id   uint32
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 3},
		{4, 3},
		{5, 4},
		{9, 4},
	}
	for _, tt := range tests {
		if got := list.FirstAfter(tt.id); got != tt.want {
			t.Errorf("FirstAfter(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestInvertedIndexOccurrences(t *testing.T) {
	ii := &InvertedIndex{
		Lists: map[string]InvertedList{
			"ab": {{RecordID: 0}, {RecordID: 1}},
			"bc": {{RecordID: 2}},
		},
		Order: NewFrequencyOrder(map[string]int{"ab": 2, "bc": 1}),
	}
	if got := ii.Occurrences(); got != 3 {
		t.Errorf("Occurrences() = %d, want 3", got)
	}
}

func TestInvertedIndexValidate(t *testing.T) {
	order := NewFrequencyOrder(map[string]int{"ab": 2, "bc": 1})

	valid := &InvertedIndex{
		Lists: map[string]InvertedList{
			"ab": {{RecordID: 0}, {RecordID: 3}},
		},
		Order: order,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on a well-formed index returned %v", err)
	}

	unsorted := &InvertedIndex{
		Lists: map[string]InvertedList{
			"ab": {{RecordID: 3}, {RecordID: 0}},
		},
		Order: order,
	}
	if err := unsorted.Validate(); err == nil {
		t.Error("Validate() should reject an unsorted inverted list")
	}

	unranked := &InvertedIndex{
		Lists: map[string]InvertedList{
			"zz": {{RecordID: 0}},
		},
		Order: order,
	}
	if err := unranked.Validate(); err == nil {
		t.Error("Validate() should reject a token missing from the frequency order")
	}
}
