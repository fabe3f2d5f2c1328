package joiner

import "testing"

func TestBandedEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		tau  int
		want int
	}{
		{"identical", "kitten", "kitten", 2, 0},
		{"empty strings", "", "", 0, 0},
		{"classic within threshold", "kitten", "sitting", 3, 3},
		{"classic above threshold", "kitten", "sitting", 2, 3},
		{"single substitution", "kitten", "mitten", 1, 1},
		{"insertion and substitution", "kitten", "kitchen", 2, 2},
		{"empty versus short", "", "abc", 3, 3},
		{"length difference exceeds tau", "", "abc", 1, 2},
		{"shifted characters", "ca", "abc", 3, 3},
		{"shifted characters above threshold", "ca", "abc", 2, 3},
		{"zero tau unequal", "abc", "abd", 0, 1},
		{"zero tau equal", "abc", "abc", 0, 0},
		{"long common prefix", "similarity", "similarly", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BandedEditDistance(tt.a, tt.b, tt.tau); got != tt.want {
				t.Errorf("BandedEditDistance(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.tau, got, tt.want)
			}
		})
	}
}

func TestBandedEditDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"flour", "flower"},
		{"", "abc"},
		{"abcdef", "fedcba"},
	}
	for _, p := range pairs {
		for tau := 0; tau <= 4; tau++ {
			ab := BandedEditDistance(p[0], p[1], tau)
			ba := BandedEditDistance(p[1], p[0], tau)
			if ab != ba {
				t.Errorf("distance is asymmetric for (%q, %q) at tau=%d: %d vs %d", p[0], p[1], tau, ab, ba)
			}
		}
	}
}

func TestBandedEditDistanceCapsAtTauPlusOne(t *testing.T) {
	// The exact distance between these is 6; any smaller tau must yield tau+1.
	for tau := 0; tau < 6; tau++ {
		if got := BandedEditDistance("abcdef", "ghijkl", tau); got != tau+1 {
			t.Errorf("BandedEditDistance with tau=%d = %d, want %d", tau, got, tau+1)
		}
	}
	if got := BandedEditDistance("abcdef", "ghijkl", 6); got != 6 {
		t.Errorf("BandedEditDistance with tau=6 = %d, want 6", got)
	}
}

func TestBandedEditDistanceMultibyte(t *testing.T) {
	// Distances are measured in runes, not bytes.
	if got := BandedEditDistance("héllo", "hello", 1); got != 1 {
		t.Errorf("BandedEditDistance(héllo, hello, 1) = %d, want 1", got)
	}
}
