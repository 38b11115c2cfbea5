package grading

import (
	"sort"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"divisible only by 1 and itself", []string{"1", "and", "by", "divisible", "itself", "only"}},
		{"Hello, hello WORLD!", []string{"hello", "world"}},
		{"x=2; y=10", []string{"10", "2", "x", "y"}},
		{"don't", []string{"don", "t"}},
		{"Café au lait", []string{"au", "café", "lait"}},
		{"  ", nil},
		{"", nil},
	}

	for _, tc := range tests {
		set := Tokenize(tc.input)
		var got []string
		for w := range set {
			got = append(got, w)
		}
		sort.Strings(got)

		if len(got) != len(tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.input, got, tc.want)
				break
			}
		}
	}
}

func TestOverlap_EmptyKey(t *testing.T) {
	if got := Overlap(nil, Tokenize("anything")); got != 0 {
		t.Errorf("Overlap(empty key) = %v, want 0", got)
	}
}
