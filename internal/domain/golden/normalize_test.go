package golden

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"How many users?", "how many users"},
		{"  spaced   out  ", "spaced out"},
		{"UPPER-case, punctuation!", "upper case punctuation"},
		{"", ""},
		{"???", ""},
	}

	for _, tc := range tests {
		if got := normalizeQuestion(tc.in); got != tc.want {
			t.Fatalf("normalizeQuestion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
