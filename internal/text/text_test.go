package text

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "Spaces and case",
			input:    "Senior Legal Officer",
			maxLen:   80,
			expected: "senior-legal-officer",
		},
		{
			name:     "Diacritics stripped",
			input:    "Chargé de Sécurité",
			maxLen:   80,
			expected: "charge-de-securite",
		},
		{
			name:     "Punctuation dropped",
			input:    "Analyst (P-3), HQ!",
			maxLen:   80,
			expected: "analyst-p-3-hq",
		},
		{
			name:     "Length cap",
			input:    "one two three four",
			maxLen:   7,
			expected: "one-two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input, tt.maxLen)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormWords(t *testing.T) {
	words := NormWords("Senior Legal Officer with the UN team")

	//short tokens and stopwords must not survive
	if words.Contains("with") || words.Contains("the") {
		t.Error("stopwords should be removed")
	}
	if words.Contains("un") {
		t.Error("tokens shorter than 4 chars should be removed")
	}
	for _, want := range []string{"senior", "legal", "officer", "team"} {
		if !words.Contains(want) {
			t.Errorf("expected token %q in set", want)
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\nthree  "); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
