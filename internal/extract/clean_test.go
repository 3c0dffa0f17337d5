package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	input := "Duties\\: lead the team\n\n\n\nEmployee Login\nLoading\nRequirements\\; a degree"

	got := CleanText(input)

	assert.Contains(t, got, "Duties: lead the team")
	assert.Contains(t, got, "Requirements; a degree")
	assert.NotContains(t, got, "Employee Login")
	assert.NotContains(t, got, "Loading")
	assert.NotContains(t, got, "\n\n\n")
}

func TestIsShortOrPlaceholder(t *testing.T) {
	longText := strings.Repeat("responsibility oversight analysis coordination reporting ", 20)

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "Real description",
			input:    longText,
			expected: false,
		},
		{
			name:     "Too short",
			input:    "Apply via our portal.",
			expected: true,
		},
		{
			name:     "Long but few words",
			input:    strings.Repeat("aaaaaaaaaaaaaaaaaaaa", 10),
			expected: true,
		},
		{
			name:     "JS placeholder",
			input:    longText + " You need to enable JavaScript to run this app.",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShortOrPlaceholder(tt.input); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<div><p>First line</p><script>var x=1</script><p>Second line</p></div>")
	assert.Equal(t, "First line\nSecond line", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "abcdef", Truncate("abcdef", 100))
}
