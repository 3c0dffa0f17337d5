package browser

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTableRowURL(t *testing.T) {
	domains := mapset.NewSet("erecruit.example-agency.int")

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"Row on table host", "https://erecruit.example-agency.int/vacancies#row-4", true},
		{"Host with port", "https://erecruit.example-agency.int:8443/vacancies#row-0", true},
		{"Table host without fragment", "https://erecruit.example-agency.int/vacancies", false},
		{"Row on unrelated host", "https://careers.other.org/vacancies#row-4", false},
		{"Non-row fragment", "https://erecruit.example-agency.int/vacancies#section-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTableRowURL(domains, tt.url); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTableRowIndex(t *testing.T) {
	idx, ok := TableRowIndex("https://erecruit.example-agency.int/vacancies#row-12")
	assert.True(t, ok)
	assert.Equal(t, 12, idx)

	_, ok = TableRowIndex("https://erecruit.example-agency.int/vacancies")
	assert.False(t, ok)

	_, ok = TableRowIndex("https://erecruit.example-agency.int/vacancies#row-12-extra")
	assert.False(t, ok)
}
