package models

import "testing"

func TestCategoryAcceptsTerms(t *testing.T) {
	tests := []struct {
		depth int
		want  bool
	}{
		{depth: 0, want: false},
		{depth: 1, want: false},
		{depth: 2, want: true},
		{depth: 3, want: false},
	}
	for _, tt := range tests {
		c := Category{ID: "X", Depth: tt.depth}
		if got := c.AcceptsTerms(); got != tt.want {
			t.Errorf("depth %d: AcceptsTerms() = %v, want %v", tt.depth, got, tt.want)
		}
	}
}
