package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBounds_Normalized(t *testing.T) {
	tests := []struct {
		name     string
		in       Bounds
		expected Bounds
	}{
		{
			name:     "already valid",
			in:       Bounds{X1: 10, Y1: 10, X2: 20, Y2: 30, Page: 1},
			expected: Bounds{X1: 10, Y1: 10, X2: 20, Y2: 30, Page: 1},
		},
		{
			name:     "inverted corners",
			in:       Bounds{X1: 20, Y1: 30, X2: 10, Y2: 10, Page: 2},
			expected: Bounds{X1: 10, Y1: 10, X2: 20, Y2: 30, Page: 2},
		},
		{
			name:     "zero size drag padded to minimum",
			in:       Bounds{X1: 5, Y1: 5, X2: 5, Y2: 5, Page: 3},
			expected: Bounds{X1: 5, Y1: 5, X2: 6, Y2: 6, Page: 3},
		},
		{
			name:     "thin drag padded on one axis only",
			in:       Bounds{X1: 0, Y1: 0, X2: 0.2, Y2: 40, Page: 1},
			expected: Bounds{X1: 0, Y1: 0, X2: 1, Y2: 40, Page: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Normalized() mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, got.Valid())
		})
	}
}

func TestBounds_Valid(t *testing.T) {
	assert.False(t, Bounds{X1: 0, Y1: 0, X2: 0.5, Y2: 10}.Valid())
	assert.False(t, Bounds{X1: 10, Y1: 0, X2: 0, Y2: 10}.Valid())
	assert.True(t, Bounds{X1: 0, Y1: 0, X2: 1, Y2: 1}.Valid())
}
