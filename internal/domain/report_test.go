package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{7.0, 7.0},
		{20.0 / 3, 6.7},
		{7.25, 7.2},
		{7.35, 7.3},
		{6.65, 6.7},
		{72.5, 72.5},
		{0.05, 0.1},
		{4.75, 4.8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round1(tt.in), "Round1(%v)", tt.in)
	}
}
