package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"49.90", 4990},
		{"0", 0},
		{"0.01", 1},
		{"100", 10000},
		{"19.99", 1999},
		// Half cents round away from zero.
		{"1.005", 101},
		{"1.004", 100},
		{"-1.005", -101},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, MinorUnits(amount))
		})
	}
}
