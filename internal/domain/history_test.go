package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayHistory_AppendBound(t *testing.T) {
	h := GatewayHistory{}
	for id := 1; id <= 11; id++ {
		h.Append(id)
	}

	assert.Equal(t, MaxGatewayHistory, h.Len())
	assert.Equal(t, 11, h.Latest())
	assert.False(t, h.Contains(1), "oldest id should be evicted")
	assert.True(t, h.Contains(2))
}

func TestGatewayHistory_AppendDeduplicates(t *testing.T) {
	h := NewGatewayHistory(3, 2, 1)

	h.Append(1)

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []int{1, 3, 2}, h.IDs())
}

func TestGatewayHistory_Remove(t *testing.T) {
	h := NewGatewayHistory(3, 2, 1)

	h.Remove(2)
	assert.Equal(t, []int{3, 1}, h.IDs())

	// Removing an absent id is a no-op.
	h.Remove(99)
	assert.Equal(t, []int{3, 1}, h.IDs())
}

func TestGatewayHistory_RoundTrip(t *testing.T) {
	h := NewGatewayHistory(321, 198)

	assert.Equal(t, "321,198", h.String())

	parsed := ParseGatewayHistory(h.String())
	assert.Equal(t, []int{321, 198}, parsed.IDs())
}

func TestParseGatewayHistory_DropsGarbage(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"321,198", []int{321, 198}},
		{"321,,198", []int{321, 198}},
		{" 321 , 198 ", []int{321, 198}},
		{"321,abc,198", []int{321, 198}},
		{"321,0,-5,198", []int{321, 198}},
		{"321,198,321", []int{321, 198}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			h := ParseGatewayHistory(tt.in)
			if tt.want == nil {
				assert.Equal(t, 0, h.Len())
				return
			}
			assert.Equal(t, tt.want, h.IDs())
		})
	}
}

func TestGatewayHistory_LatestEmpty(t *testing.T) {
	h := GatewayHistory{}
	assert.Equal(t, 0, h.Latest())
}
