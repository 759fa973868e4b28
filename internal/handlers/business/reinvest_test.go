package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossedReinvestThreshold(t *testing.T) {
	// a payout taking earnings from 239 to 241 crosses the 240 gate
	// (threshold 240, no prior reinvests)
	assert.True(t, crossedReinvestThreshold(239, 241, 240, 0))

	// landing exactly on the gate counts
	assert.True(t, crossedReinvestThreshold(239.99, 240, 240, 0))

	// already past the gate: no double trigger
	assert.False(t, crossedReinvestThreshold(241, 300, 240, 0))

	// still below the gate
	assert.False(t, crossedReinvestThreshold(100, 239.99, 240, 0))

	// second cycle gates at threshold*2
	assert.False(t, crossedReinvestThreshold(241, 479, 240, 1))
	assert.True(t, crossedReinvestThreshold(479, 480, 240, 1))

	// a zero threshold disables reinvest
	assert.False(t, crossedReinvestThreshold(0, 1000000, 0, 0))
}
