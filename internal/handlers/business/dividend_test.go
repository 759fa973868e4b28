package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDividend(t *testing.T) {
	assert.Equal(t, 25.0, splitDividend(100, 4))

	// shares round down so the sum never exceeds the pool
	assert.Equal(t, 33.33, splitDividend(100, 3))
	assert.Equal(t, 0.33, splitDividend(1, 3))

	assert.Zero(t, splitDividend(100, 0))
	assert.Zero(t, splitDividend(0, 5))
	assert.Zero(t, splitDividend(-10, 5))

	// pool too small to pay a cent each
	assert.Zero(t, splitDividend(0.05, 10))
}

func TestDividendResidueCarriesFloorRemainder(t *testing.T) {
	// 100 across 3 pays 33.33 each and leaves one cent for the next cycle
	assert.InDelta(t, 0.01, dividendResidue(100, splitDividend(100, 3), 3), 1e-9)

	assert.InDelta(t, 0.01, dividendResidue(1, splitDividend(1, 3), 3), 1e-9)

	// even splits leave nothing behind
	assert.Zero(t, dividendResidue(100, splitDividend(100, 4), 4))

	// an unsplittable pool is all residue
	assert.InDelta(t, 0.05, dividendResidue(0.05, 0, 10), 1e-9)
}
