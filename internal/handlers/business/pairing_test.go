package business

import (
	"testing"

	"binaryledger/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestComputeSettlementConsumesMostUnits(t *testing.T) {
	params := config.DefaultBinaryParams() // 2:1, 7U per pair, 85/15 split

	// 4 on A and 2 on B settles two 2:1 pairs and leaves nothing pending
	plan := ComputeSettlement(4, 2, params, true, 0)
	assert.Equal(t, 2, plan.Pairs)
	assert.Equal(t, 2, plan.PayablePairs)
	assert.Equal(t, 4, plan.UseA)
	assert.Equal(t, 2, plan.UseB)
	assert.Equal(t, "2:1", plan.Ratio)
	assert.Equal(t, 11.9, plan.Bonus)         // 2 * 7 * 0.85
	assert.Equal(t, 2.1, plan.PlatformShare)  // 2 * 7 * 0.15

	// mirror ratio wins when it consumes more units
	plan = ComputeSettlement(1, 4, params, true, 0)
	assert.Equal(t, 1, plan.Pairs)
	assert.Equal(t, "1:2", plan.Ratio)
	assert.Equal(t, 1, plan.UseA)
	assert.Equal(t, 2, plan.UseB)

	// tie between ratios settles with the configured one
	plan = ComputeSettlement(5, 5, params, true, 0)
	assert.Equal(t, 2, plan.Pairs)
	assert.Equal(t, "2:1", plan.Ratio)
	assert.Equal(t, 4, plan.UseA)
	assert.Equal(t, 2, plan.UseB)
}

func TestComputeSettlementNoPair(t *testing.T) {
	params := config.DefaultBinaryParams()

	assert.Zero(t, ComputeSettlement(0, 0, params, true, 0).Pairs)
	assert.Zero(t, ComputeSettlement(1, 0, params, true, 0).Pairs)
	assert.Zero(t, ComputeSettlement(0, 5, params, true, 0).Pairs)

	// one unit on each side cannot form a 2:1 or 1:2 pair
	assert.Zero(t, ComputeSettlement(1, 1, params, true, 0).Pairs)
}

func TestComputeSettlementFreePairingCap(t *testing.T) {
	params := config.DefaultBinaryParams() // cap 10

	// locked account with cap room settles normally
	plan := ComputeSettlement(4, 2, params, false, 0)
	assert.Equal(t, 2, plan.Pairs)
	assert.Equal(t, 2, plan.PayablePairs)

	// cap partially available: settle only what the cap covers
	plan = ComputeSettlement(8, 4, params, false, 9)
	assert.Equal(t, 1, plan.Pairs)
	assert.Equal(t, 1, plan.PayablePairs)
	assert.Equal(t, 2, plan.UseA)
	assert.Equal(t, 1, plan.UseB)

	// cap exhausted: the full match burns with zero payout
	plan = ComputeSettlement(4, 2, params, false, 10)
	assert.Equal(t, 2, plan.Pairs)
	assert.Equal(t, 0, plan.PayablePairs)
	assert.Equal(t, 4, plan.UseA)
	assert.Equal(t, 2, plan.UseB)
	assert.Zero(t, plan.Bonus)
	assert.Zero(t, plan.PlatformShare)

	// unlocked accounts ignore the cap entirely
	plan = ComputeSettlement(40, 20, params, true, 100)
	assert.Equal(t, 20, plan.Pairs)
	assert.Equal(t, 20, plan.PayablePairs)
}

func TestComputeSettlementGuardsBadConfig(t *testing.T) {
	params := config.DefaultBinaryParams()
	params.RequiredA = 0

	assert.Zero(t, ComputeSettlement(10, 10, params, true, 0).Pairs)
	assert.Zero(t, ComputeSettlement(-1, 5, config.DefaultBinaryParams(), true, 0).Pairs)
}
