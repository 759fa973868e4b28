package config

import (
	"errors"
	"testing"
	"time"

	"binaryledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParamsFallBackToDefaultsWhenSourceUnavailable(t *testing.T) {
	p := NewParamsProvider(func(string) (models.JSONMap, error) {
		return nil, errors.New("db down")
	}, time.Minute)

	assert.Equal(t, DefaultBinaryParams(), p.Binary())
	assert.Equal(t, DefaultWithdrawalParams(), p.Withdrawal())
}

func TestParamsOverlayFromSource(t *testing.T) {
	p := NewParamsProvider(func(name string) (models.JSONMap, error) {
		if name == "binary" {
			return models.JSONMap{
				"pair_bonus":         float64(10),
				"free_pairing_cap":   float64(5),
				"reinvest_threshold": float64(240),
			}, nil
		}
		return models.JSONMap{"fee_rate": 0.1}, nil
	}, time.Minute)

	bp := p.Binary()
	assert.Equal(t, 10.0, bp.PairBonus)
	assert.Equal(t, 5, bp.FreePairingCap)
	assert.Equal(t, 240.0, bp.ReinvestThreshold)
	// untouched keys keep their defaults
	assert.Equal(t, 0.85, bp.MemberRatio)
	assert.Equal(t, 8, bp.LevelBonusDepth)

	wp := p.Withdrawal()
	assert.Equal(t, 0.1, wp.FeeRate)
	assert.Equal(t, 20.0, wp.MinAmount)
}

func TestParamsTTLRefresh(t *testing.T) {
	calls := 0
	p := NewParamsProvider(func(string) (models.JSONMap, error) {
		calls++
		return models.JSONMap{"join_fee": float64(calls)}, nil
	}, time.Minute)

	clock := time.Now()
	p.now = func() time.Time { return clock }

	assert.Equal(t, 1.0, p.Binary().JoinFee)
	assert.Equal(t, 1.0, p.Binary().JoinFee) // within TTL, cached
	assert.Equal(t, 1, calls)

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 2.0, p.Binary().JoinFee) // TTL expired, reloaded
	assert.Equal(t, 2, calls)
}

func TestParamsKeepLastGoodReadWhenReloadFails(t *testing.T) {
	healthy := true
	p := NewParamsProvider(func(string) (models.JSONMap, error) {
		if !healthy {
			return nil, errors.New("db down")
		}
		return models.JSONMap{"join_fee": float64(50)}, nil
	}, time.Minute)

	clock := time.Now()
	p.now = func() time.Time { return clock }

	assert.Equal(t, 50.0, p.Binary().JoinFee)

	healthy = false
	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 50.0, p.Binary().JoinFee)
}
