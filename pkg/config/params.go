package config

import (
	"sync"
	"time"

	"binaryledger/internal/models"

	"github.com/sirupsen/logrus"
)

// BinaryParams holds every tunable of the compensation plan
type BinaryParams struct {
	JoinFee       float64 `json:"join_fee"`
	PairBonus     float64 `json:"pair_bonus"`
	MemberRatio   float64 `json:"member_ratio"`
	PlatformRatio float64 `json:"platform_ratio"`

	// Pairing ratios. The primary ratio is tried against its mirror and the
	// engine settles with whichever consumes more pending units.
	RequiredA int `json:"required_a"`
	RequiredB int `json:"required_b"`

	LevelBonusAmount     float64 `json:"level_bonus_amount"`
	LevelBonusDepth      int     `json:"level_bonus_depth"`
	LevelUnlockReferrals int     `json:"level_unlock_referrals"`
	OrderBonusAmount     float64 `json:"order_bonus_amount"`
	OrderBonusDepth      int     `json:"order_bonus_depth"`

	PairingUnlockReferrals int `json:"pairing_unlock_referrals"`
	FreePairingCap         int `json:"free_pairing_cap"`

	ReinvestThreshold float64 `json:"reinvest_threshold"`
	ReinvestAmount    float64 `json:"reinvest_amount"`

	DividendReferrals int `json:"dividend_referrals"`

	PlacementMaxDepth   int `json:"placement_max_depth"`
	PropagationMaxDepth int `json:"propagation_max_depth"`
}

// WithdrawalParams holds the withdrawal limits and fee schedule
type WithdrawalParams struct {
	MinAmount     float64 `json:"min_amount"`
	MaxAmount     float64 `json:"max_amount"`
	FeeRate       float64 `json:"fee_rate"`
	MinFee        float64 `json:"min_fee"`
	DailyCount    int     `json:"daily_count"`
	DailyAmount   float64 `json:"daily_amount"`
	PendingCount  int     `json:"pending_count"`
	AddressPrefix string  `json:"address_prefix"`
	AddressLength int     `json:"address_length"`
	ReviewTimeout int     `json:"review_timeout_hours"`
}

// DefaultBinaryParams returns the compiled-in compensation plan
func DefaultBinaryParams() BinaryParams {
	return BinaryParams{
		JoinFee:                30,
		PairBonus:              7,
		MemberRatio:            0.85,
		PlatformRatio:          0.15,
		RequiredA:              2,
		RequiredB:              1,
		LevelBonusAmount:       2,
		LevelBonusDepth:        8,
		LevelUnlockReferrals:   2,
		OrderBonusAmount:       1,
		OrderBonusDepth:        5,
		PairingUnlockReferrals: 2,
		FreePairingCap:         10,
		ReinvestThreshold:      300,
		ReinvestAmount:         30,
		DividendReferrals:      10,
		PlacementMaxDepth:      10,
		PropagationMaxDepth:    100,
	}
}

// DefaultWithdrawalParams returns the compiled-in withdrawal schedule
func DefaultWithdrawalParams() WithdrawalParams {
	return WithdrawalParams{
		MinAmount:     20,
		MaxAmount:     100000,
		FeeRate:       0.05,
		MinFee:        1,
		DailyCount:    3,
		DailyAmount:   10000,
		PendingCount:  1,
		AddressPrefix: "T",
		AddressLength: 34,
		ReviewTimeout: 24,
	}
}

const (
	binaryParamsName     = "binary"
	withdrawalParamsName = "withdrawal"

	defaultParamsTTL = 60 * time.Second
)

// ParamsLoader fetches the raw params_config for a preset name. Injected so
// tests can run without a database.
type ParamsLoader func(name string) (models.JSONMap, error)

type cachedParams struct {
	raw       models.JSONMap
	fetchedAt time.Time
}

// ParamsProvider is a read-through cache over system_params with a TTL.
// When the source is unavailable it falls back to the last good read, and
// failing that to the compiled defaults.
type ParamsProvider struct {
	mu     sync.RWMutex
	ttl    time.Duration
	loader ParamsLoader
	cache  map[string]cachedParams
	now    func() time.Time
}

// NewParamsProvider builds a provider around the given loader. A zero ttl
// uses the default of 60s.
func NewParamsProvider(loader ParamsLoader, ttl time.Duration) *ParamsProvider {
	if ttl <= 0 {
		ttl = defaultParamsTTL
	}
	return &ParamsProvider{
		ttl:    ttl,
		loader: loader,
		cache:  make(map[string]cachedParams),
		now:    time.Now,
	}
}

// NewDBParamsProvider builds a provider that reads the active preset from
// the system_params table.
func NewDBParamsProvider() *ParamsProvider {
	return NewParamsProvider(loadParamsFromDB, defaultParamsTTL)
}

func loadParamsFromDB(name string) (models.JSONMap, error) {
	var row models.SystemParams
	err := DB.Where("name = ? AND is_active = ?", name, true).
		Order("preset_id desc").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return row.ParamsConfig, nil
}

func (p *ParamsProvider) raw(name string) models.JSONMap {
	p.mu.RLock()
	entry, ok := p.cache[name]
	p.mu.RUnlock()

	if ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		return entry.raw
	}

	fresh, err := p.loader(name)
	if err != nil {
		logrus.WithField("params", name).Debugf("params reload failed, keeping previous values: %v", err)
		if ok {
			// stale beats broken: keep serving the last good read
			return entry.raw
		}
		return nil
	}

	p.mu.Lock()
	p.cache[name] = cachedParams{raw: fresh, fetchedAt: p.now()}
	p.mu.Unlock()
	return fresh
}

// Binary returns the current compensation-plan parameters
func (p *ParamsProvider) Binary() BinaryParams {
	out := DefaultBinaryParams()
	raw := p.raw(binaryParamsName)
	if raw == nil {
		return out
	}
	overlayFloat(raw, "join_fee", &out.JoinFee)
	overlayFloat(raw, "pair_bonus", &out.PairBonus)
	overlayFloat(raw, "member_ratio", &out.MemberRatio)
	overlayFloat(raw, "platform_ratio", &out.PlatformRatio)
	overlayInt(raw, "required_a", &out.RequiredA)
	overlayInt(raw, "required_b", &out.RequiredB)
	overlayFloat(raw, "level_bonus_amount", &out.LevelBonusAmount)
	overlayInt(raw, "level_bonus_depth", &out.LevelBonusDepth)
	overlayInt(raw, "level_unlock_referrals", &out.LevelUnlockReferrals)
	overlayFloat(raw, "order_bonus_amount", &out.OrderBonusAmount)
	overlayInt(raw, "order_bonus_depth", &out.OrderBonusDepth)
	overlayInt(raw, "pairing_unlock_referrals", &out.PairingUnlockReferrals)
	overlayInt(raw, "free_pairing_cap", &out.FreePairingCap)
	overlayFloat(raw, "reinvest_threshold", &out.ReinvestThreshold)
	overlayFloat(raw, "reinvest_amount", &out.ReinvestAmount)
	overlayInt(raw, "dividend_referrals", &out.DividendReferrals)
	overlayInt(raw, "placement_max_depth", &out.PlacementMaxDepth)
	overlayInt(raw, "propagation_max_depth", &out.PropagationMaxDepth)
	return out
}

// Withdrawal returns the current withdrawal parameters
func (p *ParamsProvider) Withdrawal() WithdrawalParams {
	out := DefaultWithdrawalParams()
	raw := p.raw(withdrawalParamsName)
	if raw == nil {
		return out
	}
	overlayFloat(raw, "min_amount", &out.MinAmount)
	overlayFloat(raw, "max_amount", &out.MaxAmount)
	overlayFloat(raw, "fee_rate", &out.FeeRate)
	overlayFloat(raw, "min_fee", &out.MinFee)
	overlayInt(raw, "daily_count", &out.DailyCount)
	overlayFloat(raw, "daily_amount", &out.DailyAmount)
	overlayInt(raw, "pending_count", &out.PendingCount)
	overlayString(raw, "address_prefix", &out.AddressPrefix)
	overlayInt(raw, "address_length", &out.AddressLength)
	overlayInt(raw, "review_timeout_hours", &out.ReviewTimeout)
	return out
}

func overlayFloat(raw models.JSONMap, key string, dst *float64) {
	if v, ok := raw[key]; ok {
		if f, ok := v.(float64); ok {
			*dst = f
		}
	}
}

func overlayInt(raw models.JSONMap, key string, dst *int) {
	if v, ok := raw[key]; ok {
		if f, ok := v.(float64); ok {
			*dst = int(f)
		}
	}
}

func overlayString(raw models.JSONMap, key string, dst *string) {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			*dst = s
		}
	}
}

// Params is the process-wide provider used by handlers and jobs. Business
// code receives it as an argument so tests can substitute their own.
var Params = NewParamsProvider(loadParamsFromDB, defaultParamsTTL)
