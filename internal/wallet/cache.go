package wallet

import (
	"context"
	"encoding/json"
	"time"

	"binaryledger/internal/models"
	"binaryledger/pkg/config"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const balanceCacheTTL = 5 * time.Minute

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}

// cachedBalance returns the cached snapshot when the cache is configured
// and holds a fresh entry. Any cache failure falls through to the database.
func cachedBalance(accountID string) (models.BalanceSnapshot, bool) {
	if config.Redis == nil {
		return models.BalanceSnapshot{}, false
	}

	val, err := config.Redis.Get(context.Background(), balanceCacheKey(accountID)).Result()
	if err == redis.Nil {
		return models.BalanceSnapshot{}, false
	} else if err != nil {
		logrus.Debugf("balance cache read failed: %v", err)
		return models.BalanceSnapshot{}, false
	}

	var snapshot models.BalanceSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return models.BalanceSnapshot{}, false
	}
	return snapshot, true
}

func cacheBalance(accountID string, snapshot models.BalanceSnapshot) {
	if config.Redis == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := config.Redis.Set(context.Background(), balanceCacheKey(accountID), data, balanceCacheTTL).Err(); err != nil {
		logrus.Debugf("balance cache write failed: %v", err)
	}
}

// invalidateBalanceCache drops the snapshot after any mutation so readers
// never see a pre-mutation balance for longer than one round trip.
func invalidateBalanceCache(accountID string) {
	if config.Redis == nil {
		return
	}
	if err := config.Redis.Del(context.Background(), balanceCacheKey(accountID)).Err(); err != nil {
		logrus.Debugf("balance cache invalidation failed: %v", err)
	}
}
