/**
 * @description
 * Expiry sweep for open auctions past their deadline.
 * Safe to trigger from the HTTP endpoint and the worker at the same time:
 * a short Redis lease keeps concurrent sweeps from duplicating work, and
 * the per-auction row lock in AuctionService makes overlap harmless anyway.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	sweepLockKey = "auction:sweep:lock"
	sweepLockTTL = 30 * time.Second
)

// releaseLockScript deletes the lease only if this instance still holds it.
const releaseLockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

type Sweeper struct {
	auctions   *AuctionService
	redis      *redis.Client // optional; nil skips the cross-process lease
	instanceID string
}

func NewSweeper(auctions *AuctionService, rdb *redis.Client) *Sweeper {
	return &Sweeper{
		auctions:   auctions,
		redis:      rdb,
		instanceID: uuid.NewString(),
	}
}

// Run closes expired auctions and returns how many were closed. When another
// instance holds the lease the call returns (0, nil) without doing work.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, sweepLockKey, s.instanceID, sweepLockTTL).Result()
		if err != nil {
			return 0, err
		}
		if !acquired {
			logger.Info("Expiry sweep skipped: another instance holds the lease")
			return 0, nil
		}
		defer func() {
			_, err := s.redis.Eval(ctx, releaseLockScript, []string{sweepLockKey}, s.instanceID).Result()
			if err != nil {
				logger.Error("Failed to release sweep lease: %v", err)
			}
		}()
	}

	closed, err := s.auctions.CloseExpired(ctx)
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		logger.Info("Expiry sweep closed %d auction(s)", closed)
	}
	return closed, nil
}
