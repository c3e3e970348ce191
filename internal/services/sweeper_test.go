package services

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSweeperSkipsWhenLeaseIsHeld(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	// Another instance already holds the lease
	if err := mr.Set(sweepLockKey, "other-instance"); err != nil {
		t.Fatalf("failed to seed lease: %v", err)
	}
	mr.SetTTL(sweepLockKey, sweepLockTTL)

	sweeper := NewSweeper(nil, redisClient)
	closed, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected no auctions closed while lease is held, got %d", closed)
	}

	// The foreign lease must survive the skipped run
	got, err := redisClient.Get(context.Background(), sweepLockKey).Result()
	if err != nil {
		t.Fatalf("lease lookup failed: %v", err)
	}
	if got != "other-instance" {
		t.Fatalf("lease was overwritten: %q", got)
	}
}

func TestSweeperReleasesOnlyItsOwnLease(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	sweeper := NewSweeper(nil, redisClient)

	// Simulate the lease expiring mid-sweep and another instance acquiring it.
	ctx := context.Background()
	if err := redisClient.Set(ctx, sweepLockKey, "other-instance", time.Minute).Err(); err != nil {
		t.Fatalf("failed to seed lease: %v", err)
	}

	_, err = redisClient.Eval(ctx, releaseLockScript, []string{sweepLockKey}, sweeper.instanceID).Result()
	if err != nil {
		t.Fatalf("release script failed: %v", err)
	}

	// The other instance's lease must be untouched
	got, err := redisClient.Get(ctx, sweepLockKey).Result()
	if err != nil {
		t.Fatalf("lease lookup failed: %v", err)
	}
	if got != "other-instance" {
		t.Fatalf("release script deleted a foreign lease")
	}
}
