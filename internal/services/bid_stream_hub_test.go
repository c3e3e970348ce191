package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestBidStreamHubDeliversPublishedEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	hub := NewBidStreamHub(redisClient, BidEventChannel)

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	// Give the hub's pub/sub goroutine a moment to attach
	time.Sleep(100 * time.Millisecond)

	event := BidEvent{
		AuctionID: uuid.New(),
		BidderID:  uuid.New(),
		Amount:    "125000.00",
		PlacedAt:  time.Now().UTC(),
	}
	if err := PublishBidEvent(context.Background(), redisClient, event); err != nil {
		t.Fatalf("failed to publish bid event: %v", err)
	}

	select {
	case payload := <-ch:
		var got BidEvent
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if got.AuctionID != event.AuctionID {
			t.Fatalf("auction id mismatch: got %s want %s", got.AuctionID, event.AuctionID)
		}
		if got.Amount != event.Amount {
			t.Fatalf("amount mismatch: got %s want %s", got.Amount, event.Amount)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bid event")
	}
}

func TestBidStreamHubUnsubscribeClosesChannel(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	hub := NewBidStreamHub(redisClient, BidEventChannel)

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to be closed without data")
		}
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after unsubscribe")
	}

	// Double unsubscribe must not panic
	unsubscribe()
}
