package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarin-app/backend/internal/models"
)

func bid(amount string, placedAt time.Time) models.Bid {
	return models.Bid{
		ID:       uuid.New(),
		BidderID: uuid.New(),
		Amount:   decimal.RequireFromString(amount),
		PlacedAt: placedAt,
	}
}

func TestPickWinner(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no bids", func(t *testing.T) {
		assert.Nil(t, pickWinner(nil))
		assert.Nil(t, pickWinner([]models.Bid{}))
	})

	t.Run("highest amount wins", func(t *testing.T) {
		low := bid("100.00", base)
		high := bid("250.00", base.Add(time.Minute))
		mid := bid("175.50", base.Add(2*time.Minute))

		winner := pickWinner([]models.Bid{low, high, mid})
		require.NotNil(t, winner)
		assert.Equal(t, high.ID, winner.ID)
	})

	t.Run("tie goes to the earliest bid", func(t *testing.T) {
		first := bid("300.00", base)
		second := bid("300.00", base.Add(time.Second))

		winner := pickWinner([]models.Bid{second, first})
		require.NotNil(t, winner)
		assert.Equal(t, first.ID, winner.ID)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		a := bid("10.00", base)
		b := bid("20.00", base.Add(time.Minute))
		c := bid("15.00", base.Add(2*time.Minute))

		forward := pickWinner([]models.Bid{a, b, c})
		backward := pickWinner([]models.Bid{c, b, a})
		require.NotNil(t, forward)
		require.NotNil(t, backward)
		assert.Equal(t, forward.ID, backward.ID)
	})
}

func TestCreateAuctionInputValidate(t *testing.T) {
	valid := CreateAuctionInput{
		Title:         "Fresh tuna, 2kg",
		Description:   "Caught this morning",
		StartingPrice: decimal.RequireFromString("50000"),
		Deadline:      time.Now().Add(24 * time.Hour),
		LocationID:    uuid.New(),
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateAuctionInput)
		wantErr bool
	}{
		{"valid input", func(in *CreateAuctionInput) {}, false},
		{"missing title", func(in *CreateAuctionInput) { in.Title = "  " }, true},
		{"missing description", func(in *CreateAuctionInput) { in.Description = "" }, true},
		{"zero starting price", func(in *CreateAuctionInput) { in.StartingPrice = decimal.Zero }, true},
		{"negative starting price", func(in *CreateAuctionInput) { in.StartingPrice = decimal.RequireFromString("-1") }, true},
		{"zero deadline", func(in *CreateAuctionInput) { in.Deadline = time.Time{} }, true},
		{"nil location", func(in *CreateAuctionInput) { in.LocationID = uuid.Nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
