package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodge/internal/domains/booking/model"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusPending, model.StatusNoShow, false},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusNoShow, true},
		{model.StatusConfirmed, model.StatusCheckedOut, false},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusCheckedIn, model.StatusCancelled, false},
		{model.StatusCheckedOut, model.StatusCheckedIn, false},
		{model.StatusCancelled, model.StatusPending, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusNoShow, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, model.StatusCheckedOut.Terminal())
	assert.True(t, model.StatusCancelled.Terminal())
	assert.True(t, model.StatusNoShow.Terminal())
	assert.False(t, model.StatusPending.Terminal())
	assert.False(t, model.StatusConfirmed.Terminal())
	assert.False(t, model.StatusCheckedIn.Terminal())
}

func TestBooking_Active(t *testing.T) {
	booking := model.Booking{Status: model.StatusConfirmed}
	assert.True(t, booking.Active())

	booking.Status = model.StatusCancelled
	assert.False(t, booking.Active())

	booking.Status = model.StatusNoShow
	assert.False(t, booking.Active())
}

func TestNightlyRates_RoundTrip(t *testing.T) {
	rates := model.NightlyRates{
		{Date: time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("100")},
		{Date: time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("150")},
	}

	value, err := rates.Value()
	require.NoError(t, err)

	raw, ok := value.([]byte)
	require.True(t, ok)

	var scanned model.NightlyRates
	require.NoError(t, scanned.Scan(raw))

	require.Len(t, scanned, 2)
	assert.True(t, scanned[1].Rate.Equal(rates[1].Rate))
}

func TestNightlyRates_ScanNil(t *testing.T) {
	scanned := model.NightlyRates{{Rate: decimal.NewFromInt(1)}}
	require.NoError(t, scanned.Scan(nil))

	assert.Nil(t, scanned)
}

func TestBooking_Stay(t *testing.T) {
	booking := model.Booking{
		CheckIn:  time.Date(2026, time.September, 4, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, time.September, 6, 11, 0, 0, 0, time.UTC),
	}

	stay, err := booking.Stay()
	require.NoError(t, err)

	assert.Equal(t, 2, stay.Nights())
}
