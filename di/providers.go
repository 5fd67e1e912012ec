package di

import (
	"lodge/config"

	"lodge/internal/domains/booking/policy"
	bookingRepository "lodge/internal/domains/booking/repository"
	roomService "lodge/internal/domains/room/service"

	"github.com/rs/zerolog/log"
)

// newPolicyTable loads the cancellation refund table once at startup. A
// malformed override is a deployment mistake, so it aborts rather than
// silently running with the default.
func newPolicyTable(cfg *config.Config) policy.Table {
	table, err := policy.FromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load cancellation policy table")
	}

	return table
}

// newBookingIntervals exposes the booking repository to the room domain as
// the narrow read-only view it needs for blocked period checks.
func newBookingIntervals(repo bookingRepository.Booking) roomService.BookingIntervals {
	return repo
}
