package model

import (
	"time"

	"github.com/shopspring/decimal"

	"lodge/internal/domains/room/availability"
	"lodge/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID                 = "id"
	FieldPropertyID         = "property_id"
	FieldName               = "name"
	FieldCapacity           = "capacity"
	FieldBaseRate           = "base_rate"
	FieldCurrency           = "currency"
	FieldWeekendRate        = "weekend_rate"
	FieldCleaningFee        = "cleaning_fee"
	FieldWeeklyDiscount     = "weekly_discount_percent"
	FieldCancellationPolicy = "cancellation_policy"
	FieldImage              = "image"
	FieldStatus             = "status"
)

const (
	SeasonTableName  = "room_season_prices"
	SeasonEntityName = "season_price"

	BlockedTableName  = "room_blocked_periods"
	BlockedEntityName = "blocked_period"

	FieldRoomID    = "room_id"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Room is one bookable unit of a property. Rooms are never deleted; owners
// deactivate them instead, and the query boundary filters on status.
type Room struct {
	ID                    string              `db:"id"`
	PropertyID            string              `db:"property_id"`
	Name                  string              `db:"name"`
	Capacity              int                 `db:"capacity"`
	BaseRate              decimal.Decimal     `db:"base_rate"`
	Currency              string              `db:"currency"`
	WeekendRate           decimal.NullDecimal `db:"weekend_rate"`
	CleaningFee           decimal.Decimal     `db:"cleaning_fee"`
	WeeklyDiscountPercent decimal.Decimal     `db:"weekly_discount_percent"`
	CancellationPolicy    string              `db:"cancellation_policy"`
	Image                 string              `db:"image"`
	Status                string              `db:"status"`
	model.Metadata
}

// SeasonPrice is a seasonal pricing window: any night whose date falls inside
// [StartDate, EndDate] has the room's base rate multiplied. Windows of one room
// must be pairwise disjoint; the room service rejects overlapping windows at
// write time.
type SeasonPrice struct {
	ID         string          `db:"id"`
	RoomID     string          `db:"room_id"`
	Name       string          `db:"name"`
	StartDate  time.Time       `db:"start_date"`
	EndDate    time.Time       `db:"end_date"`
	Multiplier decimal.Decimal `db:"multiplier"`
	model.Metadata
}

// Contains reports whether the night falls inside the window (inclusive dates).
func (s SeasonPrice) Contains(night time.Time) bool {
	d := availability.Date(night)

	return !d.Before(availability.Date(s.StartDate)) && !d.After(availability.Date(s.EndDate))
}

// OverlapsWindow reports whether two inclusive-date windows share a night.
func (s SeasonPrice) OverlapsWindow(o SeasonPrice) bool {
	return !availability.Date(s.StartDate).After(availability.Date(o.EndDate)) &&
		!availability.Date(o.StartDate).After(availability.Date(s.EndDate))
}

// BlockedPeriod is a maintenance or externally blocked range. It is distinct
// from a booking but the conflict detector checks it identically, as a
// half-open [StartDate, EndDate) interval.
type BlockedPeriod struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Reason    string    `db:"reason"`
	model.Metadata
}

// Interval returns the blocked range as a conflict-detector interval.
func (b BlockedPeriod) Interval() (availability.Interval, error) {
	return availability.NewInterval(b.StartDate, b.EndDate)
}
