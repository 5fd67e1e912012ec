package model

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"lodge/internal/domains/booking/pricing"
	"lodge/internal/domains/room/availability"
	"lodge/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldGuestID    = "guest_id"
	FieldGuestName  = "guest_name"
	FieldGuestEmail = "guest_email"
	FieldCheckIn    = "check_in"
	FieldCheckOut   = "check_out"
	FieldGuests     = "guests"
	FieldStatus     = "status"
	FieldVersion    = "version"

	FieldCheckedInAt  = "checked_in_at"
	FieldCheckedOutAt = "checked_out_at"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// transitions is the full lifecycle graph. Anything not listed is invalid,
// including every move out of a terminal status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

// ActiveStatuses are the statuses that hold the room's dates. Cancelled and
// no-show bookings release their interval the moment the status is written.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the lifecycle graph allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// NightlyRates is the per-night rate snapshot taken at booking time, stored
// as jsonb so reprints never depend on current room pricing.
type NightlyRates []pricing.NightRate

func (n NightlyRates) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}

	raw, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshaling nightly rates: %w", err)
	}

	return raw, nil
}

func (n *NightlyRates) Scan(src any) error {
	if src == nil {
		*n = nil

		return nil
	}

	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into nightly rates", src)
	}

	if err := json.Unmarshal(raw, n); err != nil {
		return fmt.Errorf("unmarshaling nightly rates: %w", err)
	}

	return nil
}

// Booking is one reservation of one room for a half-open [CheckIn, CheckOut)
// date range. Version guards every status transition: writers compare the
// version they read and lose when another writer got there first.
type Booking struct {
	ID                 string              `db:"id"`
	RoomID             string              `db:"room_id"`
	GuestID            string              `db:"guest_id"`
	GuestName          string              `db:"guest_name"`
	GuestEmail         string              `db:"guest_email"`
	GuestPhone         string              `db:"guest_phone"`
	CheckIn            time.Time           `db:"check_in"`
	CheckOut           time.Time           `db:"check_out"`
	Guests             int                 `db:"guests"`
	Status             Status              `db:"status"`
	Version            int64               `db:"version"`
	Currency           string              `db:"currency"`
	Subtotal           decimal.Decimal     `db:"subtotal"`
	FeeTotal           decimal.Decimal     `db:"fee_total"`
	DiscountTotal      decimal.Decimal     `db:"discount_total"`
	TaxTotal           decimal.Decimal     `db:"tax_total"`
	Total              decimal.Decimal     `db:"total"`
	NightlyRates       NightlyRates        `db:"nightly_rates"`
	CancellationPolicy string              `db:"cancellation_policy"`
	PaidAmount         decimal.NullDecimal `db:"paid_amount"`
	PaidAt             sql.NullTime        `db:"paid_at"`
	CheckedInAt        sql.NullTime        `db:"checked_in_at"`
	CheckedOutAt       sql.NullTime        `db:"checked_out_at"`
	CancelledAt        sql.NullTime        `db:"cancelled_at"`
	CancelledBy        sql.NullString      `db:"cancelled_by"`
	CancellationReason sql.NullString      `db:"cancellation_reason"`
	RefundAmount       decimal.NullDecimal `db:"refund_amount"`
	CancellationFee    decimal.NullDecimal `db:"cancellation_fee"`
	model.Metadata
}

// Stay returns the booked date range as a conflict-detector interval.
func (b Booking) Stay() (availability.Interval, error) {
	return availability.NewInterval(b.CheckIn, b.CheckOut)
}

// Active reports whether the booking currently holds its room's dates.
func (b Booking) Active() bool {
	for _, status := range ActiveStatuses {
		if b.Status == status {
			return true
		}
	}

	return false
}
