package dto

import (
	"time"

	"github.com/google/uuid"

	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/pricing"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type QuoteRequest struct {
	RoomID   string `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
	Guests   int    `json:"guests"    validate:"required,min=1"`
}

func (q *QuoteRequest) StayDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.StayDateFormat, q.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = time.Parse(constant.StayDateFormat, q.CheckOut)

	return checkIn, checkOut, err
}

type CreateBookingRequest struct {
	RoomID     string `json:"room_id"     validate:"required"`
	GuestName  string `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string `json:"guest_email" validate:"omitempty,email,max=100"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=20"`
	CheckIn    string `json:"check_in"    validate:"required"`
	CheckOut   string `json:"check_out"   validate:"required"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
}

// ToModel builds the booking shell. Pricing fields and the policy snapshot
// are filled in by the service once the quote is computed.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	checkIn, err := time.Parse(constant.StayDateFormat, c.CheckIn)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(constant.StayDateFormat, c.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:         uuid.NewString(),
		RoomID:     c.RoomID,
		GuestID:    user,
		GuestName:  c.GuestName,
		GuestEmail: c.GuestEmail,
		GuestPhone: c.GuestPhone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     c.Guests,
		Status:     model.StatusPending,
		Version:    1,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type CancelBookingRequest struct {
	Version int64  `json:"version" validate:"required,min=1"`
	Reason  string `json:"reason"  validate:"omitempty,max=255"`
}

type RecordPaymentRequest struct {
	Version int64  `json:"version" validate:"required,min=1"`
	Amount  string `json:"amount"  validate:"required"`
}

type TransitionRequest struct {
	Version int64 `json:"version" validate:"required,min=1"`
}

type AvailabilityRequest struct {
	RoomID   string `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}

type NightRateResponse struct {
	Date string `json:"date"`
	Rate string `json:"rate"`
}

type ChargeResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type QuoteResponse struct {
	RoomID        string              `json:"room_id"`
	CheckIn       string              `json:"check_in"`
	CheckOut      string              `json:"check_out"`
	Guests        int                 `json:"guests"`
	Currency      string              `json:"currency"`
	Nights        []NightRateResponse `json:"nights"`
	Subtotal      string              `json:"subtotal"`
	Fees          []ChargeResponse    `json:"fees"`
	FeeTotal      string              `json:"fee_total"`
	Discounts     []ChargeResponse    `json:"discounts"`
	DiscountTotal string              `json:"discount_total"`
	TaxTotal      string              `json:"tax_total"`
	Total         string              `json:"total"`
}

func (r *QuoteResponse) FromBreakdown(roomID string, checkIn, checkOut time.Time, guests int, breakdown pricing.Breakdown) {
	r.RoomID = roomID
	r.CheckIn = checkIn.Format(constant.StayDateFormat)
	r.CheckOut = checkOut.Format(constant.StayDateFormat)
	r.Guests = guests
	r.Currency = breakdown.Currency

	r.Nights = make([]NightRateResponse, len(breakdown.Nights))
	for i, night := range breakdown.Nights {
		r.Nights[i] = NightRateResponse{
			Date: night.Date.Format(constant.StayDateFormat),
			Rate: night.Rate.StringFixed(2),
		}
	}

	r.Subtotal = breakdown.Subtotal.StringFixed(2)
	r.Fees = chargeResponses(breakdown.Fees)
	r.FeeTotal = breakdown.FeeTotal.StringFixed(2)
	r.Discounts = chargeResponses(breakdown.Discounts)
	r.DiscountTotal = breakdown.DiscountTotal.StringFixed(2)
	r.TaxTotal = breakdown.TaxTotal.StringFixed(2)
	r.Total = breakdown.Total.StringFixed(2)
}

func chargeResponses(charges []pricing.AppliedCharge) []ChargeResponse {
	res := make([]ChargeResponse, len(charges))
	for i, charge := range charges {
		res[i] = ChargeResponse{Name: charge.Name, Amount: charge.Amount.StringFixed(2)}
	}

	return res
}

type BookingResponse struct {
	ID                 string              `json:"id"`
	RoomID             string              `json:"room_id"`
	GuestID            string              `json:"guest_id"`
	GuestName          string              `json:"guest_name"`
	GuestEmail         string              `json:"guest_email"`
	GuestPhone         string              `json:"guest_phone"`
	CheckIn            string              `json:"check_in"`
	CheckOut           string              `json:"check_out"`
	Guests             int                 `json:"guests"`
	Status             string              `json:"status"`
	Version            int64               `json:"version"`
	Currency           string              `json:"currency"`
	Nights             []NightRateResponse `json:"nights"`
	Subtotal           string              `json:"subtotal"`
	FeeTotal           string              `json:"fee_total"`
	DiscountTotal      string              `json:"discount_total"`
	TaxTotal           string              `json:"tax_total"`
	Total              string              `json:"total"`
	CancellationPolicy string              `json:"cancellation_policy"`
	CheckedInAt        string              `json:"checked_in_at,omitempty"`
	CheckedOutAt       string              `json:"checked_out_at,omitempty"`
	PaidAmount         string              `json:"paid_amount,omitempty"`
	PaidAt             string              `json:"paid_at,omitempty"`
	CancelledAt        string              `json:"cancelled_at,omitempty"`
	CancelledBy        string              `json:"cancelled_by,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	RefundAmount       string              `json:"refund_amount,omitempty"`
	CancellationFee    string              `json:"cancellation_fee,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.GuestID = mod.GuestID
	r.GuestName = mod.GuestName
	r.GuestEmail = mod.GuestEmail
	r.GuestPhone = mod.GuestPhone
	r.CheckIn = mod.CheckIn.Format(constant.StayDateFormat)
	r.CheckOut = mod.CheckOut.Format(constant.StayDateFormat)
	r.Guests = mod.Guests
	r.Status = mod.Status.String()
	r.Version = mod.Version
	r.Currency = mod.Currency

	r.Nights = make([]NightRateResponse, len(mod.NightlyRates))
	for i, night := range mod.NightlyRates {
		r.Nights[i] = NightRateResponse{
			Date: night.Date.Format(constant.StayDateFormat),
			Rate: night.Rate.StringFixed(2),
		}
	}

	r.Subtotal = mod.Subtotal.StringFixed(2)
	r.FeeTotal = mod.FeeTotal.StringFixed(2)
	r.DiscountTotal = mod.DiscountTotal.StringFixed(2)
	r.TaxTotal = mod.TaxTotal.StringFixed(2)
	r.Total = mod.Total.StringFixed(2)
	r.CancellationPolicy = mod.CancellationPolicy

	if mod.PaidAmount.Valid {
		r.PaidAmount = mod.PaidAmount.Decimal.StringFixed(2)
	}

	if mod.CheckedInAt.Valid {
		r.CheckedInAt = mod.CheckedInAt.Time.Format(time.RFC3339)
	}

	if mod.CheckedOutAt.Valid {
		r.CheckedOutAt = mod.CheckedOutAt.Time.Format(time.RFC3339)
	}

	if mod.PaidAt.Valid {
		r.PaidAt = mod.PaidAt.Time.Format(time.RFC3339)
	}

	if mod.CancelledAt.Valid {
		r.CancelledAt = mod.CancelledAt.Time.Format(time.RFC3339)
	}

	r.CancelledBy = mod.CancelledBy.String
	r.CancellationReason = mod.CancellationReason.String

	if mod.RefundAmount.Valid {
		r.RefundAmount = mod.RefundAmount.Decimal.StringFixed(2)
	}

	if mod.CancellationFee.Valid {
		r.CancellationFee = mod.CancellationFee.Decimal.StringFixed(2)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
