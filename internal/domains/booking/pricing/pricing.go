// Package pricing computes stay totals. Rates are resolved night by night so
// seasonal boundaries that fall inside a stay are priced correctly, then fees,
// discounts and tax are applied in a fixed order over the original subtotal.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"lodge/internal/domains/room/availability"
	roomModel "lodge/internal/domains/room/model"
	"lodge/shared/failure"
)

const (
	ChargeFixed   = "fixed"
	ChargePercent = "percent"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Charge is a fee or discount line: a fixed amount, or a percentage of the
// original subtotal. Percentages are never compounded against a running total.
type Charge struct {
	Name  string
	Kind  string
	Value decimal.Decimal
}

// AppliedCharge is a charge resolved to a concrete amount.
type AppliedCharge struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// NightRate is the resolved rate of one calendar night.
type NightRate struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// Breakdown is the full pricing result of a stay.
type Breakdown struct {
	Nights        []NightRate     `json:"nights"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Fees          []AppliedCharge `json:"fees"`
	FeeTotal      decimal.Decimal `json:"fee_total"`
	Discounts     []AppliedCharge `json:"discounts"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
}

// NightlyRate resolves the rate of a single night. A containing seasonal
// window wins over the weekend override, which wins over the base rate.
// Seasonal windows are disjoint per room (enforced at write time), so the
// first containing window is the only one.
func NightlyRate(room roomModel.Room, seasons []roomModel.SeasonPrice, night time.Time) decimal.Decimal {
	for _, season := range seasons {
		if season.Contains(night) {
			return room.BaseRate.Mul(season.Multiplier).Round(2)
		}
	}

	if room.WeekendRate.Valid && isWeekend(night) {
		return room.WeekendRate.Decimal.Round(2)
	}

	return room.BaseRate.Round(2)
}

// Quote prices a stay of [checkIn, checkOut) for the given occupancy. Fees and
// discounts are applied in listing order; tax applies to the subtotal. The
// total is floored at zero and rounded half-up to two decimal places.
func Quote(
	room roomModel.Room,
	seasons []roomModel.SeasonPrice,
	checkIn, checkOut time.Time,
	guests int,
	fees, discounts []Charge,
	taxRate decimal.Decimal,
) (Breakdown, error) {
	stay, err := availability.NewInterval(checkIn, checkOut)
	if err != nil {
		return Breakdown{}, failure.Validation("check-out date must be after check-in date") //nolint:wrapcheck
	}

	if guests < 1 {
		return Breakdown{}, failure.Validation("at least one guest is required") //nolint:wrapcheck
	}

	if guests > room.Capacity {
		return Breakdown{}, failure.Validation(fmt.Sprintf("occupancy %d exceeds room capacity %d", guests, room.Capacity)) //nolint:wrapcheck
	}

	breakdown := Breakdown{Currency: room.Currency}

	for night := stay.Start; night.Before(stay.End); night = night.AddDate(0, 0, 1) {
		rate := NightlyRate(room, seasons, night)

		breakdown.Nights = append(breakdown.Nights, NightRate{Date: night, Rate: rate})
		breakdown.Subtotal = breakdown.Subtotal.Add(rate)
	}

	breakdown.Fees, breakdown.FeeTotal = applyCharges(fees, breakdown.Subtotal)
	breakdown.Discounts, breakdown.DiscountTotal = applyCharges(discounts, breakdown.Subtotal)
	breakdown.TaxTotal = breakdown.Subtotal.Mul(taxRate).Round(2)

	total := breakdown.Subtotal.
		Add(breakdown.FeeTotal).
		Sub(breakdown.DiscountTotal).
		Add(breakdown.TaxTotal)

	if total.IsNegative() {
		total = decimal.Zero
	}

	breakdown.Total = total.Round(2)

	return breakdown, nil
}

// applyCharges resolves charges in listing order. Percentage charges are
// computed against the original subtotal, not a running total.
func applyCharges(charges []Charge, subtotal decimal.Decimal) ([]AppliedCharge, decimal.Decimal) {
	applied := make([]AppliedCharge, 0, len(charges))
	total := decimal.Zero

	for _, charge := range charges {
		amount := charge.Value

		if charge.Kind == ChargePercent {
			amount = subtotal.Mul(charge.Value).Div(hundred)
		}

		amount = amount.Round(2)

		applied = append(applied, AppliedCharge{Name: charge.Name, Amount: amount})
		total = total.Add(amount)
	}

	return applied, total
}

func isWeekend(night time.Time) bool {
	weekday := night.UTC().Weekday()

	return weekday == time.Saturday || weekday == time.Sunday
}
