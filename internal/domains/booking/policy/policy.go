// Package policy evaluates cancellation policies. The refund schedule is
// plain data loaded from configuration, never hard-coded percentages, so
// operators can tune tiers without a deploy.
package policy

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"lodge/config"
)

const (
	TierFlexible    = "flexible"
	TierModerate    = "moderate"
	TierStrict      = "strict"
	TierSuperStrict = "super_strict"
)

var hundred = decimal.NewFromInt(100)

// Band grants a refund percentage to cancellations made at least AtLeastHours
// before check-in. Bands of a schedule are matched from the largest lead down.
type Band struct {
	AtLeastHours  int             `json:"at_least_hours"`
	RefundPercent decimal.Decimal `json:"refund_percent"`
}

// Rule is one policy tier. Cancellation is allowed only strictly more than
// MinLeadHours before check-in.
type Rule struct {
	MinLeadHours int    `json:"min_lead_hours"`
	Schedule     []Band `json:"schedule"`
}

// Table maps a tier name to its rule.
type Table map[string]Rule

// Result is the outcome of evaluating a cancellation request. RefundAmount
// and CancellationFee always sum exactly to the booking total.
type Result struct {
	Cancellable     bool
	RefundAmount    decimal.Decimal
	CancellationFee decimal.Decimal
}

// Default returns the built-in refund table. It is the fallback when no
// table is configured.
func Default() Table {
	return Table{
		TierFlexible: {
			MinLeadHours: 24,
			Schedule: []Band{
				{AtLeastHours: 168, RefundPercent: decimal.NewFromInt(100)},
				{AtLeastHours: 24, RefundPercent: decimal.NewFromInt(80)},
			},
		},
		TierModerate: {
			MinLeadHours: 48,
			Schedule: []Band{
				{AtLeastHours: 336, RefundPercent: decimal.NewFromInt(100)},
				{AtLeastHours: 48, RefundPercent: decimal.NewFromInt(50)},
			},
		},
		TierStrict: {
			MinLeadHours: 168,
			Schedule: []Band{
				{AtLeastHours: 336, RefundPercent: decimal.NewFromInt(100)},
				{AtLeastHours: 168, RefundPercent: decimal.NewFromInt(50)},
			},
		},
		TierSuperStrict: {
			MinLeadHours: 336,
			Schedule: []Band{
				{AtLeastHours: 336, RefundPercent: decimal.NewFromInt(50)},
			},
		},
	}
}

// Parse decodes a refund table from its JSON representation.
func Parse(raw string) (Table, error) {
	var table Table
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("parsing cancellation policy table: %w", err)
	}

	for tier, rule := range table {
		if len(rule.Schedule) == 0 {
			return nil, fmt.Errorf("cancellation policy tier %s has an empty schedule", tier)
		}
	}

	return table, nil
}

// FromConfig loads the refund table from configuration, falling back to the
// built-in default when none is set.
func FromConfig(cfg *config.Config) (Table, error) {
	if cfg.Booking.CancellationPolicy == "" {
		return Default(), nil
	}

	return Parse(cfg.Booking.CancellationPolicy)
}

// Evaluate decides whether a booking priced at total and checking in at
// checkIn may be cancelled at now, and what the refund is. An unknown tier
// is an error; a known tier past its deadline yields Cancellable false.
func (t Table) Evaluate(tier string, total decimal.Decimal, checkIn, now time.Time) (Result, error) {
	rule, ok := t[tier]
	if !ok {
		return Result{}, fmt.Errorf("unknown cancellation policy tier %q", tier)
	}

	lead := checkIn.Sub(now).Hours()
	if lead <= float64(rule.MinLeadHours) {
		return Result{Cancellable: false}, nil
	}

	refund := total.Mul(t.refundPercent(rule, lead)).Div(hundred).Round(2)

	return Result{
		Cancellable:     true,
		RefundAmount:    refund,
		CancellationFee: total.Sub(refund),
	}, nil
}

// refundPercent picks the band with the largest lead the cancellation still
// satisfies.
func (t Table) refundPercent(rule Rule, lead float64) decimal.Decimal {
	bands := make([]Band, len(rule.Schedule))
	copy(bands, rule.Schedule)
	sort.Slice(bands, func(i, j int) bool { return bands[i].AtLeastHours > bands[j].AtLeastHours })

	for _, band := range bands {
		if lead >= float64(band.AtLeastHours) {
			return band.RefundPercent
		}
	}

	return decimal.Zero
}

// MinLeadDuration exposes a tier's cancellation deadline as a duration, for
// error messages.
func (t Table) MinLeadDuration(tier string) time.Duration {
	rule, ok := t[tier]
	if !ok {
		return 0
	}

	return time.Duration(rule.MinLeadHours) * time.Hour
}
