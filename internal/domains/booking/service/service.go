package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/policy"
	"lodge/internal/domains/booking/pricing"
	"lodge/internal/domains/booking/repository"
	"lodge/internal/domains/room/availability"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	feeCleaning = "cleaning_fee"
	feeService  = "service_fee"

	discountWeekly = "weekly_stay"
)

// Event is the lifecycle message published to the booking topic.
type Event struct {
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

type Booking interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string, version int64) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string, version int64) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string, version int64) (dto.BookingResponse, error)
	MarkNoShow(ctx context.Context, id string, version int64) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, version int64, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	RecordPayment(ctx context.Context, id string, version int64, req dto.RecordPaymentRequest) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	producer   kafka.Producer
	policies   policy.Table
	taxRate    decimal.Decimal
	serviceFee decimal.Decimal
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, producer kafka.Producer, policies policy.Table) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		producer:   producer,
		policies:   policies,
		taxRate:    parseRate(cfg.Booking.TaxRate, "tax rate"),
		serviceFee: parseRate(cfg.Booking.ServiceFeePercent, "service fee percent"),
	}
}

func parseRate(raw, name string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		log.Error().Err(err).Str("value", raw).Msgf("invalid %s, using zero", name)

		return decimal.Zero
	}

	return rate
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return res, failure.Validation(fmt.Sprintf("invalid stay dates: %v", err)) //nolint:wrapcheck
	}

	room, err := s.requireActiveRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	breakdown, err := s.price(ctx, room, checkIn, checkOut, req.Guests)
	if err != nil {
		return res, err
	}

	res.FromBreakdown(room.ID, checkIn, checkOut, req.Guests, breakdown)

	return res, nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	quoteReq := dto.QuoteRequest{RoomID: req.RoomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut}

	checkIn, checkOut, err := quoteReq.StayDates()
	if err != nil {
		return res, failure.Validation(fmt.Sprintf("invalid stay dates: %v", err)) //nolint:wrapcheck
	}

	stay, err := availability.NewInterval(checkIn, checkOut)
	if err != nil {
		return res, failure.Validation("check-out date must be after check-in date") //nolint:wrapcheck
	}

	if _, err = s.requireActiveRoom(ctx, req.RoomID); err != nil {
		return res, err
	}

	index, err := s.occupancy(ctx, req.RoomID, stay)
	if err != nil {
		return res, err
	}

	res = dto.AvailabilityResponse{
		RoomID:    req.RoomID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Available: index.CanAdmit(stay),
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return res, failure.Validation(fmt.Sprintf("invalid stay dates: %v", err)) //nolint:wrapcheck
	}

	stay, err := booking.Stay()
	if err != nil {
		return res, failure.Validation("check-out date must be after check-in date") //nolint:wrapcheck
	}

	room, err := s.requireActiveRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	breakdown, err := s.price(ctx, room, booking.CheckIn, booking.CheckOut, req.Guests)
	if err != nil {
		return res, err
	}

	booking.Currency = breakdown.Currency
	booking.Subtotal = breakdown.Subtotal
	booking.FeeTotal = breakdown.FeeTotal
	booking.DiscountTotal = breakdown.DiscountTotal
	booking.TaxTotal = breakdown.TaxTotal
	booking.Total = breakdown.Total
	booking.NightlyRates = model.NightlyRates(breakdown.Nights)
	booking.CancellationPolicy = room.CancellationPolicy

	// Cheap pre-check before taking the room lock. The transaction inside
	// InsertReserved remains the authority.
	index, err := s.occupancy(ctx, req.RoomID, stay)
	if err != nil {
		return res, err
	}

	if conflict, found := index.Conflict(stay); found {
		return res, failure.RoomUnavailable(fmt.Sprintf("room is already booked during %s", conflict)) //nolint:wrapcheck
	}

	if err = s.repo.InsertReserved(ctx, booking); err != nil {
		if failure.IsKind(err, failure.KindRoomUnavailable) {
			return res, err
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishEvent(ctx, booking.ID, booking.RoomID, booking.Status)
	s.invalidateBookingCaches(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string, version int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.transition(ctx, id, version, model.StatusConfirmed, nil)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string, version int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:        model.StatusCheckedIn,
		model.FieldCheckedInAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	booking, err := s.transition(ctx, id, version, model.StatusCheckedIn, fields)
	if err != nil {
		return res, err
	}

	booking.CheckedInAt = sql.NullTime{Time: now, Valid: true}
	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string, version int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:        model.StatusCheckedOut,
		model.FieldCheckedOutAt:  now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	booking, err := s.transition(ctx, id, version, model.StatusCheckedOut, fields)
	if err != nil {
		return res, err
	}

	booking.CheckedOutAt = sql.NullTime{Time: now, Valid: true}
	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, id string, version int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkNoShow")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.requireBooking(ctx, id)
	if err != nil {
		return res, err
	}

	// A guest is not a no-show until the check-in date has passed.
	if timezone.Now().Before(booking.CheckIn) {
		return res, failure.Validation("cannot mark a booking as no-show before its check-in date") //nolint:wrapcheck
	}

	booking, err = s.transition(ctx, id, version, model.StatusNoShow, nil)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, version int64, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.requireBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status.Terminal() {
		return res, failure.CancellationNotAllowed(fmt.Sprintf("a %s booking cannot be cancelled", booking.Status)) //nolint:wrapcheck
	}

	if !booking.Status.CanTransitionTo(model.StatusCancelled) {
		return res, failure.InvalidStateTransition(booking.Status.String(), model.StatusCancelled.String()) //nolint:wrapcheck
	}

	now := timezone.Now()

	outcome, err := s.policies.Evaluate(booking.CancellationPolicy, booking.Total, booking.CheckIn, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to evaluate cancellation policy")

		return res, fmt.Errorf("failed to evaluate cancellation policy: %w", err)
	}

	if !outcome.Cancellable {
		return res, failure.CancellationNotAllowed(fmt.Sprintf(
			"the %s policy requires more than %s notice before check-in",
			booking.CancellationPolicy, s.policies.MinLeadDuration(booking.CancellationPolicy),
		)) //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		"cancelled_at":           now,
		"cancelled_by":           user,
		"cancellation_reason":    req.Reason,
		"refund_amount":          outcome.RefundAmount,
		"cancellation_fee":       outcome.CancellationFee,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	booking, err = s.transition(ctx, id, version, model.StatusCancelled, fields)
	if err != nil {
		return res, err
	}

	booking.CancelledAt = sql.NullTime{Time: now, Valid: true}
	booking.CancelledBy = sql.NullString{String: user, Valid: user != ""}
	booking.CancellationReason = sql.NullString{String: req.Reason, Valid: req.Reason != ""}
	booking.RefundAmount = decimal.NewNullDecimal(outcome.RefundAmount)
	booking.CancellationFee = decimal.NewNullDecimal(outcome.CancellationFee)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) RecordPayment(ctx context.Context, id string, version int64, req dto.RecordPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return failure.Validation("payment amount must be a positive number") //nolint:wrapcheck
	}

	booking, err := s.requireBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending && booking.Status != model.StatusConfirmed {
		return failure.Validation(fmt.Sprintf("cannot record a payment on a %s booking", booking.Status)) //nolint:wrapcheck
	}

	if !amount.Equal(booking.Total) {
		return failure.Validation(fmt.Sprintf("payment amount %s does not match booking total %s", amount.StringFixed(2), booking.Total.StringFixed(2))) //nolint:wrapcheck
	}

	now := timezone.Now()

	fields := map[string]any{
		"paid_amount":            amount,
		"paid_at":                now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.UpdateVersioned(ctx, id, version, fields); err != nil {
		if failure.GetKind(err) != "" {
			return err
		}

		log.Error().Err(err).Msg("failed to record payment")

		return fmt.Errorf("failed to record payment: %w", err)
	}

	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.requireBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// price assembles the charge lines the room and configuration define and
// delegates to the pricing engine.
func (s *serviceImpl) price(ctx context.Context, room roomModel.Room, checkIn, checkOut time.Time, guests int) (pricing.Breakdown, error) {
	seasons, err := s.roomRepo.GetSeasonPrices(ctx, room.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get season prices")

		return pricing.Breakdown{}, fmt.Errorf("failed to get season prices: %w", err)
	}

	var fees []pricing.Charge

	if room.CleaningFee.IsPositive() {
		fees = append(fees, pricing.Charge{Name: feeCleaning, Kind: pricing.ChargeFixed, Value: room.CleaningFee})
	}

	if s.serviceFee.IsPositive() {
		fees = append(fees, pricing.Charge{Name: feeService, Kind: pricing.ChargePercent, Value: s.serviceFee})
	}

	var discounts []pricing.Charge

	stay, err := availability.NewInterval(checkIn, checkOut)
	if err == nil && room.WeeklyDiscountPercent.IsPositive() && stay.Nights() >= s.cfg.Booking.WeeklyStayNights {
		discounts = append(discounts, pricing.Charge{Name: discountWeekly, Kind: pricing.ChargePercent, Value: room.WeeklyDiscountPercent})
	}

	breakdown, err := pricing.Quote(room, seasons, checkIn, checkOut, guests, fees, discounts, s.taxRate)
	if err != nil {
		return pricing.Breakdown{}, err //nolint:wrapcheck
	}

	return breakdown, nil
}

// occupancy builds the conflict index of a room from its active bookings and
// blocked periods.
func (s *serviceImpl) occupancy(ctx context.Context, roomID string, within availability.Interval) (availability.Index, error) {
	index := availability.NewIndex()

	booked, err := s.repo.ActiveIntervals(ctx, roomID, within)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active intervals")

		return index, fmt.Errorf("failed to get active intervals: %w", err)
	}

	for _, interval := range booked {
		index.Add(interval)
	}

	blocked, err := s.roomRepo.GetBlockedPeriods(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked periods")

		return index, fmt.Errorf("failed to get blocked periods: %w", err)
	}

	for _, period := range blocked {
		interval, err := period.Interval()
		if err != nil {
			continue
		}

		index.Add(interval)
	}

	return index, nil
}

// transition validates the lifecycle move, writes it guarded by the version,
// and emits the lifecycle event.
func (s *serviceImpl) transition(ctx context.Context, id string, version int64, next model.Status, fields map[string]any) (model.Booking, error) {
	booking, err := s.requireBooking(ctx, id)
	if err != nil {
		return booking, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return booking, failure.InvalidStateTransition(booking.Status.String(), next.String()) //nolint:wrapcheck
	}

	if fields == nil {
		user, _ := ctx.Value(constant.ContextKeyUserID).(string)

		fields = map[string]any{
			model.FieldStatus:        next,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}
	}

	if err = s.repo.UpdateVersioned(ctx, id, version, fields); err != nil {
		if failure.GetKind(err) != "" {
			return booking, err
		}

		log.Error().Err(err).Msg("failed to transition booking")

		return booking, fmt.Errorf("failed to transition booking: %w", err)
	}

	booking.Status = next
	booking.Version = version + 1

	s.publishEvent(ctx, booking.ID, booking.RoomID, next)
	s.invalidateBookingCaches(ctx, id)

	return booking, nil
}

func (s *serviceImpl) requireBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) requireActiveRoom(ctx context.Context, roomID string) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if room.Status != roomModel.StatusActive {
		return room, failure.RoomUnavailable("room is not open for booking") //nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, bookingID, roomID string, status model.Status) {
	event := Event{
		BookingID:  bookingID,
		RoomID:     roomID,
		Status:     status.String(),
		OccurredAt: timezone.Now().Format(time.RFC3339),
	}

	if err := s.producer.Publish(ctx, bookingID, event); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to publish booking event")
	}
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
