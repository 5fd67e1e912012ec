package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lodge/config"
	kafkaMocks "lodge/infras/kafka/mocks"
	"lodge/infras/otel/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/policy"
	"lodge/internal/domains/booking/service"
	"lodge/internal/domains/room/availability"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	producer *kafkaMocks.MockProducer
	svc      service.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := bookingMocks.NewMockBooking(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	producer := kafkaMocks.NewMockProducer(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.TaxRate = "0"
	cfg.Booking.ServiceFeePercent = "0"
	cfg.Booking.WeeklyStayNights = 7

	// Async cache writes race with test teardown, so they are always optional.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, roomRepo, cfg, mockCache, mocks.NewOtel(), producer, policy.Default())

	return &fixture{
		repo:     repo,
		roomRepo: roomRepo,
		cache:    mockCache,
		producer: producer,
		svc:      svc,
	}
}

func activeRoom() roomModel.Room {
	return roomModel.Room{
		ID:                 "room-1",
		Name:               "Deluxe King",
		Capacity:           2,
		BaseRate:           decimal.RequireFromString("100"),
		Currency:           "USD",
		CancellationPolicy: policy.TierFlexible,
		Status:             roomModel.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		GuestName: "Ada Lovelace",
		CheckIn:   "2026-09-07",
		CheckOut:  "2026-09-09",
		Guests:    2,
	}

	t.Run("successful creation", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)
		f.repo.EXPECT().ActiveIntervals(gomock.Any(), "room-1", gomock.Any()).Return(nil, nil)
		f.roomRepo.EXPECT().GetBlockedPeriods(gomock.Any(), "room-1").Return(nil, nil)
		f.repo.EXPECT().InsertReserved(gomock.Any(), gomock.Any()).Return(nil)
		f.producer.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")

		res, err := f.svc.Create(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusPending), res.Status)
		assert.Equal(t, int64(1), res.Version)
		assert.Equal(t, "200.00", res.Total)
		assert.Len(t, res.Nights, 2)
	})

	t.Run("room already booked", func(t *testing.T) {
		f := newFixture(t)

		taken, err := availability.NewInterval(
			time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)
		f.repo.EXPECT().ActiveIntervals(gomock.Any(), "room-1", gomock.Any()).Return([]availability.Interval{taken}, nil)
		f.roomRepo.EXPECT().GetBlockedPeriods(gomock.Any(), "room-1").Return(nil, nil)

		_, err = f.svc.Create(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindRoomUnavailable))
	})

	t.Run("lost race inside the transaction", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)
		f.repo.EXPECT().ActiveIntervals(gomock.Any(), "room-1", gomock.Any()).Return(nil, nil)
		f.roomRepo.EXPECT().GetBlockedPeriods(gomock.Any(), "room-1").Return(nil, nil)
		f.repo.EXPECT().InsertReserved(gomock.Any(), gomock.Any()).
			Return(failure.RoomUnavailable("room is no longer available for the requested dates"))

		_, err := f.svc.Create(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindRoomUnavailable))
	})

	t.Run("zero night stay", func(t *testing.T) {
		f := newFixture(t)

		bad := req
		bad.CheckOut = bad.CheckIn

		_, err := f.svc.Create(context.Background(), bad)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := f.svc.Create(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("inactive room", func(t *testing.T) {
		f := newFixture(t)

		room := activeRoom()
		room.Status = roomModel.StatusInactive

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)

		_, err := f.svc.Create(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindRoomUnavailable))
	})

	t.Run("over capacity", func(t *testing.T) {
		f := newFixture(t)

		bad := req
		bad.Guests = 5

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)

		_, err := f.svc.Create(context.Background(), bad)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})
}

func TestBookingService_Confirm(t *testing.T) {
	t.Run("pending booking confirms", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", RoomID: "room-1", Status: model.StatusPending, Version: 1}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(1), gomock.Any()).Return(nil)
		f.producer.EXPECT().Publish(gomock.Any(), "booking-1", gomock.Any()).Return(nil)

		res, err := f.svc.Confirm(context.Background(), "booking-1", 1)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusConfirmed), res.Status)
	})

	t.Run("cancelled booking cannot confirm", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", Status: model.StatusCancelled, Version: 3}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Confirm(context.Background(), "booking-1", 3)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStateTransition))
	})

	t.Run("stale version", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", Status: model.StatusPending, Version: 2}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(1), gomock.Any()).
			Return(failure.ConcurrentModification(model.EntityName))

		_, err := f.svc.Confirm(context.Background(), "booking-1", 1)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindConcurrentModification))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Confirm(context.Background(), "nope", 1)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	t.Run("confirmed checks in", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", Status: model.StatusConfirmed, Version: 2}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(2), gomock.Any()).Return(nil)
		f.producer.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CheckIn(context.Background(), "booking-1", 2)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusCheckedIn), res.Status)
		assert.NotEmpty(t, res.CheckedInAt)
	})

	t.Run("pending cannot check in", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", Status: model.StatusPending, Version: 1}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.CheckIn(context.Background(), "booking-1", 1)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStateTransition))
	})

	t.Run("checked in checks out", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{ID: "booking-1", Status: model.StatusCheckedIn, Version: 3}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(3), gomock.Any()).Return(nil)
		f.producer.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CheckOut(context.Background(), "booking-1", 3)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusCheckedOut), res.Status)
		assert.NotEmpty(t, res.CheckedOutAt)
	})
}

func TestBookingService_MarkNoShow(t *testing.T) {
	t.Run("before check-in date", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{
			ID:      "booking-1",
			Status:  model.StatusConfirmed,
			Version: 2,
			CheckIn: timezone.Now().AddDate(0, 0, 3),
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.MarkNoShow(context.Background(), "booking-1", 2)

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("after check-in date", func(t *testing.T) {
		f := newFixture(t)

		booking := model.Booking{
			ID:      "booking-1",
			Status:  model.StatusConfirmed,
			Version: 2,
			CheckIn: timezone.Now().AddDate(0, 0, -1),
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil).Times(2)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(2), gomock.Any()).Return(nil)
		f.producer.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.MarkNoShow(context.Background(), "booking-1", 2)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusNoShow), res.Status)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	base := model.Booking{
		ID:                 "booking-1",
		RoomID:             "room-1",
		Status:             model.StatusConfirmed,
		Version:            2,
		Total:              decimal.RequireFromString("250.00"),
		CancellationPolicy: policy.TierFlexible,
	}

	t.Run("cancellable with refund", func(t *testing.T) {
		f := newFixture(t)

		booking := base
		booking.CheckIn = timezone.Now().Add(48 * time.Hour)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil).Times(2)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(2), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ int64, fields map[string]any) error {
				refund, ok := fields["refund_amount"].(decimal.Decimal)
				require.True(t, ok)
				fee, ok := fields["cancellation_fee"].(decimal.Decimal)
				require.True(t, ok)

				assert.True(t, refund.Add(fee).Equal(booking.Total))

				return nil
			})
		f.producer.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Cancel(context.Background(), "booking-1", 2, dto.CancelBookingRequest{Reason: "change of plans"})
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusCancelled), res.Status)
		assert.Equal(t, "change of plans", res.CancellationReason)
		assert.NotEmpty(t, res.RefundAmount)
		assert.NotEmpty(t, res.CancellationFee)
	})

	t.Run("past the deadline", func(t *testing.T) {
		f := newFixture(t)

		booking := base
		booking.CheckIn = timezone.Now().Add(10 * time.Hour)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Cancel(context.Background(), "booking-1", 2, dto.CancelBookingRequest{})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindCancellationNotAllowed))
	})

	t.Run("checked in cannot cancel", func(t *testing.T) {
		f := newFixture(t)

		booking := base
		booking.Status = model.StatusCheckedIn

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Cancel(context.Background(), "booking-1", 2, dto.CancelBookingRequest{})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStateTransition))
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newFixture(t)

		booking := base
		booking.Status = model.StatusCancelled

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Cancel(context.Background(), "booking-1", 2, dto.CancelBookingRequest{})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindCancellationNotAllowed))
	})
}

func TestBookingService_RecordPayment(t *testing.T) {
	booking := model.Booking{
		ID:      "booking-1",
		Status:  model.StatusPending,
		Version: 1,
		Total:   decimal.RequireFromString("250.00"),
	}

	t.Run("matching amount", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateVersioned(gomock.Any(), "booking-1", int64(1), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.RecordPayment(context.Background(), "booking-1", 1, dto.RecordPaymentRequest{Amount: "250.00"}))
	})

	t.Run("amount mismatch", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.RecordPayment(context.Background(), "booking-1", 1, dto.RecordPaymentRequest{Amount: "200.00"})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("invalid amount", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.RecordPayment(context.Background(), "booking-1", 1, dto.RecordPaymentRequest{Amount: "abc"})

		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})
}

func TestBookingService_Quote(t *testing.T) {
	req := dto.QuoteRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-09-07",
		CheckOut: "2026-09-09",
		Guests:   2,
	}

	t.Run("two weekday nights", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)

		res, err := f.svc.Quote(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "200.00", res.Subtotal)
		assert.Equal(t, "200.00", res.Total)
		assert.Len(t, res.Nights, 2)
	})

	t.Run("cleaning fee applies", func(t *testing.T) {
		f := newFixture(t)

		room := activeRoom()
		room.CleaningFee = decimal.RequireFromString("50")

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.roomRepo.EXPECT().GetSeasonPrices(gomock.Any(), "room-1").Return(nil, nil)

		res, err := f.svc.Quote(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "50.00", res.FeeTotal)
		assert.Equal(t, "250.00", res.Total)
	})
}

func TestBookingService_CheckAvailability(t *testing.T) {
	req := dto.AvailabilityRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-09-07",
		CheckOut: "2026-09-09",
	}

	t.Run("abutting stay is available", func(t *testing.T) {
		f := newFixture(t)

		taken, err := availability.NewInterval(
			time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.September, 11, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.repo.EXPECT().ActiveIntervals(gomock.Any(), "room-1", gomock.Any()).Return([]availability.Interval{taken}, nil)
		f.roomRepo.EXPECT().GetBlockedPeriods(gomock.Any(), "room-1").Return(nil, nil)

		res, err := f.svc.CheckAvailability(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, res.Available)
	})

	t.Run("blocked period takes the dates", func(t *testing.T) {
		f := newFixture(t)

		blocked := []roomModel.BlockedPeriod{{
			ID:        "blocked-1",
			RoomID:    "room-1",
			StartDate: time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		}}

		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		f.repo.EXPECT().ActiveIntervals(gomock.Any(), "room-1", gomock.Any()).Return(nil, nil)
		f.roomRepo.EXPECT().GetBlockedPeriods(gomock.Any(), "room-1").Return(blocked, nil)

		res, err := f.svc.CheckAvailability(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, res.Available)
	})
}
