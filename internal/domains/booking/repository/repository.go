package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/room/availability"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)

	InsertReserved(ctx context.Context, booking model.Booking) error
	UpdateVersioned(ctx context.Context, id string, version int64, fields map[string]any) error
	ActiveIntervals(ctx context.Context, roomID string, within availability.Interval) ([]availability.Interval, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const lockRoomQuery = `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`

const overlappingBookingQuery = `
	SELECT EXISTS(
		SELECT 1 FROM room_bookings
		WHERE room_id = $1
		  AND status IN ('pending', 'confirmed', 'checked_in')
		  AND check_in < $3
		  AND $2 < check_out
	)`

const overlappingBlockQuery = `
	SELECT EXISTS(
		SELECT 1 FROM room_blocked_periods
		WHERE room_id = $1
		  AND start_date < $3
		  AND $2 < end_date
	)`

// InsertReserved inserts the booking only if its date range is still free.
// The room row is locked first so two reservations for the same room
// serialize, then both the booking and blocked period tables are re-checked
// inside the transaction. The exclusion constraint on room_bookings is the
// storage-level backstop should any path skip this method.
func (r *repositoryImpl) InsertReserved(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertReserved")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := r.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin reservation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	if err = tx.GetContext(ctx, &lockedID, lockRoomQuery, booking.RoomID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room row: %w", err)
	}

	var taken bool
	if err = tx.GetContext(ctx, &taken, overlappingBookingQuery, booking.RoomID, booking.CheckIn, booking.CheckOut); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to re-check booking conflicts: %w", err)
	}

	if !taken {
		if err = tx.GetContext(ctx, &taken, overlappingBlockQuery, booking.RoomID, booking.CheckIn, booking.CheckOut); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to re-check blocked periods: %w", err)
		}
	}

	if taken {
		err = failure.RoomUnavailable("room is no longer available for the requested dates")

		return err
	}

	if err = r.InsertTx(ctx, tx, booking); err != nil {
		if isOverlapViolation(err) {
			err = failure.RoomUnavailable("room is no longer available for the requested dates")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		if isOverlapViolation(err) {
			err = failure.RoomUnavailable("room is no longer available for the requested dates")

			return err
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	return nil
}

const updateVersionedQuery = `UPDATE %s SET %s, version = version + 1 WHERE id = :id AND version = :version`

// UpdateVersioned applies fields only when the stored version still matches
// the one the caller read. Zero rows means another writer won the race, or
// the booking is gone; callers disambiguate with Exist.
func (r *repositoryImpl) UpdateVersioned(ctx context.Context, id string, version int64, fields map[string]any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateVersioned")
	defer scope.End()
	defer scope.TraceIfError(err)

	assignments := ""
	args := map[string]any{"id": id, "version": version}

	for col, val := range fields {
		if assignments != "" {
			assignments += ", "
		}

		assignments += fmt.Sprintf("%s = :%s", col, col)
		args[col] = val
	}

	query := fmt.Sprintf(updateVersionedQuery, model.TableName, assignments)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows == 0 {
		exist, existErr := r.Exist(ctx, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		})
		if existErr != nil {
			return existErr
		}

		if !exist {
			err = failure.NotFound("booking not found")

			return err
		}

		err = failure.ConcurrentModification(model.EntityName)

		return err
	}

	return nil
}

const activeIntervalsQuery = `
	SELECT check_in, check_out FROM room_bookings
	WHERE room_id = $1
	  AND status IN ('pending', 'confirmed', 'checked_in')
	  AND check_in < $3
	  AND $2 < check_out
	ORDER BY check_in`

// ActiveIntervals returns the occupied date ranges of a room overlapping the
// given window.
func (r *repositoryImpl) ActiveIntervals(ctx context.Context, roomID string, within availability.Interval) (intervals []availability.Interval, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ActiveIntervals")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, activeIntervalsQuery)

	var stays []struct {
		CheckIn  time.Time `db:"check_in"`
		CheckOut time.Time `db:"check_out"`
	}

	if err = r.db.Read.SelectContext(ctx, &stays, activeIntervalsQuery, roomID, within.Start, within.End); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get active intervals: %w", err)
	}

	intervals = make([]availability.Interval, 0, len(stays))

	for _, s := range stays {
		interval, err := availability.NewInterval(s.CheckIn, s.CheckOut)
		if err != nil {
			continue
		}

		intervals = append(intervals, interval)
	}

	return intervals, nil
}

func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	code := string(pqErr.Code)

	return code == constant.PqErrorCodeExclusionViolation || code == constant.PqErrorCodeUniqueViolation
}
