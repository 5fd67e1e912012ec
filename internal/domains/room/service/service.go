package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	"lodge/internal/domains/room/availability"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

const (
	cacheGetRoom        = "room:get"
	cacheGetAllRoom     = "room:gets"
	cacheCountRoom      = "room:count"
	cacheSeasonPrices   = "room:seasons"
	cacheBlockedPeriods = "room:blocked"
)

// BookingIntervals is the slice of the booking repository the room service
// needs: the occupied date ranges of one room.
type BookingIntervals interface {
	ActiveIntervals(ctx context.Context, roomID string, within availability.Interval) ([]availability.Interval, error)
}

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Deactivate(ctx context.Context, id string) error

	AddSeasonPrice(ctx context.Context, roomID string, req dto.CreateSeasonPriceRequest) error
	GetSeasonPrices(ctx context.Context, roomID string) (dto.GetSeasonPricesResponse, error)
	RemoveSeasonPrice(ctx context.Context, roomID, seasonID string) error

	AddBlockedPeriod(ctx context.Context, roomID string, req dto.CreateBlockedPeriodRequest) error
	GetBlockedPeriods(ctx context.Context, roomID string) (dto.GetBlockedPeriodsResponse, error)
	RemoveBlockedPeriod(ctx context.Context, roomID, blockedID string) error
}

type serviceImpl struct {
	repo      repository.Room
	intervals BookingIntervals
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
}

func New(repo repository.Room, intervals BookingIntervals, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:      repo,
		intervals: intervals,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL := constant.Empty
	var uploadedObjectName string
	if req.Image != nil {
		bucketName := s.cfg.External.S3.BucketName
		filename := uuid.NewString()

		// Get original extension
		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	room, err := req.ToModel(user, imageURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse room request")

		return failure.Validation(fmt.Sprintf("invalid rate format: %v", err)) //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, room); err != nil {
		if uploadedObjectName != constant.Empty {
			bucketName := s.cfg.External.S3.BucketName
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	currentRoom, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return err
	}

	if currentRoom.ID == constant.Empty {
		log.Error().Msg("room not found")

		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	return s.updateInternal(ctx, req, currentRoom, user, filter)
}

func (s *serviceImpl) updateInternal(ctx context.Context, req dto.UpdateRoomRequest, currentRoom model.Room, user string, filter gDto.FilterGroup) error {
	imageURL := constant.Empty
	var uploadedObjectName string
	bucketName := s.cfg.External.S3.BucketName

	if req.Image != nil {
		filename := uuid.NewString()

		// Get original extension
		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	updatedFields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		// Cleanup: delete newly uploaded image if DB update fails
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return fmt.Errorf("failed to update room: %w", err)
	}

	// Delete old image if update succeeded and new image was uploaded
	if imageURL != constant.Empty && currentRoom.Image != constant.Empty {
		oldObjectName := s.s3.GetObjectNameFromURL(bucketName, currentRoom.Image)
		if oldObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObjectName)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, currentRoom.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

// Deactivate retires a room from the listing. Rooms are never deleted so past
// bookings keep a valid reference.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		log.Error().Msg("room not found")

		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        model.StatusInactive,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate room")

		return fmt.Errorf("failed to deactivate room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) AddSeasonPrice(ctx context.Context, roomID string, req dto.CreateSeasonPriceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddSeasonPrice")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.requireRoom(ctx, roomID); err != nil {
		return err
	}

	season, err := req.ToModel(user, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse season price request")

		return failure.Validation(fmt.Sprintf("invalid season price format: %v", err)) //nolint:wrapcheck
	}

	if !season.Multiplier.IsPositive() {
		return failure.Validation("season multiplier must be positive") //nolint:wrapcheck
	}

	if season.EndDate.Before(season.StartDate) {
		return failure.Validation("season end date must not be before its start date") //nolint:wrapcheck
	}

	existing, err := s.repo.GetSeasonPrices(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get season prices")

		return fmt.Errorf("failed to get season prices: %w", err)
	}

	// Windows of one room stay pairwise disjoint so every night resolves to
	// at most one multiplier.
	for _, other := range existing {
		if season.OverlapsWindow(other) {
			return failure.Validation(fmt.Sprintf("season overlaps existing window %q", other.Name)) //nolint:wrapcheck
		}
	}

	if err = s.repo.InsertSeasonPrice(ctx, season); err != nil {
		log.Error().Err(err).Msg("failed to insert season price")

		return fmt.Errorf("failed to insert season price: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheSeasonPrices, roomID))
	}()

	return nil
}

func (s *serviceImpl) GetSeasonPrices(ctx context.Context, roomID string) (res dto.GetSeasonPricesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSeasonPrices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSeasonPrices, roomID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for season prices")

		return res, nil
	}

	if err = s.requireRoom(ctx, roomID); err != nil {
		return res, err
	}

	seasons, err := s.repo.GetSeasonPrices(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get season prices")

		return res, fmt.Errorf("failed to get season prices: %w", err)
	}

	res.FromModels(seasons)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save season prices to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RemoveSeasonPrice(ctx context.Context, roomID, seasonID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveSeasonPrice")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireRoom(ctx, roomID); err != nil {
		return err
	}

	if err = s.repo.DeleteSeasonPrice(ctx, roomID, seasonID); err != nil {
		log.Error().Err(err).Msg("failed to delete season price")

		return fmt.Errorf("failed to delete season price: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheSeasonPrices, roomID))
	}()

	return nil
}

func (s *serviceImpl) AddBlockedPeriod(ctx context.Context, roomID string, req dto.CreateBlockedPeriodRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddBlockedPeriod")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.requireRoom(ctx, roomID); err != nil {
		return err
	}

	blocked, err := req.ToModel(user, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse blocked period request")

		return failure.Validation(fmt.Sprintf("invalid blocked period format: %v", err)) //nolint:wrapcheck
	}

	candidate, err := blocked.Interval()
	if err != nil {
		return failure.Validation("blocked period end date must be after its start date") //nolint:wrapcheck
	}

	index := availability.NewIndex()

	booked, err := s.intervals.ActiveIntervals(ctx, roomID, candidate)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booked intervals")

		return fmt.Errorf("failed to get booked intervals: %w", err)
	}

	for _, interval := range booked {
		index.Add(interval)
	}

	existing, err := s.repo.GetBlockedPeriods(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked periods")

		return fmt.Errorf("failed to get blocked periods: %w", err)
	}

	for _, other := range existing {
		interval, err := other.Interval()
		if err != nil {
			continue
		}

		index.Add(interval)
	}

	if conflict, found := index.Conflict(candidate); found {
		return failure.RoomUnavailable(fmt.Sprintf("room is occupied during %s", conflict)) //nolint:wrapcheck
	}

	if err = s.repo.InsertBlockedPeriod(ctx, blocked); err != nil {
		log.Error().Err(err).Msg("failed to insert blocked period")

		return fmt.Errorf("failed to insert blocked period: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheBlockedPeriods, roomID))
	}()

	return nil
}

func (s *serviceImpl) GetBlockedPeriods(ctx context.Context, roomID string) (res dto.GetBlockedPeriodsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBlockedPeriods")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheBlockedPeriods, roomID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blocked periods")

		return res, nil
	}

	if err = s.requireRoom(ctx, roomID); err != nil {
		return res, err
	}

	blocked, err := s.repo.GetBlockedPeriods(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked periods")

		return res, fmt.Errorf("failed to get blocked periods: %w", err)
	}

	res.FromModels(blocked)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blocked periods to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RemoveBlockedPeriod(ctx context.Context, roomID, blockedID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveBlockedPeriod")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireRoom(ctx, roomID); err != nil {
		return err
	}

	if err = s.repo.DeleteBlockedPeriod(ctx, roomID, blockedID); err != nil {
		log.Error().Err(err).Msg("failed to delete blocked period")

		return fmt.Errorf("failed to delete blocked period: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheBlockedPeriods, roomID))
	}()

	return nil
}

func (s *serviceImpl) requireRoom(ctx context.Context, roomID string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	return nil
}
