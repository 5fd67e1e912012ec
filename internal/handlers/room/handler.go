package room

import (
	"net/http"
	"strconv"

	"lodge/infras/otel"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeactivateRoom)

		routerGroup.Post("/{id}/seasons", handler.AddSeasonPrice)
		routerGroup.Get("/{id}/seasons", handler.GetSeasonPrices)
		routerGroup.Delete("/{id}/seasons/{seasonId}", handler.RemoveSeasonPrice)

		routerGroup.Post("/{id}/blocked-periods", handler.AddBlockedPeriod)
		routerGroup.Get("/{id}/blocked-periods", handler.GetBlockedPeriods)
		routerGroup.Delete("/{id}/blocked-periods/{blockedId}", handler.RemoveBlockedPeriod)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a new room with its rate card and cancellation policy tier.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param property_id formData string true "Property ID"
// @Param name formData string true "Room name"
// @Param capacity formData integer true "Maximum number of guests"
// @Param base_rate formData string true "Base nightly rate"
// @Param currency formData string true "ISO 4217 currency code"
// @Param weekend_rate formData string false "Weekend nightly rate"
// @Param cleaning_fee formData string false "Fixed cleaning fee per stay"
// @Param weekly_discount_percent formData string false "Discount percent for weekly stays"
// @Param cancellation_policy formData string true "Cancellation policy tier (flexible, moderate, strict, super_strict)"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateRoomRequest{
		PropertyID:            request.FormValue(model.FieldPropertyID),
		Name:                  request.FormValue(model.FieldName),
		BaseRate:              request.FormValue(model.FieldBaseRate),
		Currency:              request.FormValue(model.FieldCurrency),
		WeekendRate:           request.FormValue(model.FieldWeekendRate),
		CleaningFee:           request.FormValue(model.FieldCleaningFee),
		WeeklyDiscountPercent: request.FormValue(model.FieldWeeklyDiscount),
		CancellationPolicy:    request.FormValue(model.FieldCancellationPolicy),
	}

	if capStr := request.FormValue(model.FieldCapacity); capStr != "" {
		if c, err := strconv.Atoi(capStr); err == nil {
			req.Capacity = c
		}
	}

	file, fileHeader, err := request.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Room created successfully")
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve all rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param property_id query string false "Filter by property ID"
// @Param name query string false "Filter by name"
// @Param status query string false "Filter by status (active, inactive)"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	propertyID := r.URL.Query().Get(model.FieldPropertyID)
	name := r.URL.Query().Get(model.FieldName)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	// Only add filters if the values are non-empty
	if propertyID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPropertyID,
			Operator: gDto.FilterOperatorEq,
			Value:    propertyID,
			Table:    model.TableName,
		})
	}

	if name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    "%" + name + "%",
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Description Retrieve a room by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room retrieved successfully")

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Description Update the rate card, capacity or policy tier of an existing room.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param name formData string false "Room name"
// @Param capacity formData integer false "Maximum number of guests"
// @Param base_rate formData string false "Base nightly rate"
// @Param weekend_rate formData string false "Weekend nightly rate"
// @Param cleaning_fee formData string false "Fixed cleaning fee per stay"
// @Param weekly_discount_percent formData string false "Discount percent for weekly stays"
// @Param cancellation_policy formData string false "Cancellation policy tier (flexible, moderate, strict, super_strict)"
// @Param status formData string false "Room status (active, inactive)"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateRoomRequest{
		Name:                  r.FormValue(model.FieldName),
		BaseRate:              r.FormValue(model.FieldBaseRate),
		WeekendRate:           r.FormValue(model.FieldWeekendRate),
		CleaningFee:           r.FormValue(model.FieldCleaningFee),
		WeeklyDiscountPercent: r.FormValue(model.FieldWeeklyDiscount),
		CancellationPolicy:    r.FormValue(model.FieldCancellationPolicy),
		Status:                r.FormValue(model.FieldStatus),
	}

	if capStr := r.FormValue(model.FieldCapacity); capStr != "" {
		if c, err := strconv.Atoi(capStr); err == nil {
			req.Capacity = &c
		}
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeactivateRoom deactivates a room by its ID.
// @Summary Deactivate a room by ID
// @Description Mark a room inactive so it no longer accepts new bookings. Existing bookings are untouched.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deactivated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeactivateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Deactivate(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deactivated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deactivated successfully")
}

// AddSeasonPrice attaches a seasonal pricing window to a room.
// @Summary Add a seasonal pricing window
// @Description Add a seasonal pricing window to a room. Windows must not overlap existing ones.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.CreateSeasonPriceRequest true "Create Season Price Request"
// @Success 201 {object} response.Message "Season price created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/seasons [post]
// @Security BearerAuth
func (handler *Handler) AddSeasonPrice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddSeasonPrice")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateSeasonPriceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AddSeasonPrice(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add season price")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Season price created successfully")

	response.WithMessage(w, http.StatusCreated, "Season price created successfully")
}

// GetSeasonPrices lists the seasonal pricing windows of a room.
// @Summary Get seasonal pricing windows
// @Description Retrieve the seasonal pricing windows of a room, ordered by start date.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.GetSeasonPricesResponse] "List of season prices"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/seasons [get]
func (handler *Handler) GetSeasonPrices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSeasonPrices")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	seasons, err := handler.service.GetSeasonPrices(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get season prices")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Season prices retrieved successfully")

	response.WithJSON(w, http.StatusOK, seasons)
}

// RemoveSeasonPrice removes a seasonal pricing window from a room.
// @Summary Remove a seasonal pricing window
// @Description Remove a seasonal pricing window from a room by its identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param seasonId path string true "Season Price ID"
// @Success 200 {object} response.Message "Season price removed successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/seasons/{seasonId} [delete]
// @Security BearerAuth
func (handler *Handler) RemoveSeasonPrice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveSeasonPrice")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	seasonID := chi.URLParam(r, constant.RequestParamSeasonID)

	if err := handler.service.RemoveSeasonPrice(ctx, id, seasonID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove season price")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Season price removed successfully")

	response.WithMessage(w, http.StatusOK, "Season price removed successfully")
}

// AddBlockedPeriod blocks a room for a date range.
// @Summary Block a room for a date range
// @Description Block a room for maintenance or owner use. Dates that overlap active bookings are rejected.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.CreateBlockedPeriodRequest true "Create Blocked Period Request"
// @Success 201 {object} response.Message "Blocked period created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Dates overlap an active booking"
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/blocked-periods [post]
// @Security BearerAuth
func (handler *Handler) AddBlockedPeriod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddBlockedPeriod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateBlockedPeriodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AddBlockedPeriod(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add blocked period")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked period created successfully")

	response.WithMessage(w, http.StatusCreated, "Blocked period created successfully")
}

// GetBlockedPeriods lists the blocked periods of a room.
// @Summary Get blocked periods
// @Description Retrieve the blocked periods of a room, ordered by start date.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.GetBlockedPeriodsResponse] "List of blocked periods"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/blocked-periods [get]
// @Security BearerAuth
func (handler *Handler) GetBlockedPeriods(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedPeriods")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	blocked, err := handler.service.GetBlockedPeriods(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked periods")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked periods retrieved successfully")

	response.WithJSON(w, http.StatusOK, blocked)
}

// RemoveBlockedPeriod removes a blocked period from a room.
// @Summary Remove a blocked period
// @Description Remove a blocked period from a room by its identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param blockedId path string true "Blocked Period ID"
// @Success 200 {object} response.Message "Blocked period removed successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/blocked-periods/{blockedId} [delete]
// @Security BearerAuth
func (handler *Handler) RemoveBlockedPeriod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveBlockedPeriod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	blockedID := chi.URLParam(r, constant.RequestParamBlockedID)

	if err := handler.service.RemoveBlockedPeriod(ctx, id, blockedID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove blocked period")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked period removed successfully")

	response.WithMessage(w, http.StatusOK, "Blocked period removed successfully")
}
