package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lodge/internal/domains/room/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type CreateRoomRequest struct {
	PropertyID            string                `json:"property_id"             validate:"required,max=100"`
	Name                  string                `json:"name"                    validate:"required,max=100"`
	Capacity              int                   `json:"capacity"                validate:"required,min=1"`
	BaseRate              string                `json:"base_rate"               validate:"required"`
	Currency              string                `json:"currency"                validate:"required,len=3"`
	WeekendRate           string                `json:"weekend_rate"            validate:"omitempty"`
	CleaningFee           string                `json:"cleaning_fee"            validate:"omitempty"`
	WeeklyDiscountPercent string                `json:"weekly_discount_percent" validate:"omitempty"`
	CancellationPolicy    string                `json:"cancellation_policy"     validate:"required,oneof=flexible moderate strict super_strict"`
	Image                 *multipart.FileHeader `json:"image"                   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile             multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) (model.Room, error) {
	baseRate, err := decimal.NewFromString(c.BaseRate)
	if err != nil {
		return model.Room{}, err
	}

	weekendRate := decimal.NullDecimal{}
	if c.WeekendRate != "" {
		rate, err := decimal.NewFromString(c.WeekendRate)
		if err != nil {
			return model.Room{}, err
		}

		weekendRate = decimal.NewNullDecimal(rate)
	}

	cleaningFee := decimal.Zero
	if c.CleaningFee != "" {
		if cleaningFee, err = decimal.NewFromString(c.CleaningFee); err != nil {
			return model.Room{}, err
		}
	}

	weeklyDiscount := decimal.Zero
	if c.WeeklyDiscountPercent != "" {
		if weeklyDiscount, err = decimal.NewFromString(c.WeeklyDiscountPercent); err != nil {
			return model.Room{}, err
		}
	}

	return model.Room{
		ID:                    uuid.NewString(),
		PropertyID:            c.PropertyID,
		Name:                  c.Name,
		Capacity:              c.Capacity,
		BaseRate:              baseRate,
		Currency:              c.Currency,
		WeekendRate:           weekendRate,
		CleaningFee:           cleaningFee,
		WeeklyDiscountPercent: weeklyDiscount,
		CancellationPolicy:    c.CancellationPolicy,
		Image:                 imageURL,
		Status:                model.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateRoomRequest struct {
	Name                  string                `db:"name"                    json:"name"                    validate:"omitempty,max=100"`
	Capacity              *int                  `db:"capacity"                json:"capacity"                validate:"omitempty,min=1"`
	BaseRate              string                `db:"base_rate"               json:"base_rate"               validate:"omitempty"`
	WeekendRate           string                `db:"weekend_rate"            json:"weekend_rate"            validate:"omitempty"`
	CleaningFee           string                `db:"cleaning_fee"            json:"cleaning_fee"            validate:"omitempty"`
	WeeklyDiscountPercent string                `db:"weekly_discount_percent" json:"weekly_discount_percent" validate:"omitempty"`
	CancellationPolicy    string                `db:"cancellation_policy"     json:"cancellation_policy"     validate:"omitempty,oneof=flexible moderate strict super_strict"`
	Status                string                `db:"status"                  json:"status"                  validate:"omitempty,oneof=active inactive"`
	Image                 *multipart.FileHeader `json:"image"                 validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile             multipart.File        `json:"-"`
}

type RoomResponse struct {
	ID                    string `json:"id"`
	PropertyID            string `json:"property_id"`
	Name                  string `json:"name"`
	Capacity              int    `json:"capacity"`
	BaseRate              string `json:"base_rate"`
	Currency              string `json:"currency"`
	WeekendRate           string `json:"weekend_rate,omitempty"`
	CleaningFee           string `json:"cleaning_fee"`
	WeeklyDiscountPercent string `json:"weekly_discount_percent"`
	CancellationPolicy    string `json:"cancellation_policy"`
	Image                 string `json:"image"`
	Status                string `json:"status"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.BaseRate = model.BaseRate.StringFixed(2)
	r.Currency = model.Currency
	if model.WeekendRate.Valid {
		r.WeekendRate = model.WeekendRate.Decimal.StringFixed(2)
	}
	r.CleaningFee = model.CleaningFee.StringFixed(2)
	r.WeeklyDiscountPercent = model.WeeklyDiscountPercent.String()
	r.CancellationPolicy = model.CancellationPolicy
	r.Image = model.Image
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CreateSeasonPriceRequest struct {
	Name       string `json:"name"       validate:"required,max=100"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date"   validate:"required"`
	Multiplier string `json:"multiplier" validate:"required"`
}

func (c *CreateSeasonPriceRequest) ToModel(user, roomID string) (model.SeasonPrice, error) {
	startDate, err := time.Parse(constant.StayDateFormat, c.StartDate)
	if err != nil {
		return model.SeasonPrice{}, err
	}

	endDate, err := time.Parse(constant.StayDateFormat, c.EndDate)
	if err != nil {
		return model.SeasonPrice{}, err
	}

	multiplier, err := decimal.NewFromString(c.Multiplier)
	if err != nil {
		return model.SeasonPrice{}, err
	}

	return model.SeasonPrice{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		Name:       c.Name,
		StartDate:  startDate,
		EndDate:    endDate,
		Multiplier: multiplier,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type SeasonPriceResponse struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Multiplier string `json:"multiplier"`
}

func (r *SeasonPriceResponse) FromModel(model model.SeasonPrice) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.Name = model.Name
	r.StartDate = model.StartDate.Format(constant.StayDateFormat)
	r.EndDate = model.EndDate.Format(constant.StayDateFormat)
	r.Multiplier = model.Multiplier.String()
}

type GetSeasonPricesResponse struct {
	SeasonPrices []SeasonPriceResponse `json:"season_prices"`
}

func (r *GetSeasonPricesResponse) FromModels(models []model.SeasonPrice) {
	r.SeasonPrices = make([]SeasonPriceResponse, len(models))
	for i, mod := range models {
		r.SeasonPrices[i].FromModel(mod)
	}
}

type CreateBlockedPeriodRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
	Reason    string `json:"reason"     validate:"omitempty,max=255"`
}

func (c *CreateBlockedPeriodRequest) ToModel(user, roomID string) (model.BlockedPeriod, error) {
	startDate, err := time.Parse(constant.StayDateFormat, c.StartDate)
	if err != nil {
		return model.BlockedPeriod{}, err
	}

	endDate, err := time.Parse(constant.StayDateFormat, c.EndDate)
	if err != nil {
		return model.BlockedPeriod{}, err
	}

	return model.BlockedPeriod{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    c.Reason,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type BlockedPeriodResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *BlockedPeriodResponse) FromModel(model model.BlockedPeriod) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.StartDate = model.StartDate.Format(constant.StayDateFormat)
	r.EndDate = model.EndDate.Format(constant.StayDateFormat)
	r.Reason = model.Reason
}

type GetBlockedPeriodsResponse struct {
	BlockedPeriods []BlockedPeriodResponse `json:"blocked_periods"`
}

func (r *GetBlockedPeriodsResponse) FromModels(models []model.BlockedPeriod) {
	r.BlockedPeriods = make([]BlockedPeriodResponse, len(models))
	for i, mod := range models {
		r.BlockedPeriods[i].FromModel(mod)
	}
}
