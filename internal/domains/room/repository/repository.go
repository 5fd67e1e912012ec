package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/room/model"
	gDto "lodge/shared/dto"
	gRepo "lodge/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	GetSeasonPrices(ctx context.Context, roomID string) ([]model.SeasonPrice, error)
	InsertSeasonPrice(ctx context.Context, season model.SeasonPrice) error
	DeleteSeasonPrice(ctx context.Context, roomID, seasonID string) error

	GetBlockedPeriods(ctx context.Context, roomID string) ([]model.BlockedPeriod, error)
	InsertBlockedPeriod(ctx context.Context, blocked model.BlockedPeriod) error
	DeleteBlockedPeriod(ctx context.Context, roomID, blockedID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	seasonRepo  gRepo.Repository[model.SeasonPrice]
	blockedRepo gRepo.Repository[model.BlockedPeriod]
	db          *postgres.Connection
	otel        otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository:  gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		seasonRepo:  gRepo.NewRepository[model.SeasonPrice](model.SeasonEntityName, model.SeasonTableName, model.FieldID, db, otel),
		blockedRepo: gRepo.NewRepository[model.BlockedPeriod](model.BlockedEntityName, model.BlockedTableName, model.FieldID, db, otel),
		db:          db,
		otel:        otel,
	}
}

func (r *repositoryImpl) GetSeasonPrices(ctx context.Context, roomID string) ([]model.SeasonPrice, error) {
	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: "asc"}

	return r.seasonRepo.GetAll(ctx, params, roomFilter(roomID, model.SeasonTableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) InsertSeasonPrice(ctx context.Context, season model.SeasonPrice) error {
	return r.seasonRepo.Insert(ctx, season) //nolint:wrapcheck
}

func (r *repositoryImpl) DeleteSeasonPrice(ctx context.Context, roomID, seasonID string) error {
	return r.seasonRepo.Delete(ctx, childFilter(roomID, seasonID, model.SeasonTableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetBlockedPeriods(ctx context.Context, roomID string) ([]model.BlockedPeriod, error) {
	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: "asc"}

	return r.blockedRepo.GetAll(ctx, params, roomFilter(roomID, model.BlockedTableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) InsertBlockedPeriod(ctx context.Context, blocked model.BlockedPeriod) error {
	return r.blockedRepo.Insert(ctx, blocked) //nolint:wrapcheck
}

func (r *repositoryImpl) DeleteBlockedPeriod(ctx context.Context, roomID, blockedID string) error {
	return r.blockedRepo.Delete(ctx, childFilter(roomID, blockedID, model.BlockedTableName)) //nolint:wrapcheck
}

func roomFilter(roomID, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func childFilter(roomID, id, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    table,
			},
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}
