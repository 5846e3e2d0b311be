package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"jumuia/infras/otel"
	"jumuia/infras/postgres"
	"jumuia/internal/domains/offer/model"
	gDto "jumuia/shared/dto"
	gRepo "jumuia/shared/repository"
)

type Offer interface {
	Insert(ctx context.Context, offer model.Offer) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Offer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Offer, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Offer]
}

func New(db *postgres.Connection, otel otel.Otel) Offer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Offer](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
