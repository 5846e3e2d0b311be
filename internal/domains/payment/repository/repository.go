package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"jumuia/infras/otel"
	"jumuia/infras/postgres"
	"jumuia/internal/domains/payment/model"
	gDto "jumuia/shared/dto"
	gRepo "jumuia/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, payment model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	WithTransaction(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
