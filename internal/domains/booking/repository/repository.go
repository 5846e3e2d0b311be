package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"jumuia/infras/otel"
	"jumuia/infras/postgres"
	"jumuia/internal/domains/booking/model"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/logger"
	gRepo "jumuia/shared/repository"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var errUngroupableColumn = errors.New("column cannot be grouped")

var groupableColumns = []string{model.FieldStatus, model.FieldProperty, model.FieldPaymentStatus}

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// CountBy counts matching bookings grouped by one of status, property or payment_status.
	CountBy(ctx context.Context, column string, filter gDto.FilterGroup) (map[string]int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	WithTransaction(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
}

type StatusEvent interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, event model.StatusEvent) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StatusEvent, error)
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

type groupCount struct {
	Key   string `db:"group_key"`
	Total int    `db:"total"`
}

func (repo *repositoryImpl) CountBy(ctx context.Context, column string, filter gDto.FilterGroup) (map[string]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountBy")
	defer scope.End()

	if !slices.Contains(groupableColumns, column) {
		return nil, fmt.Errorf("%w: %s", errUngroupableColumn, column)
	}

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT %[1]s.%[2]s AS group_key, COUNT(%[1]s.%[3]s) AS total FROM %[1]s %[4]s GROUP BY %[1]s.%[2]s",
		model.TableName, column, model.FieldID, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var rows []groupCount
	if err = prepare.SelectContext(ctx, &rows, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count grouped data (%s): %w", model.EntityName, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Total
	}

	return counts, nil
}

type statusEventRepositoryImpl struct {
	gRepo.Repository[model.StatusEvent]
}

func NewStatusEvent(db *postgres.Connection, otel otel.Otel) StatusEvent {
	return &statusEventRepositoryImpl{
		Repository: gRepo.NewRepository[model.StatusEvent](model.StatusEventEntityName, model.StatusEventTableName, model.FieldID, db, otel),
	}
}

// IsDuplicateBookingID reports whether err is a unique violation on the booking code.
func IsDuplicateBookingID(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation && pqErr.Constraint == "bookings_booking_id_key"
}
