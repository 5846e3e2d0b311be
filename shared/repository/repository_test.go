package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	otelMocks "jumuia/infras/otel/mocks"
	"jumuia/shared/dto"
	"jumuia/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type room struct {
	ID       string `db:"id"`
	Property string `db:"property"`
	Nights   int    `db:"nights"`
	Note     string
	Skipped  string `db:"-"`
	model.Metadata
}

type recordingExecer struct {
	query string
	arg   any
}

func (r *recordingExecer) NamedExecContext(_ context.Context, query string, arg any) (sql.Result, error) {
	r.query = query
	r.arg = arg

	return nil, nil
}

func newRoomRepository() Repository[room] {
	return NewRepository[room]("room", "rooms", "id", nil, otelMocks.NewOtel())
}

func byProperty(property string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{dto.Filter{Field: "property", Value: property, Operator: dto.FilterOperatorEq, Table: "rooms"}}}
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newRoomRepository()

	assert.Equal(t, []string{"id", "property", "nights", "created_at", "modified_at", "created_by", "modified_by"}, repo.columns)
	assert.Equal(t, "rooms.id, rooms.nights", repo.selectColumns([]string{"nights", "id"}))
}

func TestRepository_Insert(t *testing.T) {
	repo := newRoomRepository()
	exec := &recordingExecer{}

	row := room{ID: "r-1", Property: "kisumu", Metadata: model.NewMetadata("admin", time.Now())}
	require.NoError(t, repo.insert(context.Background(), exec, row))

	assert.Equal(t,
		"INSERT INTO rooms (id, property, nights, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :property, :nights, :created_at, :modified_at, :created_by, :modified_by)",
		exec.query)
	assert.Equal(t, row, exec.arg)
}

func TestRepository_Update(t *testing.T) {
	repo := newRoomRepository()
	exec := &recordingExecer{}

	err := repo.update(context.Background(), exec, map[string]any{"property": "kanamai", "nights": 4}, byProperty("limuru"))
	require.NoError(t, err)

	assert.Equal(t, "UPDATE rooms SET nights = :set_nights, property = :set_property  WHERE (rooms.property = :property) ", exec.query)
	assert.Equal(t, map[string]any{"property": "limuru", "set_property": "kanamai", "set_nights": 4}, exec.arg)
}

func TestRepository_RequiresFilter(t *testing.T) {
	repo := newRoomRepository()
	exec := &recordingExecer{}
	ctx := context.Background()

	assert.ErrorIs(t, repo.update(ctx, exec, map[string]any{"nights": 1}, dto.FilterGroup{}), ErrRequiredFilter)
	assert.ErrorIs(t, repo.delete(ctx, exec, dto.FilterGroup{}), ErrRequiredFilter)
	assert.Empty(t, exec.query)

	require.NoError(t, repo.delete(ctx, exec, byProperty("kisumu")))
	assert.Equal(t, "DELETE FROM rooms  WHERE (rooms.property = :property) ", exec.query)
}

func TestRepository_BuildWhereClause(t *testing.T) {
	repo := newRoomRepository()

	where, args := repo.BuildWhereClause(context.Background(), dto.FilterGroup{})
	assert.Empty(t, where)
	assert.NotNil(t, args)

	where, args = repo.BuildWhereClause(context.Background(), byProperty("limuru"))
	assert.Equal(t, " WHERE (rooms.property = :property) ", where)
	assert.Equal(t, map[string]any{"property": "limuru"}, args)
}
