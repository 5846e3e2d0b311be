package dto_test

import (
	"jumuia/internal/domains/user/model"
	"jumuia/internal/domains/user/model/dto"
	gDto "jumuia/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_ToModel(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	req := dto.CreateUserRequest{
		FirstName:        "Jane",
		LastName:         "Doe",
		Role:             "manager",
		AssignedProperty: "kisumu",
	}

	user := req.ToModel("jane.doe@jumuiaresorts.com", "hash", "admin-1", now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane.doe@jumuiaresorts.com", user.Email)
	assert.Equal(t, "hash", user.Password)
	assert.True(t, user.Active)
	assert.Equal(t, "admin-1", user.CreatedBy)
	assert.Equal(t, now, user.CreatedAt)
}

func TestValidProperty(t *testing.T) {
	assert.True(t, dto.ValidProperty("all"))
	assert.True(t, dto.ValidProperty("limuru"))
	assert.False(t, dto.ValidProperty("nairobi"))
	assert.False(t, dto.ValidProperty(""))
}

func TestUserResponse_FromModel(t *testing.T) {
	var res dto.UserResponse
	res.FromModel(model.User{ID: "u-1", FirstName: "Jane", LastName: "Doe", Password: "hash", Role: "staff"})

	assert.Equal(t, "Jane Doe", res.Name)
	assert.Equal(t, "staff", res.Role)
}

func TestUserFilter_ToFilterGroup(t *testing.T) {
	assert.Empty(t, dto.UserFilter{}.ToFilterGroup().Filters)

	group := dto.UserFilter{Role: "manager", Property: "kanamai"}.ToFilterGroup()
	assert.Len(t, group.Filters, 2)
	assert.Equal(t, model.FieldRole, group.Filters[0].(gDto.Filter).Field)
}
