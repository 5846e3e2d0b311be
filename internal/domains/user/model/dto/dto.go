package dto

import (
	"jumuia/internal/domains/user/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	gModel "jumuia/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"required,max=50"`
	Role      string `json:"role"       validate:"required,oneof=manager staff general-manager admin"`
	// AssignedProperty is a property code or "all".
	AssignedProperty string `json:"assigned_property" validate:"required"`
	// Password is generated when empty.
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
}

func (r *CreateUserRequest) ToModel(email, hashedPassword, actor string, now time.Time) model.User {
	return model.User{
		ID:               uuid.NewString(),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            email,
		Password:         hashedPassword,
		Role:             r.Role,
		AssignedProperty: r.AssignedProperty,
		Active:           true,
		Metadata:         gModel.NewMetadata(actor, now),
	}
}

// ValidProperty accepts a catalogue property code or "all".
func ValidProperty(code string) bool {
	return code == propertyModel.All || propertyModel.Valid(code)
}

type UserResponse struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	AssignedProperty string     `json:"assigned_property"`
	Active           bool       `json:"active"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.FirstName = user.FirstName
	r.LastName = user.LastName
	r.Name = user.FullName()
	r.Email = user.Email
	r.Role = user.Role
	r.AssignedProperty = user.AssignedProperty
	r.Active = user.Active
	r.LastLogin = user.LastLogin
	r.Metadata.FromModel(user.Metadata)
}

// CredentialsResponse carries a plaintext password. It is returned once and never stored.
type CredentialsResponse struct {
	User     UserResponse `json:"user"`
	Password string       `json:"password"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(users []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(users))
	for i, user := range users {
		r.Users[i].FromModel(user)
	}
}

const (
	QueryRole     = "role"
	QueryProperty = "property"
)

type UserFilter struct {
	Role     string
	Property string
}

func (f UserFilter) ToFilterGroup() gDto.FilterGroup {
	var filters []any

	if f.Role != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldRole,
			Value:    f.Role,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.Property != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldAssignedProperty,
			Value:    f.Property,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{Filters: filters}
}
