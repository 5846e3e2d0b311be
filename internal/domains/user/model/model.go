package model

import (
	"jumuia/shared/constant"
	"jumuia/shared/model"
	"slices"
	"strings"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID               = "id"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldRole             = "role"
	FieldAssignedProperty = "assigned_property"
	FieldLastLogin        = "last_login"
	FieldActive           = "active"
	FieldCreatedAt        = "created_at"

	CacheKeyGets  = "user:gets"
	CacheKeyCount = "user:count"

	// ConstraintUniqueEmail is the unique index on users.email.
	ConstraintUniqueEmail = "users_email_key"
)

type User struct {
	ID               string     `db:"id"`
	FirstName        string     `db:"first_name"`
	LastName         string     `db:"last_name"`
	Email            string     `db:"email"`
	Password         string     `db:"password"`
	Role             string     `db:"role"`
	AssignedProperty string     `db:"assigned_property"`
	Active           bool       `db:"active"`
	LastLogin        *time.Time `db:"last_login"`
	model.Metadata
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Roles lists the roles a manager account may hold.
func Roles() []string {
	return []string{constant.RoleManager, constant.RoleStaff, constant.RoleGeneralManager, constant.RoleAdmin}
}

func ValidRole(role string) bool {
	return slices.Contains(Roles(), role)
}

// Email builds first.last@domain in lower case. Whitespace inside a name is dropped.
// It returns an empty string when either name is blank.
func Email(first, last, domain string) string {
	first, last = emailPart(first), emailPart(last)
	if first == "" || last == "" {
		return ""
	}

	return first + "." + last + "@" + strings.ToLower(strings.TrimSpace(domain))
}

func emailPart(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
