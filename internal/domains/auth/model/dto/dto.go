package dto

import (
	"jumuia/infras/jwt"
	userModel "jumuia/internal/domains/user/model"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// Session mirrors what the dashboard keeps for the signed-in user.
type Session struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	AssignedProperty string `json:"assigned_property"`
}

func (s *Session) FromModel(user userModel.User) {
	s.UserID = user.ID
	s.Name = user.FullName()
	s.Email = user.Email
	s.Role = user.Role
	s.AssignedProperty = user.AssignedProperty
}

// Tokens is the pair handed to the dashboard on login and on refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *Tokens) FromTokenPair(pair *jwt.TokenPair) {
	*t = Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type LoginResponse struct {
	Tokens
	// ExpiresAt is when the access token, and so the session, ends.
	ExpiresAt time.Time `json:"expires_at"`
	Session   Session   `json:"session"`
}

func (l *LoginResponse) FromTokenPair(pair *jwt.TokenPair, issuedAt time.Time) {
	l.Tokens.FromTokenPair(pair)
	l.ExpiresAt = issuedAt.Add(time.Duration(pair.ExpiresIn) * time.Second)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	Tokens
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
