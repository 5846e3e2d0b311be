package validator_test

import (
	"strings"
	"testing"

	"jumuia/shared/failure"
	"jumuia/shared/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guestRequest struct {
	FirstName string          `json:"first_name" validate:"required,max=50"`
	Email     string          `json:"email"      validate:"required_without=Phone,omitempty,email"`
	Phone     string          `json:"phone"      validate:"required_without=Email,omitempty,kephone"`
	Adults    int             `json:"adults"     validate:"required,gte=1,lte=50"`
	Property  string          `json:"property"   validate:"required,oneof=limuru kanamai kisumu"`
	CheckIn   string          `json:"check_in"   validate:"required,datetime=2006-01-02"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
}

func validGuest() guestRequest {
	return guestRequest{
		FirstName: "Wanjiru",
		Email:     "wanjiru@example.com",
		Adults:    2,
		Property:  "limuru",
		CheckIn:   "2025-04-18",
		Amount:    decimal.NewFromInt(18500),
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *guestRequest)
		message string
	}{
		{name: "valid", mutate: func(*guestRequest) {}},
		{name: "phone instead of email", mutate: func(r *guestRequest) { r.Email, r.Phone = "", "0712345678" }},
		{name: "missing first name", mutate: func(r *guestRequest) { r.FirstName = "" }, message: "first_name is required"},
		{name: "no contact", mutate: func(r *guestRequest) { r.Email = "" }, message: "email is required when Phone is empty"},
		{name: "bad email", mutate: func(r *guestRequest) { r.Email = "wanjiru@" }, message: "email must be a valid email address"},
		{name: "too many adults", mutate: func(r *guestRequest) { r.Adults = 51 }, message: "adults must be less than or equal to 50"},
		{name: "unknown property", mutate: func(r *guestRequest) { r.Property = "naivasha" }, message: "property must be one of limuru kanamai kisumu"},
		{name: "date with time", mutate: func(r *guestRequest) { r.CheckIn = "2025-04-18T14:00:00Z" }, message: "check_in must match the format 2006-01-02"},
		{name: "zero amount", mutate: func(r *guestRequest) { r.Amount = decimal.Zero }, message: "amount is required"},
		{name: "negative amount", mutate: func(r *guestRequest) { r.Amount = decimal.NewFromInt(-1) }, message: "amount must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestValidate_DecodesBody(t *testing.T) {
	var req guestRequest

	err := validator.Validate(strings.NewReader(`{
		"first_name": "Otieno",
		"phone": "+254712345678",
		"adults": 3,
		"property": "kisumu",
		"check_in": "2025-12-20",
		"amount": "40500.50"
	}`), &req)

	require.NoError(t, err)
	assert.Equal(t, "Otieno", req.FirstName)
	assert.True(t, decimal.RequireFromString("40500.50").Equal(req.Amount))
}

func TestValidate_MalformedBody(t *testing.T) {
	var req guestRequest

	err := validator.Validate(strings.NewReader(`{"first_name":`), &req)

	require.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
	assert.Contains(t, err.Error(), "failed to decode request body")
}

func TestValidateVar_KenyanPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{phone: "0712345678", valid: true},
		{phone: "0110345678", valid: true},
		{phone: "+254712345678", valid: true},
		{phone: "254712345678", valid: true},
		{phone: "071234567", valid: false},
		{phone: "+14155550100", valid: false},
		{phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := validator.ValidateVar(tt.phone, "kephone")

			assert.Equal(t, tt.valid, err == nil, "error: %v", err)
		})
	}
}

func TestValidateVar_DataURLImage(t *testing.T) {
	png := "data:image/png;base64,iVBORw0KGgo="

	assert.NoError(t, validator.ValidateVar(png, "mimetypes=image/png image/jpeg image/webp"))
	assert.NoError(t, validator.ValidateVar(png, "maxfilesize=2"))

	err := validator.ValidateVar("data:application/pdf;base64,JVBERi0=", "mimetypes=image/png image/jpeg")
	require.Error(t, err)
	assert.Equal(t, " must be one of image/png image/jpeg", err.Error())

	assert.Error(t, validator.ValidateVar("iVBORw0KGgo=", "mimetypes=image/png"))

	oversized := "data:image/png;base64," + strings.Repeat("A", 3<<20)
	assert.Error(t, validator.ValidateVar(oversized, "maxfilesize=2"))
}
