package dto

import (
	"jumuia/internal/domains/booking/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	gModel "jumuia/shared/model"
	"jumuia/shared/phone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	GuestFirstName  string          `json:"guest_first_name"           validate:"required,max=100"`
	GuestLastName   string          `json:"guest_last_name"            validate:"required,max=100"`
	GuestEmail      string          `json:"guest_email,omitempty"      validate:"required_without=GuestPhone,omitempty,email,max=150"`
	GuestPhone      string          `json:"guest_phone,omitempty"      validate:"required_without=GuestEmail,omitempty,kephone"`
	Property        string          `json:"property,omitempty"         validate:"omitempty,oneof=limuru kanamai kisumu"`
	RoomType        string          `json:"room_type"                  validate:"required,max=100"`
	PackageType     string          `json:"package_type,omitempty"     validate:"omitempty,max=100"`
	Adults          int             `json:"adults"                     validate:"required,gte=1,lte=50"`
	Children        int             `json:"children"                   validate:"gte=0,lte=50"`
	CheckIn         string          `json:"check_in"                   validate:"required,datetime=2006-01-02"`
	CheckOut        string          `json:"check_out"                  validate:"required,datetime=2006-01-02"`
	Nights          int             `json:"nights,omitempty"           validate:"omitempty,gte=1"`
	TotalAmount     decimal.Decimal `json:"total_amount"               swaggertype:"string"`
	PaymentMethod   string          `json:"payment_method,omitempty"   validate:"omitempty,max=50"`
	SpecialRequests string          `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// ToModel builds a new pending booking. Property must already be resolved.
func (c *CreateBookingRequest) ToModel(source, actor string, now time.Time) (model.Booking, error) {
	checkIn, checkOut, err := parseStay(c.CheckIn, c.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	if c.TotalAmount.IsNegative() {
		return model.Booking{}, failure.BadRequestFromString("total_amount must not be negative") //nolint:wrapcheck
	}

	nights := c.Nights
	if nights == 0 {
		nights = model.Nights(checkIn, checkOut)
	}

	return model.Booking{
		ID:              uuid.NewString(),
		BookingID:       model.NewBookingCode(source, now),
		GuestFirstName:  strings.TrimSpace(c.GuestFirstName),
		GuestLastName:   strings.TrimSpace(c.GuestLastName),
		GuestEmail:      strings.ToLower(strings.TrimSpace(c.GuestEmail)),
		GuestPhone:      phone.OrRaw(c.GuestPhone),
		Property:        c.Property,
		RoomType:        c.RoomType,
		PackageType:     c.PackageType,
		Adults:          c.Adults,
		Children:        c.Children,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          nights,
		TotalAmount:     c.TotalAmount,
		Currency:        model.CurrencyKES,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentAwaitingPayment,
		PaymentMethod:   c.PaymentMethod,
		SpecialRequests: c.SpecialRequests,
		Source:          source,
		Metadata:        gModel.NewMetadata(actor, now),
	}, nil
}

type UpdateBookingRequest struct {
	GuestFirstName  *string          `json:"guest_first_name,omitempty" validate:"omitempty,min=1,max=100"`
	GuestLastName   *string          `json:"guest_last_name,omitempty"  validate:"omitempty,min=1,max=100"`
	GuestEmail      *string          `json:"guest_email,omitempty"      validate:"omitempty,email,max=150"`
	GuestPhone      *string          `json:"guest_phone,omitempty"      validate:"omitempty,kephone"`
	Property        *string          `json:"property,omitempty"         validate:"omitempty,oneof=limuru kanamai kisumu"`
	RoomType        *string          `json:"room_type,omitempty"        validate:"omitempty,min=1,max=100"`
	PackageType     *string          `json:"package_type,omitempty"     validate:"omitempty,max=100"`
	Adults          *int             `json:"adults,omitempty"           validate:"omitempty,gte=1,lte=50"`
	Children        *int             `json:"children,omitempty"         validate:"omitempty,gte=0,lte=50"`
	CheckIn         *string          `json:"check_in,omitempty"         validate:"omitempty,datetime=2006-01-02"`
	CheckOut        *string          `json:"check_out,omitempty"        validate:"omitempty,datetime=2006-01-02"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"     swaggertype:"string"`
	PaymentMethod   *string          `json:"payment_method,omitempty"   validate:"omitempty,max=50"`
	SpecialRequests *string          `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// Changes returns the columns to update against current. Nights are recomputed when
// either date changes. booking_id is never part of the result.
func (u *UpdateBookingRequest) Changes(current model.Booking, actor string, now time.Time) (map[string]any, error) {
	changes := map[string]any{}

	setString := func(field string, value *string) {
		if value != nil {
			changes[field] = strings.TrimSpace(*value)
		}
	}

	setString(model.FieldGuestFirstName, u.GuestFirstName)
	setString(model.FieldGuestLastName, u.GuestLastName)
	setString(model.FieldProperty, u.Property)
	setString(model.FieldRoomType, u.RoomType)
	setString(model.FieldPackageType, u.PackageType)
	setString(model.FieldPaymentMethod, u.PaymentMethod)
	setString(model.FieldSpecialRequests, u.SpecialRequests)

	if u.GuestPhone != nil {
		changes[model.FieldGuestPhone] = phone.OrRaw(*u.GuestPhone)
	}

	if u.GuestEmail != nil {
		changes[model.FieldGuestEmail] = strings.ToLower(strings.TrimSpace(*u.GuestEmail))
	}

	if u.Adults != nil {
		changes[model.FieldAdults] = *u.Adults
	}

	if u.Children != nil {
		changes[model.FieldChildren] = *u.Children
	}

	if u.TotalAmount != nil {
		if u.TotalAmount.IsNegative() {
			return nil, failure.BadRequestFromString("total_amount must not be negative") //nolint:wrapcheck
		}

		changes[model.FieldTotalAmount] = *u.TotalAmount
	}

	if u.CheckIn != nil || u.CheckOut != nil {
		checkIn := current.CheckIn.Format(constant.DateOnly)
		if u.CheckIn != nil {
			checkIn = *u.CheckIn
		}

		checkOut := current.CheckOut.Format(constant.DateOnly)
		if u.CheckOut != nil {
			checkOut = *u.CheckOut
		}

		in, out, err := parseStay(checkIn, checkOut)
		if err != nil {
			return nil, err
		}

		changes[model.FieldCheckIn] = in
		changes[model.FieldCheckOut] = out
		changes[model.FieldNights] = model.Nights(in, out)
	}

	if len(changes) == 0 {
		return changes, nil
	}

	changes[constant.FieldModifiedAt] = now
	changes[constant.FieldModifiedBy] = actor

	return changes, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked-in checked-out cancelled"`
}

type BookingResponse struct {
	ID              string      `json:"id"`
	BookingID       string      `json:"booking_id"`
	GuestFirstName  string      `json:"guest_first_name"`
	GuestLastName   string      `json:"guest_last_name"`
	GuestEmail      string      `json:"guest_email"`
	GuestPhone      string      `json:"guest_phone"`
	Property        string      `json:"property"`
	PropertyName    string      `json:"property_name"`
	RoomType        string      `json:"room_type"`
	PackageType     string      `json:"package_type"`
	Adults          int         `json:"adults"`
	Children        int         `json:"children"`
	CheckIn         string      `json:"check_in"`
	CheckOut        string      `json:"check_out"`
	Nights          int         `json:"nights"`
	TotalAmount     string      `json:"total_amount"`
	Currency        string      `json:"currency"`
	Status          string      `json:"status"`
	StatusBadge     model.Badge `json:"status_badge"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentBadge    model.Badge `json:"payment_badge"`
	PaymentMethod   string      `json:"payment_method"`
	SpecialRequests string      `json:"special_requests"`
	Source          string      `json:"source"`
	CheckedInAt     *string     `json:"checked_in_at,omitempty"`
	CheckedOutAt    *string     `json:"checked_out_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.BookingID = booking.BookingID
	r.GuestFirstName = booking.GuestFirstName
	r.GuestLastName = booking.GuestLastName
	r.GuestEmail = booking.GuestEmail
	r.GuestPhone = booking.GuestPhone
	r.Property = booking.Property
	r.PropertyName = propertyModel.Name(booking.Property)
	r.RoomType = booking.RoomType
	r.PackageType = booking.PackageType
	r.Adults = booking.Adults
	r.Children = booking.Children
	r.CheckIn = booking.CheckIn.Format(constant.DateOnly)
	r.CheckOut = booking.CheckOut.Format(constant.DateOnly)
	r.Nights = booking.Nights
	r.TotalAmount = booking.TotalAmount.StringFixed(2)
	r.Currency = booking.Currency
	r.Status = booking.Status
	r.PaymentStatus = booking.PaymentStatus
	r.PaymentMethod = booking.PaymentMethod
	r.SpecialRequests = booking.SpecialRequests
	r.Source = booking.Source
	r.CheckedInAt = formatOptional(booking.CheckedInAt)
	r.CheckedOutAt = formatOptional(booking.CheckedOutAt)
	r.Metadata.FromModel(booking.Metadata)

	r.StatusBadge = model.StatusBadge(booking.Status)
	r.PaymentBadge = model.PaymentBadge(booking.PaymentStatus)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type StatusEventResponse struct {
	ID         string      `json:"id"`
	FromStatus string      `json:"from_status"`
	ToStatus   string      `json:"to_status"`
	Badge      model.Badge `json:"badge"`
	CreatedAt  string      `json:"created_at"`
	CreatedBy  string      `json:"created_by"`
}

func (r *StatusEventResponse) FromModel(event model.StatusEvent) {
	r.ID = event.ID
	r.FromStatus = event.FromStatus
	r.ToStatus = event.ToStatus
	r.Badge = model.StatusBadge(event.ToStatus)
	r.CreatedAt = event.CreatedAt.Format(constant.DateFormat)
	r.CreatedBy = event.CreatedBy
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(constant.DateOnly, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("check_in must be a date (YYYY-MM-DD)") //nolint:wrapcheck
	}

	out, err := time.Parse(constant.DateOnly, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("check_out must be a date (YYYY-MM-DD)") //nolint:wrapcheck
	}

	if !out.After(in) {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	return in, out, nil
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(constant.DateFormat)

	return &formatted
}
