package dto

import (
	"jumuia/internal/domains/booking/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"jumuia/shared/phone"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	QueryProperty      = "property"
	QueryStatus        = "status"
	QueryPaymentStatus = "payment_status"
	QueryFrom          = "from"
	QueryTo            = "to"
	QuerySearch        = "q"
)

var sortableFields = []string{
	model.FieldCreatedAt,
	model.FieldCheckIn,
	model.FieldCheckOut,
	model.FieldTotalAmount,
	model.FieldBookingID,
}

// BookingFilter holds the list filters of the bookings screen.
type BookingFilter struct {
	Property      string
	Status        string
	PaymentStatus string
	From          string
	To            string
	Query         string
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Property = strings.ToLower(strings.TrimSpace(query.Get(QueryProperty)))
	f.Status = strings.TrimSpace(query.Get(QueryStatus))
	f.PaymentStatus = strings.TrimSpace(query.Get(QueryPaymentStatus))
	f.From = strings.TrimSpace(query.Get(QueryFrom))
	f.To = strings.TrimSpace(query.Get(QueryTo))
	f.Query = strings.TrimSpace(query.Get(QuerySearch))
}

// ToFilterGroup validates the filter values and renders them as a where group.
func (f *BookingFilter) ToFilterGroup() (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Property != "" && f.Property != propertyModel.All {
		if !propertyModel.Valid(f.Property) {
			return group, failure.BadRequestFromString("unknown property " + f.Property) //nolint:wrapcheck
		}

		group.Add(gDto.Filter{Field: model.FieldProperty, Value: f.Property, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		if !model.ValidStatus(f.Status) {
			return group, failure.BadRequestFromString("unknown status " + f.Status) //nolint:wrapcheck
		}

		group.Add(gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.PaymentStatus != "" {
		if !slices.Contains(model.PaymentStatuses(), f.PaymentStatus) {
			return group, failure.BadRequestFromString("unknown payment_status " + f.PaymentStatus) //nolint:wrapcheck
		}

		group.Add(gDto.Filter{Field: model.FieldPaymentStatus, Value: f.PaymentStatus, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.From != "" {
		if _, err := time.Parse(constant.DateOnly, f.From); err != nil {
			return group, failure.BadRequestFromString("from must be a date (YYYY-MM-DD)") //nolint:wrapcheck
		}

		group.Add(gDto.Filter{Field: model.FieldCheckIn, ArgName: "check_in_from", Value: f.From, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if f.To != "" {
		if _, err := time.Parse(constant.DateOnly, f.To); err != nil {
			return group, failure.BadRequestFromString("to must be a date (YYYY-MM-DD)") //nolint:wrapcheck
		}

		group.Add(gDto.Filter{Field: model.FieldCheckIn, ArgName: "check_in_to", Value: f.To, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	if f.Query != "" {
		group.Add(SearchGroup(f.Query))
	}

	return group, nil
}

// SearchGroup matches the term against the booking code and guest names anywhere, and
// against the phone number as a prefix. Phone-like terms are rewritten to the stored 254 form.
func SearchGroup(term string) gDto.FilterGroup {
	phonePrefix, _ := phone.SearchPrefix(term)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, ArgName: "q_booking_id", Value: term, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			gDto.Filter{Field: model.FieldGuestFirstName, ArgName: "q_first_name", Value: term, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			gDto.Filter{Field: model.FieldGuestLastName, ArgName: "q_last_name", Value: term, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			gDto.Filter{Field: model.FieldGuestPhone, ArgName: "q_phone", Value: phonePrefix, Operator: gDto.FilterOperatorPrefix, Table: model.TableName},
		},
	}
}

// NormalizeSort defaults to newest first and drops unknown sort columns.
func NormalizeSort(params gDto.QueryParams) gDto.QueryParams {
	params.SortOn(model.TableName, model.FieldCreatedAt, gDto.SortDirDesc, sortableFields...)

	return params
}
