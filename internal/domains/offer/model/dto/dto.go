package dto

import (
	"jumuia/internal/domains/offer/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	gModel "jumuia/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOfferRequest struct {
	Title       string `json:"title"       validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	// Property is a property code or "all".
	Property  string          `json:"property"   validate:"required"`
	Price     decimal.Decimal `json:"price"      validate:"required,gt=0" swaggertype:"string" example:"15000"`
	ValidFrom string          `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string          `json:"valid_to"   validate:"required,datetime=2006-01-02"`
	// Image is a base64 data URL such as data:image/png;base64,...
	Image  string `json:"image,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

func (r *CreateOfferRequest) ToModel(imageURL, actor string, now time.Time) (model.Offer, error) {
	if !ValidProperty(r.Property) {
		return model.Offer{}, failure.BadRequestFromString("invalid property") //nolint:wrapcheck
	}

	if r.Price.IsNegative() {
		return model.Offer{}, failure.BadRequestFromString("price cannot be negative") //nolint:wrapcheck
	}

	validFrom, validTo, err := parseWindow(r.ValidFrom, r.ValidTo)
	if err != nil {
		return model.Offer{}, err
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return model.Offer{
		ID:          uuid.NewString(),
		Title:       r.Title,
		Description: r.Description,
		Property:    r.Property,
		Price:       r.Price,
		ValidFrom:   validFrom,
		ValidTo:     validTo,
		Image:       imageURL,
		Active:      active,
		Metadata:    gModel.NewMetadata(actor, now),
	}, nil
}

type UpdateOfferRequest struct {
	Title       *string          `json:"title,omitempty"       validate:"omitempty,min=3,max=120"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Property    *string          `json:"property,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"       swaggertype:"string"`
	ValidFrom   *string          `json:"valid_from,omitempty"  validate:"omitempty,datetime=2006-01-02"`
	ValidTo     *string          `json:"valid_to,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	// Image replaces the current image when set; an empty string removes it.
	Image  *string `json:"image,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Changes returns the columns to update. The image column is handled by the caller.
func (r *UpdateOfferRequest) Changes(current model.Offer, actor string, now time.Time) (map[string]any, error) {
	changes := map[string]any{}

	if r.Title != nil && *r.Title != current.Title {
		changes[model.FieldTitle] = *r.Title
	}

	if r.Description != nil && *r.Description != current.Description {
		changes[model.FieldDescription] = *r.Description
	}

	if r.Property != nil && *r.Property != current.Property {
		if !ValidProperty(*r.Property) {
			return nil, failure.BadRequestFromString("invalid property") //nolint:wrapcheck
		}

		changes[model.FieldProperty] = *r.Property
	}

	if r.Price != nil && !r.Price.Equal(current.Price) {
		if r.Price.IsNegative() {
			return nil, failure.BadRequestFromString("price cannot be negative") //nolint:wrapcheck
		}

		changes[model.FieldPrice] = *r.Price
	}

	if r.ValidFrom != nil || r.ValidTo != nil {
		from, to := current.ValidFrom.Format(time.DateOnly), current.ValidTo.Format(time.DateOnly)
		if r.ValidFrom != nil {
			from = *r.ValidFrom
		}

		if r.ValidTo != nil {
			to = *r.ValidTo
		}

		validFrom, validTo, err := parseWindow(from, to)
		if err != nil {
			return nil, err
		}

		if !validFrom.Equal(current.ValidFrom) {
			changes[model.FieldValidFrom] = validFrom
		}

		if !validTo.Equal(current.ValidTo) {
			changes[model.FieldValidTo] = validTo
		}
	}

	if r.Active != nil && *r.Active != current.Active {
		changes[model.FieldActive] = *r.Active
	}

	if len(changes) > 0 {
		changes[constant.FieldModifiedAt] = now
		changes[constant.FieldModifiedBy] = actor
	}

	return changes, nil
}

func parseWindow(from, to string) (time.Time, time.Time, error) {
	validFrom, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("valid_from must be a YYYY-MM-DD date") //nolint:wrapcheck
	}

	validTo, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("valid_to must be a YYYY-MM-DD date") //nolint:wrapcheck
	}

	if validTo.Before(validFrom) {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("valid_to cannot be before valid_from") //nolint:wrapcheck
	}

	return validFrom, validTo, nil
}

func ValidProperty(code string) bool {
	return code == propertyModel.All || propertyModel.Valid(code)
}

type OfferResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Property     string `json:"property"`
	PropertyName string `json:"property_name"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	ValidFrom    string `json:"valid_from"`
	ValidTo      string `json:"valid_to"`
	Image        string `json:"image,omitempty"`
	Active       bool   `json:"active"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(offer model.Offer) {
	r.ID = offer.ID
	r.Title = offer.Title
	r.Description = offer.Description
	r.Property = offer.Property
	r.PropertyName = propertyModel.Name(offer.Property)
	r.Price = offer.Price.StringFixed(2)
	r.Currency = model.Currency
	r.ValidFrom = offer.ValidFrom.Format(time.DateOnly)
	r.ValidTo = offer.ValidTo.Format(time.DateOnly)
	r.Image = offer.Image
	r.Active = offer.Active
	r.Metadata.FromModel(offer.Metadata)
}

type GetOffersResponse struct {
	Offers    []OfferResponse `json:"offers"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOffersResponse) FromModels(offers []model.Offer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offers = make([]OfferResponse, len(offers))
	for i, offer := range offers {
		r.Offers[i].FromModel(offer)
	}
}

const QueryProperty = "property"

type OfferFilter struct {
	Property string
	// LiveOn limits results to active offers valid on this YYYY-MM-DD day.
	LiveOn string
}

func (f OfferFilter) ToFilterGroup() (gDto.FilterGroup, error) {
	var filters []any

	if f.Property != constant.Empty && f.Property != propertyModel.All {
		if !propertyModel.Valid(f.Property) {
			return gDto.FilterGroup{}, failure.BadRequestFromString("invalid property") //nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{
			Field:    model.FieldProperty,
			Value:    []string{f.Property, propertyModel.All},
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		})
	}

	if f.LiveOn != constant.Empty {
		filters = append(filters,
			gDto.Filter{
				Field:    model.FieldActive,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "live_from",
				Field:    model.FieldValidFrom,
				Value:    f.LiveOn,
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "live_to",
				Field:    model.FieldValidTo,
				Value:    f.LiveOn,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		)
	}

	return gDto.FilterGroup{Filters: filters}, nil
}
