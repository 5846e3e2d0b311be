package model

import (
	"jumuia/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "offers"
	EntityName = "offer"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldProperty    = "property"
	FieldPrice       = "price"
	FieldValidFrom   = "valid_from"
	FieldValidTo     = "valid_to"
	FieldImage       = "image"
	FieldActive      = "active"
	FieldCreatedAt   = "created_at"

	CacheKeyGet  = "offer:get"
	CacheKeyGets = "offer:gets"

	Currency       = "KES"
	ImageDirectory = "offers"
	// MaxImageBytes caps decoded offer images.
	MaxImageBytes = 2 << 20
)

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

type Offer struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Property    string          `db:"property"`
	Price       decimal.Decimal `db:"price"`
	ValidFrom   time.Time       `db:"valid_from"`
	ValidTo     time.Time       `db:"valid_to"`
	Image       string          `db:"image"`
	Active      bool            `db:"active"`
	model.Metadata
}

// Live reports whether the offer is active and day falls within its validity window.
func (o Offer) Live(day time.Time) bool {
	date := day.Format(time.DateOnly)

	return o.Active && o.ValidFrom.Format(time.DateOnly) <= date && date <= o.ValidTo.Format(time.DateOnly)
}

// ImageExtension returns the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageTypes[contentType]

	return ext, ok
}

func ImageTypes() []string {
	types := make([]string, 0, len(imageTypes))
	for contentType := range imageTypes {
		types = append(types, contentType)
	}

	slices.Sort(types)

	return types
}
