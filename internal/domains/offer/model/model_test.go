package model_test

import (
	"jumuia/internal/domains/offer/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOffer_Live(t *testing.T) {
	offer := model.Offer{
		Active:    true,
		ValidFrom: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, offer.Live(time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, offer.Live(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, offer.Live(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	offer.Active = false
	assert.False(t, offer.Live(time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)))
}

func TestImageExtension(t *testing.T) {
	ext, ok := model.ImageExtension("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = model.ImageExtension("application/pdf")
	assert.False(t, ok)

	assert.Equal(t, []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}, model.ImageTypes())
}
