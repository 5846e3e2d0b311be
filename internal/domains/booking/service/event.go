package service

import (
	"context"
	"jumuia/internal/domains/booking/model"
	notificationModel "jumuia/internal/domains/notification/model"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	"jumuia/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewEvent snapshots booking into an event of the given type.
func NewEvent(eventType string, booking model.Booking, previousStatus string) notificationModel.Event {
	return notificationModel.Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		PreviousStatus: previousStatus,
		At:             timezone.Now(),
		Booking: notificationModel.Booking{
			ID:             booking.ID,
			BookingID:      booking.BookingID,
			GuestFirstName: booking.GuestFirstName,
			GuestName:      booking.GuestName(),
			GuestEmail:     booking.GuestEmail,
			GuestPhone:     booking.GuestPhone,
			Property:       booking.Property,
			PropertyName:   propertyModel.Name(booking.Property),
			RoomType:       booking.RoomType,
			PackageType:    booking.PackageType,
			Adults:         booking.Adults,
			Children:       booking.Children,
			CheckIn:        booking.CheckIn.Format(constant.DateOnly),
			CheckOut:       booking.CheckOut.Format(constant.DateOnly),
			Nights:         booking.Nights,
			TotalAmount:    booking.TotalAmount.StringFixed(2),
			Currency:       booking.Currency,
			Status:         booking.Status,
			PaymentStatus:  booking.PaymentStatus,
		},
	}
}

// InvalidateCaches drops the cached booking and every list, count and statistics projection.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, id string) {
	if id != constant.Empty {
		if err := redisCache.Delete(ctx, shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to delete booking cache")
		}
	}

	shared.InvalidateCaches(ctx, redisCache, model.CacheKeyGets)
	shared.InvalidateCaches(ctx, redisCache, model.CacheKeyCount)
	shared.InvalidateCaches(ctx, redisCache, model.CacheKeyStats)
}
