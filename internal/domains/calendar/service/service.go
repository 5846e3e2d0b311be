package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/otel"
	bookingModel "jumuia/internal/domains/booking/model"
	bookingRepo "jumuia/internal/domains/booking/repository"
	"jumuia/internal/domains/calendar/model/dto"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var eventColumns = []string{
	bookingModel.FieldID,
	bookingModel.FieldBookingID,
	bookingModel.FieldGuestFirstName,
	bookingModel.FieldGuestLastName,
	bookingModel.FieldProperty,
	bookingModel.FieldRoomType,
	bookingModel.FieldCheckIn,
	bookingModel.FieldCheckOut,
	bookingModel.FieldStatus,
	bookingModel.FieldPaymentStatus,
}

type Calendar interface {
	Events(ctx context.Context, req dto.EventsRequest) ([]dto.Event, error)
	Stats(ctx context.Context, property string) (dto.Stats, error)
}

type serviceImpl struct {
	repo  bookingRepo.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Calendar {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Events returns every booking whose stay overlaps [start, end], with its markers.
func (s *serviceImpl) Events(ctx context.Context, req dto.EventsRequest) (res []dto.Event, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Events")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Property = s.scopedProperty(ctx, req.Property)

	if err = req.Validate(); err != nil {
		return nil, err
	}

	filter := propertyFilter(req.Property)
	filter.Add(gDto.Filter{Field: bookingModel.FieldCheckIn, ArgName: "window_end", Value: req.End, Operator: gDto.FilterOperatorLessEq, Table: bookingModel.TableName})
	filter.Add(gDto.Filter{Field: bookingModel.FieldCheckOut, ArgName: "window_start", Value: req.Start, Operator: gDto.FilterOperatorGreaterEq, Table: bookingModel.TableName})

	params := gDto.QueryParams{SortBy: bookingModel.TableName + "." + bookingModel.FieldCheckIn, SortDir: gDto.SortDirAsc}

	bookings, err := s.repo.GetAll(ctx, params, filter, eventColumns...)
	if err != nil {
		log.Error().Err(err).Str("start", req.Start).Str("end", req.End).Msg("failed to load calendar bookings")

		return nil, fmt.Errorf("failed to load calendar bookings: %w", err)
	}

	res = make([]dto.Event, 0, len(bookings)*3)
	for _, booking := range bookings {
		res = append(res, dto.FromBooking(booking)...)
	}

	return res, nil
}

// Stats counts bookings for the dashboard. The grouped counts and today's arrivals and
// departures are queried concurrently.
func (s *serviceImpl) Stats(ctx context.Context, property string) (res dto.Stats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	property = s.scopedProperty(ctx, property)
	if property == constant.Empty {
		property = propertyModel.All
	}

	if err = dto.ValidateProperty(property); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(bookingModel.CacheKeyStats, property)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	today := timezone.Now().Format(constant.DateOnly)

	var (
		byStatus, byProperty map[string]int
		checkIns, checkOuts  int
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		byStatus, err = s.repo.CountBy(gctx, bookingModel.FieldStatus, propertyFilter(property))

		return err //nolint:wrapcheck
	})

	group.Go(func() (err error) {
		byProperty, err = s.repo.CountBy(gctx, bookingModel.FieldProperty, propertyFilter(property))

		return err //nolint:wrapcheck
	})

	group.Go(func() (err error) {
		checkIns, err = s.repo.Count(gctx, dayFilter(property, bookingModel.FieldCheckIn, today))

		return err //nolint:wrapcheck
	})

	group.Go(func() (err error) {
		checkOuts, err = s.repo.Count(gctx, dayFilter(property, bookingModel.FieldCheckOut, today))

		return err //nolint:wrapcheck
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Str("property", property).Msg("failed to compute booking statistics")

		return res, fmt.Errorf("failed to compute booking statistics: %w", err)
	}

	res.Fill(property, byStatus, byProperty)
	res.TodayCheckIns = checkIns
	res.TodayCheckOuts = checkOuts
	res.GeneratedAt = timezone.Now().Format(constant.DateFormat)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking statistics to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) scopedProperty(ctx context.Context, property string) string {
	if caller := shared.CallerFromContext(ctx); caller.PropertyScoped() {
		return caller.AssignedProperty
	}

	return property
}

func propertyFilter(property string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if property != constant.Empty && property != propertyModel.All {
		filter.Add(gDto.Filter{Field: bookingModel.FieldProperty, Value: property, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName})
	}

	return filter
}

// dayFilter matches non-cancelled bookings whose field falls on day.
func dayFilter(property, field, day string) gDto.FilterGroup {
	filter := propertyFilter(property)
	filter.Add(gDto.Filter{Field: field, ArgName: field + "_day", Value: day, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName})
	filter.Add(gDto.Filter{Field: bookingModel.FieldStatus, ArgName: "excluded_status", Value: bookingModel.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: bookingModel.TableName})

	return filter
}
