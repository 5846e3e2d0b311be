package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/otel"
	"jumuia/internal/domains/booking/model"
	"jumuia/internal/domains/booking/model/dto"
	"jumuia/internal/domains/booking/repository"
	notificationModel "jumuia/internal/domains/notification/model"
	notification "jumuia/internal/domains/notification/service"
	propertyModel "jumuia/internal/domains/property/model"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"jumuia/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const createAttempts = 3

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, source string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	Search(ctx context.Context, term string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	History(ctx context.Context, id string) ([]dto.StatusEventResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	TransitionStatus(ctx context.Context, id, status string) (dto.BookingResponse, error)
	MarkPaid(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	eventRepo repository.StatusEvent
	publisher notification.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	eventRepo repository.StatusEvent,
	publisher notification.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		eventRepo: eventRepo,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create stores a new pending booking. Guest bookings must name a property; admin bookings
// fall back to the caller's assigned property, then limuru.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, source string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	caller := shared.CallerFromContext(ctx)

	switch {
	case source == model.SourceWeb && req.Property == constant.Empty:
		return res, failure.BadRequestFromString("property is required") //nolint:wrapcheck
	case source == model.SourceAdmin && caller.PropertyScoped():
		req.Property = caller.AssignedProperty
	case source == model.SourceAdmin && req.Property == constant.Empty:
		req.Property = propertyModel.Limuru
		if propertyModel.Valid(caller.AssignedProperty) {
			req.Property = caller.AssignedProperty
		}
	}

	var booking model.Booking

	for attempt := 1; attempt <= createAttempts; attempt++ {
		booking, err = req.ToModel(source, caller.Actor(), timezone.Now())
		if err != nil {
			return res, err
		}

		err = s.repo.Insert(ctx, booking)
		if err == nil {
			break
		}

		if !repository.IsDuplicateBookingID(err) {
			log.Error().Err(err).Msg("failed to create booking")

			return res, fmt.Errorf("failed to create booking: %w", err)
		}

		log.Warn().Str("booking_id", booking.BookingID).Int("attempt", attempt).Msg("booking code collision, regenerating")
	}

	if err != nil {
		return res, fmt.Errorf("failed to allocate booking code: %w", err)
	}

	log.Info().Str("booking_id", booking.BookingID).Str("property", booking.Property).Str("source", source).Msg("booking created")

	s.publisher.Publish(ctx, NewEvent(notificationModel.EventBookingCreated, booking, constant.Empty))
	s.invalidate(ctx, constant.Empty)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if caller := shared.CallerFromContext(ctx); caller.PropertyScoped() {
		filter.Property = caller.AssignedProperty
	}

	group, err := filter.ToFilterGroup()
	if err != nil {
		return res, err
	}

	params.Paged()

	params = dto.NormalizeSort(params)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, group)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, params, group)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Search(ctx context.Context, term string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	if term == constant.Empty {
		return dto.GetBookingsResponse{}, failure.BadRequestFromString("search term is required") //nolint:wrapcheck
	}

	return s.GetAll(ctx, params, dto.BookingFilter{Query: term})
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		if !s.visible(ctx, res.Property) {
			return dto.BookingResponse{}, failure.NotFound("booking not found") //nolint:wrapcheck
		}

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	if booking.ID == id {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) History(ctx context.Context, id string) (res []dto.StatusEventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	events, err := s.eventRepo.GetAll(ctx, params, shared.FilterByField(model.FieldStatusEventBookingID, model.StatusEventTableName, booking.ID))
	if err != nil {
		log.Error().Err(err).Str("id", booking.ID).Msg("failed to get booking history")

		return nil, fmt.Errorf("failed to get booking history: %w", err)
	}

	res = make([]dto.StatusEventResponse, len(events))
	for i, event := range events {
		res[i].FromModel(event)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if caller := shared.CallerFromContext(ctx); caller.PropertyScoped() && req.Property != nil && *req.Property != caller.AssignedProperty {
		return res, failure.ResourceRestrictedError
	}

	changes, err := req.Changes(booking, shared.CallerFromContext(ctx).Actor(), timezone.Now())
	if err != nil {
		return res, err
	}

	if len(changes) == 0 {
		res.FromModel(booking)

		return res, nil
	}

	if err = s.repo.Update(ctx, changes, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", booking.ID).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	updated, err := s.reload(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	s.publisher.Publish(ctx, NewEvent(notificationModel.EventBookingUpdated, updated, constant.Empty))
	s.invalidate(ctx, booking.ID)

	res.FromModel(updated)

	return res, nil
}

// TransitionStatus moves the booking along the status graph and records the transition.
// Requesting the current status returns the booking unchanged.
func (s *serviceImpl) TransitionStatus(ctx context.Context, id, status string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TransitionStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !model.ValidStatus(status) {
		return res, failure.BadRequestFromString("unknown status " + status) //nolint:wrapcheck
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == status {
		res.FromModel(booking)

		return res, nil
	}

	if !model.CanTransition(booking.Status, status) {
		return res, failure.Conflict(fmt.Sprintf("cannot change status from %s to %s", booking.Status, status)) //nolint:wrapcheck
	}

	actor := shared.CallerFromContext(ctx).Actor()
	now := timezone.Now()

	changes := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	switch status {
	case model.StatusCheckedIn:
		changes[model.FieldCheckedInAt] = now
	case model.StatusCheckedOut:
		changes[model.FieldCheckedOutAt] = now
	}

	event := model.StatusEvent{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		FromStatus: booking.Status,
		ToStatus:   status,
		CreatedAt:  now,
		CreatedBy:  actor,
	}

	err = s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, sqltx, changes, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		if err := s.eventRepo.InsertTx(ctx, sqltx, event); err != nil {
			return fmt.Errorf("failed to record status event: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", booking.ID).Str("from", booking.Status).Str("to", status).Msg("failed to transition booking")

		return res, err
	}

	log.Info().Str("booking_id", booking.BookingID).Str("from", booking.Status).Str("to", status).Msg("booking status changed")

	previous := booking.Status
	booking.Status = status
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	switch status {
	case model.StatusCheckedIn:
		booking.CheckedInAt = &now
	case model.StatusCheckedOut:
		booking.CheckedOutAt = &now
	}

	s.publisher.Publish(ctx, NewEvent(notificationModel.EventStatusChanged, booking, previous))
	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) MarkPaid(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkPaid")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.PaymentStatus == model.PaymentPaid {
		res.FromModel(booking)

		return res, nil
	}

	now := timezone.Now()
	actor := shared.CallerFromContext(ctx).Actor()

	changes := map[string]any{
		model.FieldPaymentStatus: model.PaymentPaid,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	if err = s.repo.Update(ctx, changes, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", booking.ID).Msg("failed to mark booking paid")

		return res, fmt.Errorf("failed to mark booking paid: %w", err)
	}

	booking.PaymentStatus = model.PaymentPaid
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	s.publisher.Publish(ctx, NewEvent(notificationModel.EventBookingUpdated, booking, constant.Empty))
	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// find loads a booking by uuid or booking code and hides bookings outside the caller's property.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	var filter gDto.FilterGroup

	switch {
	case uuid.Validate(id) == nil:
		filter = shared.FilterByID(id, model.FieldID, model.TableName)
	case model.CodePattern.MatchString(id):
		filter = shared.FilterByField(model.FieldBookingID, model.TableName, id)
	default:
		return model.Booking{}, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || !s.visible(ctx, booking.Property) {
		return model.Booking{}, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to reload booking")

		return booking, fmt.Errorf("failed to reload booking: %w", err)
	}

	return booking, nil
}

func (s *serviceImpl) visible(ctx context.Context, property string) bool {
	caller := shared.CallerFromContext(ctx)

	return !caller.PropertyScoped() || caller.AssignedProperty == property
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		InvalidateCaches(context.WithoutCancel(ctx), s.cache, id)
	}()
}
