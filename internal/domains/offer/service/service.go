package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Offer=MockOfferService

import (
	"bytes"
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/otel"
	"jumuia/infras/s3"
	"jumuia/internal/domains/offer/model"
	"jumuia/internal/domains/offer/model/dto"
	"jumuia/internal/domains/offer/repository"
	"jumuia/shared"
	"jumuia/shared/base64"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"jumuia/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Offer interface {
	Create(ctx context.Context, req dto.CreateOfferRequest) (dto.OfferResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.OfferFilter) (dto.GetOffersResponse, error)
	Get(ctx context.Context, id string) (dto.OfferResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateOfferRequest) (dto.OfferResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Offer
	storage s3.Storage
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Offer, storage s3.Storage, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Offer {
	return &serviceImpl{
		repo:    repo,
		storage: storage,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOfferRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	offer, err := req.ToModel(constant.Empty, shared.CallerFromContext(ctx).Actor(), timezone.Now())
	if err != nil {
		return res, err
	}

	if req.Image != constant.Empty {
		if offer.Image, err = s.uploadImage(ctx, req.Image); err != nil {
			return res, err
		}
	}

	if err = s.repo.Insert(ctx, offer); err != nil {
		log.Error().Err(err).Msg("failed to create offer")
		s.removeImage(ctx, offer.Image)

		return res, fmt.Errorf("failed to create offer: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(offer)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.OfferFilter) (res dto.GetOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	group, err := filter.ToFilterGroup()
	if err != nil {
		return res, err
	}

	params.Paged()
	params.SortOn(model.TableName, model.FieldValidFrom, gDto.SortDirAsc,
		model.FieldValidFrom, model.FieldValidTo, model.FieldPrice, model.FieldTitle, model.FieldCreatedAt)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offers")

		return res, nil
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	offers, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	res.FromModels(offers, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offer")

		return res, nil
	}

	offer, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer to cache")
		}
	}()

	return res, nil
}

// Update applies the supplied fields. A replaced or cleared image is removed from storage afterwards.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateOfferRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	actor := shared.CallerFromContext(ctx).Actor()
	now := timezone.Now()

	changes, err := req.Changes(current, actor, now)
	if err != nil {
		return res, err
	}

	var uploaded string

	if req.Image != nil {
		if *req.Image != constant.Empty {
			if uploaded, err = s.uploadImage(ctx, *req.Image); err != nil {
				return res, err
			}
		}

		if uploaded != current.Image {
			changes[model.FieldImage] = uploaded
			changes[constant.FieldModifiedAt] = now
			changes[constant.FieldModifiedBy] = actor
		}
	}

	if len(changes) == 0 {
		res.FromModel(current)

		return res, nil
	}

	if err = s.repo.Update(ctx, changes, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", current.ID).Msg("failed to update offer")
		s.removeImage(ctx, uploaded)

		return res, fmt.Errorf("failed to update offer: %w", err)
	}

	if _, replaced := changes[model.FieldImage]; replaced {
		s.removeImage(ctx, current.Image)
	}

	s.invalidate(ctx, current.ID)

	updated, err := s.find(ctx, current.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	offer, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(offer.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", offer.ID).Msg("failed to delete offer")

		return fmt.Errorf("failed to delete offer: %w", err)
	}

	s.removeImage(ctx, offer.Image)
	s.invalidate(ctx, offer.ID)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Offer, error) {
	if uuid.Validate(id) != nil {
		return model.Offer{}, failure.NotFound("offer not found") //nolint:wrapcheck
	}

	offer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get offer")

		return offer, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return offer, failure.NotFound("offer not found") //nolint:wrapcheck
	}

	return offer, nil
}

// uploadImage stores a base64 data URL and returns its public URL.
func (s *serviceImpl) uploadImage(ctx context.Context, dataURL string) (string, error) {
	contentType, data, err := base64.Decode(dataURL)
	if err != nil {
		return constant.Empty, failure.BadRequestFromString("image must be a base64 data url") //nolint:wrapcheck
	}

	ext, ok := model.ImageExtension(contentType)
	if !ok {
		return constant.Empty, failure.BadRequestFromString("image must be one of " + strings.Join(model.ImageTypes(), ", ")) //nolint:wrapcheck
	}

	if len(data) > model.MaxImageBytes {
		return constant.Empty, failure.BadRequestFromString("image must not exceed 2 MB") //nolint:wrapcheck
	}

	url, err := s.storage.Upload(ctx, model.ImageDirectory, uuid.NewString()+ext, contentType, bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Msg("failed to upload offer image")

		return constant.Empty, fmt.Errorf("failed to upload offer image: %w", err)
	}

	return url, nil
}

// removeImage deletes a stored image. Failures leave an orphaned object and are only logged.
func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.storage.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete offer image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
				log.Error().Err(err).Str("id", id).Msg("failed to delete offer from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGets)
	}()
}
