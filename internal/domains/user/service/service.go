package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=User=MockUserService

import (
	"context"
	"fmt"
	"jumuia/config"
	"jumuia/infras/otel"
	"jumuia/internal/domains/user/model"
	"jumuia/internal/domains/user/model/dto"
	"jumuia/internal/domains/user/repository"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"jumuia/shared/password"
	"jumuia/shared/timezone"

	"github.com/rs/zerolog/log"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.CredentialsResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (dto.GetUsersResponse, error)
	Delete(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id string) (dto.CredentialsResponse, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Create registers a manager account under a generated first.last email. The plaintext
// password is only ever part of the response.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.CredentialsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := model.Email(req.FirstName, req.LastName, s.cfg.App.EmailDomain)
	if email == constant.Empty {
		return res, failure.BadRequestFromString("first and last name are required to generate an email") //nolint:wrapcheck
	}

	if !model.ValidRole(req.Role) {
		return res, failure.BadRequestFromString("invalid role") //nolint:wrapcheck
	}

	if !dto.ValidProperty(req.AssignedProperty) {
		return res, failure.BadRequestFromString("invalid assigned property") //nolint:wrapcheck
	}

	if err = guardAdmin(ctx, req.Role); err != nil {
		return res, err
	}

	exists, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldEmail, model.TableName, email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict("a user with email " + email + " already exists") //nolint:wrapcheck
	}

	plaintext := req.Password
	if plaintext == constant.Empty {
		if plaintext, err = password.Generate(password.GeneratedLength); err != nil {
			log.Error().Err(err).Msg("failed to generate password")

			return res, fmt.Errorf("failed to generate password: %w", err)
		}
	}

	hashedPassword, err := password.Hash(plaintext)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(email, hashedPassword, shared.CallerFromContext(ctx).Actor(), timezone.Now())

	if err = s.repo.Insert(ctx, user); err != nil {
		if repository.IsDuplicateEmail(err) {
			return res, failure.Conflict("a user with email " + email + " already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx)

	res.User.FromModel(user)
	res.Password = plaintext

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Paged()
	params.SortOn(model.TableName, model.FieldCreatedAt, gDto.SortDirDesc,
		model.FieldCreatedAt, model.FieldFirstName, model.FieldLastName, model.FieldEmail, model.FieldLastLogin)

	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.count(ctx, group)
	if err != nil {
		return res, err
	}

	users, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(users, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id == shared.CallerFromContext(ctx).UserID {
		return failure.BadRequestFromString("you cannot delete your own account") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	if err = guardAdmin(ctx, user.Role); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// ResetPassword replaces the stored hash with a freshly generated password and returns it once.
func (s *serviceImpl) ResetPassword(ctx context.Context, id string) (res dto.CredentialsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") //nolint:wrapcheck
	}

	if err = guardAdmin(ctx, user.Role); err != nil {
		return res, err
	}

	plaintext, err := password.Generate(password.GeneratedLength)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate password")

		return res, fmt.Errorf("failed to generate password: %w", err)
	}

	hashedPassword, err := password.Hash(plaintext)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	changes := map[string]any{
		model.FieldPassword:      hashedPassword,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.CallerFromContext(ctx).Actor(),
	}

	if err = s.repo.Update(ctx, changes, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to reset password")

		return res, fmt.Errorf("failed to reset password: %w", err)
	}

	res.User.FromModel(user)
	res.Password = plaintext

	return res, nil
}

// guardAdmin keeps admin accounts under the control of admins only.
func guardAdmin(ctx context.Context, role string) error {
	if role == constant.RoleAdmin && shared.CallerFromContext(ctx).Role != constant.RoleAdmin {
		return failure.ForbiddenError
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGets)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}
