package impl

import (
	"context"
	"log/slog"
	"time"

	"orderdesk/config"
	"orderdesk/internal/cache"
	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/domain/service"
	"orderdesk/internal/pagination"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo    repository.UserRepository
	hasher      service.PasswordHasher
	cacheStore  service.CacheStore
	mailer      service.Mailer
	invalidator *cache.Invalidator
	listTTL     time.Duration
	codeTTL     time.Duration
	logger      *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	Hasher      service.PasswordHasher
	CacheStore  service.CacheStore
	Mailer      service.Mailer
	Invalidator *cache.Invalidator
	Config      *config.Config
	Logger      *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:    params.UserRepo,
		hasher:      params.Hasher,
		cacheStore:  params.CacheStore,
		mailer:      params.Mailer,
		invalidator: params.Invalidator,
		listTTL:     params.Config.Cache.ListTTL,
		codeTTL:     params.Config.Cache.CodeTTL,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns a page of users. ADMIN only.
func (srv *userService) List(ctx context.Context, principal entity.Principal, input usecase.ListUsersInput) (*pagination.Page[*entity.User], error) {
	if !principal.Role.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	params := pagination.Params{Page: input.Page, PerPage: input.PerPage}.Normalize()
	sortBy, sortDir := canonicalSort(input.SortBy, input.SortDir)

	key := cache.ListKey(cache.UserListPrefix, params.Page, params.PerPage, sortBy, sortDir,
		map[string]string{"search": input.Search})

	return readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*pagination.Page[*entity.User], error) {
			src := srv.userRepo.PageSource(repository.ListUsersQuery{
				Search:  input.Search,
				SortBy:  sortBy,
				SortDir: sortDir,
			})

			page, err := pagination.Paginate(ctx, src, params)
			if err != nil {
				return nil, errors.Wrap(err, "failed to list users")
			}

			return page, nil
		})
}

// Get returns a single user. Self or ADMIN.
func (srv *userService) Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.User, error) {
	if !principal.Owns(id) && !principal.Role.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	key := cache.DetailKey(cache.UserDetailPrefix, id)

	return readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*entity.User, error) {
			return srv.findUser(ctx, id)
		})
}

// Update modifies a user's profile. Self or ADMIN; an email change resets the
// verified flag and must stay unique.
func (srv *userService) Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input usecase.UpdateUserInput) (*entity.User, error) {
	if !principal.Owns(id) && !principal.Role.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	user, err := srv.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Country != nil {
		user.Country = input.Country
	}

	emailChanged := input.Email != nil && *input.Email != user.Email
	if emailChanged {
		if existing, err := srv.userRepo.FindByEmail(ctx, *input.Email); err == nil && existing.ID != user.ID {
			return nil, domainerrors.ErrEmailTaken
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to check email uniqueness")
		}

		user.Email = *input.Email
		verified := false
		user.IsEmailVerified = &verified
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	srv.invalidator.DropPrefixes(ctx, cache.UserListPrefix)
	srv.invalidator.DropKeys(ctx, cache.DetailKey(cache.UserDetailPrefix, user.ID))

	if emailChanged {
		if err := srv.issueVerification(ctx, user.Email); err != nil {
			srv.log(ctx).Warn("Failed to issue verification code after email change",
				slog.Any("userID", user.ID), slog.Any("error", err))
		}
	}

	return user, nil
}

// ChangePassword rotates the caller's own password after checking the old one.
func (srv *userService) ChangePassword(ctx context.Context, principal entity.Principal, input usecase.ChangePasswordInput) error {
	user, err := srv.findUser(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	// Outstanding refresh tokens die with the old password.
	srv.invalidator.DropKeys(ctx, cache.RefreshKey(user.ID))

	srv.log(ctx).Info("Password changed", slog.Any("userID", user.ID))

	return nil
}

// Delete removes a user. ADMIN only.
func (srv *userService) Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if !principal.Role.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.invalidator.DropPrefixes(ctx,
		cache.UserListPrefix,
		cache.OrderListPrefix,
		cache.StatsPrefix(id))
	srv.invalidator.DropKeys(ctx,
		cache.DetailKey(cache.UserDetailPrefix, id),
		cache.RefreshKey(id))

	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

func (srv *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	return user, nil
}

func (srv *userService) issueVerification(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}
	if err := srv.cacheStore.Set(ctx, cache.VerifyKey(email), code, srv.codeTTL); err != nil {
		return errors.Wrap(err, "failed to store verification code")
	}

	return srv.mailer.SendVerificationCode(ctx, email, code)
}

// canonicalSort pins the default ordering so equivalent requests share one
// cache key.
func canonicalSort(sortBy, sortDir string) (string, string) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if sortDir != "asc" {
		sortDir = "desc"
	}

	return sortBy, sortDir
}
