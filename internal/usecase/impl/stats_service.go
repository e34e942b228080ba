package impl

import (
	"context"
	"log/slog"
	"time"

	"orderdesk/config"
	"orderdesk/internal/cache"
	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/domain/service"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// statsMetricOrders names the cached order aggregate; further metrics get
// their own suffix under the same user prefix.
const statsMetricOrders = "orders"

// statsService implements the StatsUsecase interface.
type statsService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	cacheStore  service.CacheStore
	invalidator *cache.Invalidator
	listTTL     time.Duration
	logger      *slog.Logger
}

// StatsServiceParams holds dependencies for statsService, injected by Fx.
type StatsServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	UserRepo    repository.UserRepository
	CacheStore  service.CacheStore
	Invalidator *cache.Invalidator
	Config      *config.Config
	Logger      *slog.Logger
}

// NewStatsService is the constructor for statsService. It receives all dependencies as interfaces.
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		orderRepo:   params.OrderRepo,
		userRepo:    params.UserRepo,
		cacheStore:  params.CacheStore,
		invalidator: params.Invalidator,
		listTTL:     params.Config.Cache.ListTTL,
		logger:      params.Logger,
	}
}

// OrderStats returns the user's order counts by status plus DONE revenue and
// average price. ADMIN may query any user; everyone else only themselves.
func (srv *statsService) OrderStats(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*entity.OrderStats, error) {
	if !principal.Owns(userID) && !principal.Role.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	if _, err := srv.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for statistics")
	}

	key := cache.StatsKey(userID, statsMetricOrders)

	return readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*entity.OrderStats, error) {
			stats, err := srv.orderRepo.StatsForUser(ctx, userID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to aggregate order statistics")
			}

			return stats, nil
		})
}
