package impl

import (
	"context"
	"testing"

	"orderdesk/internal/cache"
	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	mockRepo "orderdesk/internal/mocks/repository"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statsServiceFixtures holds all test dependencies for stats service tests.
type statsServiceFixtures struct {
	service   usecase.StatsUsecase
	orderRepo *mockRepo.MockOrderRepository
	userRepo  *mockRepo.MockUserRepository
	store     *memoryStore
}

func createTestStatsService(t *testing.T) statsServiceFixtures {
	orderRepo := mockRepo.NewMockOrderRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	store := newMemoryStore()
	logger := newDiscardLogger()

	service := NewStatsService(StatsServiceParams{
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		CacheStore:  store,
		Invalidator: cache.NewInvalidator(store, logger),
		Config:      newTestConfig(),
		Logger:      logger,
	})

	return statsServiceFixtures{
		service:   service,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		store:     store,
	}
}

func TestStatsService_OrderStats_SelfAndCached(t *testing.T) {
	fx := createTestStatsService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New()}
	stats := &entity.OrderStats{
		UserID: user.ID,
		Total:  5,
		ByStatus: map[entity.OrderStatus]int64{
			entity.OrderStatusNew:  2,
			entity.OrderStatusDone: 3,
		},
		DoneRevenue:  4500,
		AvgDonePrice: 1500,
	}

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.orderRepo.On("StatsForUser", ctx, user.ID).Return(stats, nil).Once()

	got, err := fx.service.OrderStats(ctx, freelancerPrincipal(user.ID), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Total)
	assert.Equal(t, float64(4500), got.DoneRevenue)

	// The aggregate lands under the documented key and the repeat read is
	// served from cache.
	assert.True(t, fx.store.has("stats:user:"+user.ID.String()+":orders"))

	again, err := fx.service.OrderStats(ctx, freelancerPrincipal(user.ID), user.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Total, again.Total)
	assert.Equal(t, got.ByStatus, again.ByStatus)
}

func TestStatsService_OrderStats_ForbiddenForOtherUser(t *testing.T) {
	fx := createTestStatsService(t)

	_, err := fx.service.OrderStats(context.Background(), freelancerPrincipal(uuid.New()), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestStatsService_OrderStats_AdminMayQueryAnyone(t *testing.T) {
	fx := createTestStatsService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New()}
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.orderRepo.On("StatsForUser", ctx, user.ID).
		Return(&entity.OrderStats{UserID: user.ID}, nil)

	_, err := fx.service.OrderStats(ctx, adminPrincipal(), user.ID)

	assert.NoError(t, err)
}

func TestStatsService_OrderStats_UnknownUser(t *testing.T) {
	fx := createTestStatsService(t)
	ctx := context.Background()

	id := uuid.New()
	fx.userRepo.On("FindByID", ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.OrderStats(ctx, adminPrincipal(), id)

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
