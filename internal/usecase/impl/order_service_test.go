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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service      usecase.OrderUsecase
	orderRepo    *mockRepo.MockOrderRepository
	customerRepo *mockRepo.MockCustomerRepository
	store        *memoryStore
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	orderRepo := mockRepo.NewMockOrderRepository(t)
	customerRepo := mockRepo.NewMockCustomerRepository(t)
	store := newMemoryStore()
	logger := newDiscardLogger()

	service := NewOrderService(OrderServiceParams{
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
		CacheStore:   store,
		Invalidator:  cache.NewInvalidator(store, logger),
		Config:       newTestConfig(),
		Logger:       logger,
	})

	return orderServiceFixtures{
		service:      service,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		store:        store,
	}
}

func TestOrderService_Create_OwnerIsCaller(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	principal := freelancerPrincipal(uuid.New())

	fx.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Order).ID = uuid.New()
		}).
		Return(nil)

	order, err := fx.service.Create(ctx, principal, usecase.CreateOrderInput{
		Title:    "Landing page",
		Price:    1200,
		Category: entity.OrderCategoryDevelopment,
	})

	require.NoError(t, err)
	assert.Equal(t, principal.UserID, order.UserID)
	assert.Equal(t, entity.OrderStatusNew, order.Status)
}

func TestOrderService_Create_UnknownCustomer(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	fx.customerRepo.On("FindByID", ctx, customerID).Return(nil, repository.ErrCustomerNotFound)

	_, err := fx.service.Create(ctx, freelancerPrincipal(uuid.New()), usecase.CreateOrderInput{
		Title:      "Landing page",
		Category:   entity.OrderCategoryDevelopment,
		CustomerID: &customerID,
	})

	assert.ErrorIs(t, err, domainerrors.ErrCustomerNotFound)
}

// The canonical three-caller scenario: the owner and privileged roles pass
// the gate, a stranger is Forbidden, and a missing order is NotFound for
// everyone regardless of role.
func TestOrderService_Get_OwnershipGate(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	owner := freelancerPrincipal(uuid.New())
	stranger := freelancerPrincipal(uuid.New())
	admin := adminPrincipal()

	order := &entity.Order{ID: uuid.New(), UserID: owner.UserID, Title: "Logo"}
	fx.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	got, err := fx.service.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = fx.service.Get(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = fx.service.Get(ctx, admin, order.ID)
	assert.NoError(t, err)

	missing := uuid.New()
	fx.orderRepo.On("FindByID", ctx, missing).Return(nil, repository.ErrOrderNotFound)

	_, err = fx.service.Get(ctx, stranger, missing)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_List_ScopesFreelancerToOwnOrders(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	principal := freelancerPrincipal(uuid.New())

	fx.orderRepo.On("PageSource", mock.MatchedBy(func(q repository.ListOrdersQuery) bool {
		return q.OwnerID != nil && *q.OwnerID == principal.UserID
	})).Return(sliceSource([]*entity.Order{}))

	page, err := fx.service.List(ctx, principal, usecase.ListOrdersInput{})

	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestOrderService_List_ManagerSeesAll(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	manager := entity.Principal{UserID: uuid.New(), Role: entity.RoleManager}

	fx.orderRepo.On("PageSource", mock.MatchedBy(func(q repository.ListOrdersQuery) bool {
		return q.OwnerID == nil
	})).Return(sliceSource([]*entity.Order{{ID: uuid.New()}}))

	page, err := fx.service.List(ctx, manager, usecase.ListOrdersInput{})

	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestOrderService_Update_InvalidatesListCache(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	owner := freelancerPrincipal(uuid.New())
	order := &entity.Order{ID: uuid.New(), UserID: owner.UserID, Title: "Logo"}

	// Warm the list cache, then expect the repository to be consulted again
	// after the write dropped the cached page.
	fx.orderRepo.On("PageSource", mock.AnythingOfType("repository.ListOrdersQuery")).
		Return(sliceSource([]*entity.Order{order})).Twice()

	_, err := fx.service.List(ctx, owner, usecase.ListOrdersInput{})
	require.NoError(t, err)

	fx.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	fx.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	title := "Logo v2"
	_, err = fx.service.Update(ctx, owner, order.ID, usecase.UpdateOrderInput{Title: &title})
	require.NoError(t, err)

	_, err = fx.service.List(ctx, owner, usecase.ListOrdersInput{})
	require.NoError(t, err)
}

func TestOrderService_Update_ClearsOwnerStats(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	owner := freelancerPrincipal(uuid.New())
	order := &entity.Order{ID: uuid.New(), UserID: owner.UserID}
	statsKey := cache.StatsKey(owner.UserID, "orders")
	require.NoError(t, fx.store.Set(ctx, statsKey, "{}", 0))

	fx.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	fx.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	_, err := fx.service.SetStatus(ctx, owner, order.ID, entity.OrderStatusDone)
	require.NoError(t, err)

	assert.False(t, fx.store.has(statsKey))
}

func TestOrderService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	fx := createTestOrderService(t)

	_, err := fx.service.SetStatus(context.Background(), adminPrincipal(), uuid.New(), entity.OrderStatus("BOGUS"))

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_Delete_OwnershipGate(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	owner := freelancerPrincipal(uuid.New())
	stranger := freelancerPrincipal(uuid.New())
	order := &entity.Order{ID: uuid.New(), UserID: owner.UserID}

	fx.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	err := fx.service.Delete(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	fx.orderRepo.On("Delete", ctx, order.ID).Return(nil)

	err = fx.service.Delete(ctx, owner, order.ID)
	assert.NoError(t, err)
}
