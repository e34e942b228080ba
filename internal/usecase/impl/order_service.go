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

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	cacheStore   service.CacheStore
	invalidator  *cache.Invalidator
	listTTL      time.Duration
	logger       *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo    repository.OrderRepository
	CustomerRepo repository.CustomerRepository
	CacheStore   service.CacheStore
	Invalidator  *cache.Invalidator
	Config       *config.Config
	Logger       *slog.Logger
}

// NewOrderService is the constructor for orderService. It receives all dependencies as interfaces.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo:    params.OrderRepo,
		customerRepo: params.CustomerRepo,
		cacheStore:   params.CacheStore,
		invalidator:  params.Invalidator,
		listTTL:      params.Config.Cache.ListTTL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new order owned by the caller.
func (srv *orderService) Create(ctx context.Context, principal entity.Principal, input usecase.CreateOrderInput) (*entity.Order, error) {
	if input.CustomerID != nil {
		if _, err := srv.customerRepo.FindByID(ctx, *input.CustomerID); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return nil, domainerrors.ErrCustomerNotFound
			}

			return nil, errors.Wrap(err, "failed to load customer for new order")
		}
	}

	order := &entity.Order{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Category:    input.Category,
		Status:      entity.OrderStatusNew,
		UserID:      principal.UserID,
		CustomerID:  input.CustomerID,
	}

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.invalidateAfterWrite(ctx, order)

	srv.log(ctx).Info("Order created", slog.Any("orderID", order.ID), slog.Any("userID", principal.UserID))

	return order, nil
}

// List returns a page of orders. FREELANCERs see their own; ADMIN and MANAGER
// see all. The caller scope is part of the cache key so a privileged page is
// never served to an unprivileged caller.
func (srv *orderService) List(ctx context.Context, principal entity.Principal, input usecase.ListOrdersInput) (*pagination.Page[*entity.Order], error) {
	params := pagination.Params{Page: input.Page, PerPage: input.PerPage}.Normalize()
	sortBy, sortDir := canonicalSort(input.SortBy, input.SortDir)

	query := repository.ListOrdersQuery{
		Status:   input.Status,
		Category: input.Category,
		SortBy:   sortBy,
		SortDir:  sortDir,
	}

	filters := map[string]string{}
	if input.Status != nil {
		filters["status"] = input.Status.String()
	}
	if input.Category != nil {
		filters["category"] = input.Category.String()
	}
	if !principal.Role.CanManageOrders() {
		ownerID := principal.UserID
		query.OwnerID = &ownerID
		filters["owner"] = ownerID.String()
	}

	key := cache.ListKey(cache.OrderListPrefix, params.Page, params.PerPage, sortBy, sortDir, filters)

	return readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*pagination.Page[*entity.Order], error) {
			page, err := pagination.Paginate(ctx, srv.orderRepo.PageSource(query), params)
			if err != nil {
				return nil, errors.Wrap(err, "failed to list orders")
			}

			return page, nil
		})
}

// Get returns a single order after the ownership gate.
func (srv *orderService) Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Order, error) {
	key := cache.DetailKey(cache.OrderDetailPrefix, id)

	order, err := readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*entity.Order, error) {
			return srv.findOrder(ctx, id)
		})
	if err != nil {
		return nil, err
	}

	if err := gateOrder(principal, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Update modifies an order after the ownership gate.
func (srv *orderService) Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input usecase.UpdateOrderInput) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gateOrder(principal, order); err != nil {
		return nil, err
	}

	if input.Title != nil {
		order.Title = *input.Title
	}
	if input.Description != nil {
		order.Description = *input.Description
	}
	if input.Price != nil {
		order.Price = *input.Price
	}
	if input.StartDate != nil {
		order.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		order.EndDate = *input.EndDate
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order category")
		}
		order.Category = *input.Category
	}

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to update order")
	}

	srv.invalidateAfterWrite(ctx, order)

	return order, nil
}

// SetStatus moves an order through its lifecycle after the ownership gate.
func (srv *orderService) SetStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order status")
	}

	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gateOrder(principal, order); err != nil {
		return nil, err
	}

	order.Status = status
	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.invalidateAfterWrite(ctx, order)

	srv.log(ctx).Info("Order status changed",
		slog.Any("orderID", order.ID), slog.String("status", status.String()))

	return order, nil
}

// Delete removes an order after the ownership gate.
func (srv *orderService) Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := gateOrder(principal, order); err != nil {
		return err
	}

	if err := srv.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound
		}

		return errors.Wrap(err, "failed to delete order")
	}

	srv.invalidateAfterWrite(ctx, order)

	srv.log(ctx).Info("Order deleted", slog.Any("orderID", id))

	return nil
}

func (srv *orderService) findOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	return order, nil
}

// invalidateAfterWrite drops every cache entry an order write can make stale:
// order list pages, the order's detail entry, the owner's statistics, and the
// customer surface when the order carries a link.
func (srv *orderService) invalidateAfterWrite(ctx context.Context, order *entity.Order) {
	prefixes := []string{cache.OrderListPrefix, cache.StatsPrefix(order.UserID)}
	keys := []string{cache.DetailKey(cache.OrderDetailPrefix, order.ID)}

	if order.CustomerID != nil {
		prefixes = append(prefixes, cache.CustomerListPrefix)
		keys = append(keys, cache.DetailKey(cache.CustomerDetailPrefix, *order.CustomerID))
	}

	srv.invalidator.DropPrefixes(ctx, prefixes...)
	srv.invalidator.DropKeys(ctx, keys...)
}

// gateOrder applies the ownership gate after existence is established:
// the owner and order managers pass, everyone else is Forbidden. Forbidden
// on an existing resource is deliberate, even though it confirms existence.
func gateOrder(principal entity.Principal, order *entity.Order) error {
	if order.IsOwnedBy(principal.UserID) || principal.Role.CanManageOrders() {
		return nil
	}

	return domainerrors.ErrForbidden
}
