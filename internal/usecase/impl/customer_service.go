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

// customerService implements the CustomerUsecase interface.
type customerService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	cacheStore   service.CacheStore
	invalidator  *cache.Invalidator
	listTTL      time.Duration
	logger       *slog.Logger
}

// CustomerServiceParams holds dependencies for customerService, injected by Fx.
type CustomerServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CustomerRepo repository.CustomerRepository
	CacheStore   service.CacheStore
	Invalidator  *cache.Invalidator
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCustomerService is the constructor for customerService. It receives all dependencies as interfaces.
func NewCustomerService(params CustomerServiceParams) usecase.CustomerUsecase {
	return &customerService{
		txManager:    params.TxManager,
		customerRepo: params.CustomerRepo,
		cacheStore:   params.CacheStore,
		invalidator:  params.Invalidator,
		listTTL:      params.Config.Cache.ListTTL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *customerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new customer. Any authenticated caller.
func (srv *customerService) Create(ctx context.Context, principal entity.Principal, input usecase.CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		FullName: input.FullName,
		Email:    input.Email,
		Telegram: input.Telegram,
		Company:  input.Company,
	}

	if err := srv.customerRepo.Create(ctx, customer); err != nil {
		return nil, errors.Wrap(err, "failed to create customer")
	}

	srv.invalidator.DropPrefixes(ctx, cache.CustomerListPrefix)

	srv.log(ctx).Info("Customer created",
		slog.Any("customerID", customer.ID), slog.Any("userID", principal.UserID))

	return customer, nil
}

// List returns a page of customers reachable by the caller: those with at
// least one order owned by the caller, or all of them for ADMIN.
func (srv *customerService) List(ctx context.Context, principal entity.Principal, input usecase.ListCustomersInput) (*pagination.Page[*entity.Customer], error) {
	params := pagination.Params{Page: input.Page, PerPage: input.PerPage}.Normalize()
	sortBy, sortDir := canonicalSort(input.SortBy, input.SortDir)

	query := repository.ListCustomersQuery{SortBy: sortBy, SortDir: sortDir}

	filters := map[string]string{}
	if !principal.Role.IsAdmin() {
		ownerID := principal.UserID
		query.OwnerID = &ownerID
		filters["owner"] = ownerID.String()
	}

	key := cache.ListKey(cache.CustomerListPrefix, params.Page, params.PerPage, sortBy, sortDir, filters)

	return readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*pagination.Page[*entity.Customer], error) {
			page, err := pagination.Paginate(ctx, srv.customerRepo.PageSource(query), params)
			if err != nil {
				return nil, errors.Wrap(err, "failed to list customers")
			}

			return page, nil
		})
}

// Get returns a single customer after the ownership-via-orders gate.
func (srv *customerService) Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Customer, error) {
	key := cache.DetailKey(cache.CustomerDetailPrefix, id)

	customer, err := readThrough(ctx, srv.cacheStore, srv.logger, key, srv.listTTL,
		func(ctx context.Context) (*entity.Customer, error) {
			return srv.findCustomer(ctx, id)
		})
	if err != nil {
		return nil, err
	}

	if !principal.Role.IsAdmin() && !customer.HasOrderOwnedBy(principal.UserID) {
		return nil, domainerrors.ErrForbidden
	}

	return customer, nil
}

// Update modifies a customer after the ownership-via-orders gate.
func (srv *customerService) Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input usecase.UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := srv.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := srv.gateCustomer(ctx, principal, customer); err != nil {
		return nil, err
	}

	if input.FullName != nil {
		customer.FullName = *input.FullName
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Telegram != nil {
		customer.Telegram = input.Telegram
	}
	if input.Company != nil {
		customer.Company = input.Company
	}

	if err := srv.customerRepo.Update(ctx, customer); err != nil {
		return nil, errors.Wrap(err, "failed to update customer")
	}

	srv.invalidator.DropPrefixes(ctx, cache.CustomerListPrefix)
	srv.invalidator.DropKeys(ctx, cache.DetailKey(cache.CustomerDetailPrefix, customer.ID))

	return customer, nil
}

// Delete removes a customer after the ownership-via-orders gate. Linked
// orders survive with their customer link cleared.
func (srv *customerService) Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	customer, err := srv.findCustomer(ctx, id)
	if err != nil {
		return err
	}
	if err := srv.gateCustomer(ctx, principal, customer); err != nil {
		return err
	}

	if err := srv.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return domainerrors.ErrCustomerNotFound
		}

		return errors.Wrap(err, "failed to delete customer")
	}

	// Detaching rewrites the orders, so their cached copies are stale too.
	keys := []string{cache.DetailKey(cache.CustomerDetailPrefix, id)}
	for _, order := range customer.Orders {
		keys = append(keys, cache.DetailKey(cache.OrderDetailPrefix, order.ID))
	}
	srv.invalidator.DropPrefixes(ctx, cache.CustomerListPrefix, cache.OrderListPrefix)
	srv.invalidator.DropKeys(ctx, keys...)

	srv.log(ctx).Info("Customer deleted", slog.Any("customerID", id))

	return nil
}

// AttachOrders links the given orders to the customer. Every order must pass
// its gate before the first write, and all links land in one transaction.
func (srv *customerService) AttachOrders(ctx context.Context, principal entity.Principal, id uuid.UUID, orderIDs []uuid.UUID) (*entity.Customer, error) {
	if len(orderIDs) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("no orders to attach")
	}

	var attached *entity.Customer
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.CustomerRepo()
		orderRepo := repoFactory.OrderRepo()

		if _, err := customerRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return domainerrors.ErrCustomerNotFound
			}

			return errors.Wrap(err, "failed to load customer for attach")
		}

		orders, err := orderRepo.FindByIDs(ctx, orderIDs)
		if err != nil {
			return errors.Wrap(err, "failed to load orders for attach")
		}
		if len(orders) != len(orderIDs) {
			return domainerrors.ErrOrderNotFound
		}

		for _, order := range orders {
			if !principal.Role.IsAdmin() && !order.IsOwnedBy(principal.UserID) {
				return domainerrors.ErrForbidden
			}
			if order.IsLinked() {
				return domainerrors.ErrOrderAlreadyLinked.WithDetails(order.ID.String())
			}
		}

		for _, order := range orders {
			customerID := id
			order.CustomerID = &customerID
			if err := orderRepo.Update(ctx, order); err != nil {
				return errors.Wrap(err, "failed to link order to customer")
			}
		}

		reloaded, err := customerRepo.FindByID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to reload customer after attach")
		}
		attached = reloaded

		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := []string{cache.DetailKey(cache.CustomerDetailPrefix, id)}
	for _, orderID := range orderIDs {
		keys = append(keys, cache.DetailKey(cache.OrderDetailPrefix, orderID))
	}
	srv.invalidator.DropPrefixes(ctx, cache.CustomerListPrefix, cache.OrderListPrefix)
	srv.invalidator.DropKeys(ctx, keys...)

	srv.log(ctx).Info("Orders attached to customer",
		slog.Any("customerID", id), slog.Int("orders", len(orderIDs)))

	return attached, nil
}

func (srv *customerService) findCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := srv.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to load customer")
	}

	return customer, nil
}

// gateCustomer applies the ownership-via-orders rule after existence is
// established. ADMIN bypasses; everyone else needs at least one of their own
// orders linked to the customer.
func (srv *customerService) gateCustomer(ctx context.Context, principal entity.Principal, customer *entity.Customer) error {
	if principal.Role.IsAdmin() {
		return nil
	}

	count, err := srv.customerRepo.CountOrdersOwnedBy(ctx, customer.ID, principal.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to check customer ownership")
	}
	if count == 0 {
		return domainerrors.ErrForbidden
	}

	return nil
}
