// Package repository provides hand-written testify mocks for the persistence
// interfaces, used by the service tests.
package repository

import (
	"context"
	"testing"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock wired to the test lifecycle.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) PageSource(query repository.ListUsersQuery) pagination.Source[*entity.User] {
	args := m.Called(query)

	var src pagination.Source[*entity.User]
	if v := args.Get(0); v != nil {
		src = v.(pagination.Source[*entity.User])
	}

	return src
}

// MockOrderRepository mocks repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

// NewMockOrderRepository creates a mock wired to the test lifecycle.
func NewMockOrderRepository(t *testing.T) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)

	var order *entity.Order
	if v := args.Get(0); v != nil {
		order = v.(*entity.Order)
	}

	return order, args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, ids)

	var orders []*entity.Order
	if v := args.Get(0); v != nil {
		orders = v.([]*entity.Order)
	}

	return orders, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) PageSource(query repository.ListOrdersQuery) pagination.Source[*entity.Order] {
	args := m.Called(query)

	var src pagination.Source[*entity.Order]
	if v := args.Get(0); v != nil {
		src = v.(pagination.Source[*entity.Order])
	}

	return src
}

func (m *MockOrderRepository) StatsForUser(ctx context.Context, userID uuid.UUID) (*entity.OrderStats, error) {
	args := m.Called(ctx, userID)

	var stats *entity.OrderStats
	if v := args.Get(0); v != nil {
		stats = v.(*entity.OrderStats)
	}

	return stats, args.Error(1)
}

// MockCustomerRepository mocks repository.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

// NewMockCustomerRepository creates a mock wired to the test lifecycle.
func NewMockCustomerRepository(t *testing.T) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	args := m.Called(ctx, id)

	var customer *entity.Customer
	if v := args.Get(0); v != nil {
		customer = v.(*entity.Customer)
	}

	return customer, args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) PageSource(query repository.ListCustomersQuery) pagination.Source[*entity.Customer] {
	args := m.Called(query)

	var src pagination.Source[*entity.Customer]
	if v := args.Get(0); v != nil {
		src = v.(pagination.Source[*entity.Customer])
	}

	return src
}

func (m *MockCustomerRepository) CountOrdersOwnedBy(ctx context.Context, customerID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID, userID)

	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionManager mocks repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a mock wired to the test lifecycle.
func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute runs the registered expectation. A plain error return is passed
// through; a handler func return is invoked with the transactional closure so
// tests can drive it against transaction-scoped mocks.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if handler, ok := args.Get(0).(func(context.Context, func(repository.RepositoryFactory) error) error); ok {
		return handler(ctx, fn)
	}

	return args.Error(0)
}

// MockRepositoryFactory mocks repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

// NewMockRepositoryFactory creates a mock wired to the test lifecycle.
func NewMockRepositoryFactory(t *testing.T) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) UserRepo() repository.UserRepository {
	return m.Called().Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) OrderRepo() repository.OrderRepository {
	return m.Called().Get(0).(repository.OrderRepository)
}

func (m *MockRepositoryFactory) CustomerRepo() repository.CustomerRepository {
	return m.Called().Get(0).(repository.CustomerRepository)
}
