package postgres

import (
	"context"

	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/infra/persistence/model"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// customerSortColumns is the allow-list of sortable customer columns.
var customerSortColumns = map[string]string{
	"fullName":  "full_name",
	"company":   "company",
	"createdAt": "created_at",
}

// customerRepository implements the repository.CustomerRepository interface using GORM.
type customerRepository struct {
	repo[model.CustomerModel, entity.Customer]
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{
		repo: newRepo(db, toCustomerDomain, repository.ErrCustomerNotFound),
	}
}

// FindByID retrieves a single customer by ID, preloading its linked orders.
// The loaded orders drive the ownership gate in the service layer.
func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel
	err := r.db.WithContext(ctx).Preload("Orders").Where("id = ?", id).First(&customerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by id")
	}

	return toCustomerDomain(&customerM), nil
}

// Create persists a new customer entity to the database.
func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := r.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required customer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create customer")
	}

	customer.ID = customerM.ID
	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// Update modifies an existing customer entity in the database. Linked orders
// are managed exclusively through the order side of the association, so the
// mapper never writes them here.
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := r.db.WithContext(ctx).Omit("Orders").Save(customerM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update customer")
	}

	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// Delete removes a customer by ID after detaching its linked orders.
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("customer_id = ?", id).
		Update("customer_id", nil).Error
	if err != nil {
		return errors.Wrap(err, "failed to detach customer orders")
	}

	return r.deleteByID(ctx, id)
}

// PageSource returns the paginator source for the given listing query.
func (r *customerRepository) PageSource(query repository.ListCustomersQuery) pagination.Source[*entity.Customer] {
	var filters []scope
	if query.OwnerID != nil {
		ownerID := *query.OwnerID
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"EXISTS (SELECT 1 FROM orders WHERE orders.customer_id = customers.id AND orders.user_id = ?)",
				ownerID,
			)
		})
	}

	orderBy := orderScope(query.SortBy, query.SortDir, customerSortColumns, "created_at")

	return r.pageSource(orderBy, filters...)
}

// CountOrdersOwnedBy returns how many of the customer's linked orders belong to the given user.
func (r *customerRepository) CountOrdersOwnedBy(ctx context.Context, customerID, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("customer_id = ? AND user_id = ?", customerID, userID).
		Count(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count customer orders by owner")
	}

	return total, nil
}

// --- Mapper Functions ---

// toCustomerDomain converts a GORM CustomerModel to a domain Customer entity.
func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	orders := make([]*entity.Order, 0, len(data.Orders))
	for i := range data.Orders {
		orders = append(orders, toOrderDomain(&data.Orders[i]))
	}

	return &entity.Customer{
		ID:        data.ID,
		FullName:  data.FullName,
		Email:     data.Email,
		Telegram:  data.Telegram,
		Company:   data.Company,
		Orders:    orders,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCustomerDomain converts a domain Customer entity to a GORM CustomerModel.
func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	if data == nil {
		return nil
	}

	return &model.CustomerModel{
		ID:        data.ID,
		FullName:  data.FullName,
		Email:     data.Email,
		Telegram:  data.Telegram,
		Company:   data.Company,
		CreatedAt: data.CreatedAt,
	}
}
