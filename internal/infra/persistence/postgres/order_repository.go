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

// orderSortColumns is the allow-list of sortable order columns.
var orderSortColumns = map[string]string{
	"title":     "title",
	"price":     "price",
	"startDate": "start_date",
	"endDate":   "end_date",
	"status":    "status",
	"category":  "category",
	"createdAt": "created_at",
}

// orderRepository implements the repository.OrderRepository interface using GORM.
type orderRepository struct {
	repo[model.OrderModel, entity.Order]
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		repo: newRepo(db, toOrderDomain, repository.ErrOrderNotFound),
	}
}

// FindByID retrieves a single order by its unique ID.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.findByID(ctx, id)
}

// FindByIDs retrieves the orders matching the given IDs.
func (r *orderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []model.OrderModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by ids")
	}

	orders := make([]*entity.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderDomain(&models[i]))
	}

	return orders, nil
}

// Create persists a new order entity to the database.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := r.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user or customer reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// Update modifies an existing order entity in the database. Save writes every
// column, including a nil customer link, so a detach persists as NULL.
func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := r.db.WithContext(ctx).Save(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user or customer reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}

	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// Delete removes an order by ID.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, id)
}

// PageSource returns the paginator source for the given listing query.
func (r *orderRepository) PageSource(query repository.ListOrdersQuery) pagination.Source[*entity.Order] {
	var filters []scope
	if query.OwnerID != nil {
		ownerID := *query.OwnerID
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", ownerID)
		})
	}
	if query.Status != nil {
		status := query.Status.String()
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	if query.Category != nil {
		category := query.Category.String()
		filters = append(filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("category = ?", category)
		})
	}

	orderBy := orderScope(query.SortBy, query.SortDir, orderSortColumns, "created_at")

	return r.pageSource(orderBy, filters...)
}

// StatsForUser aggregates the given user's orders by status and price.
func (r *orderRepository) StatsForUser(ctx context.Context, userID uuid.UUID) (*entity.OrderStats, error) {
	type statusRow struct {
		Status string
		Count  int64
	}

	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate orders by status")
	}

	stats := &entity.OrderStats{
		UserID:   userID,
		ByStatus: make(map[entity.OrderStatus]int64, len(rows)),
	}
	for _, row := range rows {
		stats.ByStatus[entity.OrderStatus(row.Status)] = row.Count
		stats.Total += row.Count
	}

	type priceRow struct {
		Revenue  float64
		AvgPrice float64
	}

	var price priceRow
	err = r.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("coalesce(sum(price), 0) as revenue, coalesce(avg(price), 0) as avg_price").
		Where("user_id = ? AND status = ?", userID, entity.OrderStatusDone.String()).
		Scan(&price).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate done order prices")
	}

	stats.DoneRevenue = price.Revenue
	stats.AvgDonePrice = price.AvgPrice

	return stats, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Price:       data.Price,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		Category:    entity.OrderCategory(data.Category),
		Status:      entity.OrderStatus(data.Status),
		UserID:      data.UserID,
		CustomerID:  data.CustomerID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel for persistence.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Price:       data.Price,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		Category:    data.Category.String(),
		Status:      data.Status.String(),
		UserID:      data.UserID,
		CustomerID:  data.CustomerID,
		CreatedAt:   data.CreatedAt,
	}
}
