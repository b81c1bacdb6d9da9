package repository

import (
	"context"
	"fmt"

	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
)

type OrderRepository struct {
	main     NoSQLRepository[entity.MainTableEntity]
	enhanced EnhancedRepositoryInterface
	logger   logger.Logger
}

// NewOrderRepository creates a new order repository over the main table
func NewOrderRepository(main NoSQLRepository[entity.MainTableEntity], enhanced EnhancedRepositoryInterface, log logger.Logger) *OrderRepository {
	return &OrderRepository{
		main:     main,
		enhanced: enhanced,
		logger:   log,
	}
}

func (r *OrderRepository) FindAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.main.FindAllByPK(ctx, models.StringKey(entity.OrderPartition))
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindOrderByID returns nil when no order has the id
func (r *OrderRepository) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	row, err := r.main.FindByPrimaryKeys(ctx, models.StringKey(entity.OrderPartition), models.StringKey(id))
	if err != nil || row == nil {
		return nil, err
	}
	order := row.ToOrder()
	return &order, nil
}

func (r *OrderRepository) FindOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error) {
	rows, err := r.main.FindAllByGSI(ctx, models.GSIWithoutSK(entity.ProductNameIndex, models.StringKey(productName)))
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r *OrderRepository) FindOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	rows, err := r.main.FindAllByLSI(ctx, models.LSI(entity.EmailIndex, models.StringKey(entity.OrderPartition), models.StringKey(email)))
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r *OrderRepository) SaveOrder(ctx context.Context, order models.Order) error {
	if err := r.main.Save(ctx, entity.NewOrderEntity(order)); err != nil {
		return err
	}
	r.logger.Infof("Order saved successfully: %s", order.ID)
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id string) error {
	return r.main.Delete(ctx, entity.MainTableEntity{PK: entity.OrderPartition, SK: id})
}

// SaveOrderAndEventInTransaction writes both rows or neither
func (r *OrderRepository) SaveOrderAndEventInTransaction(ctx context.Context, order models.Order, event models.Event) error {
	return r.enhanced.SaveInTransaction(ctx, entity.NewOrderEntity(order), entity.NewEventEntity(event))
}

// BatchGetOrdersAndEvents reads orders by id and events by type and date in
// one batch. Rows that do not exist are left out. On a partial read the rows
// found are returned together with the error.
func (r *OrderRepository) BatchGetOrdersAndEvents(ctx context.Context, orderIDs []string, events []models.Event) (*models.OrdersAndEvents, error) {
	orderKeys := make([]models.PrimaryKey, 0, len(orderIDs))
	for _, id := range orderIDs {
		orderKeys = append(orderKeys, models.PrimaryKey{
			PK: models.StringKey(entity.OrderPartition),
			SK: models.StringKey(id),
		})
	}
	eventKeys := make([]models.PrimaryKey, 0, len(events))
	for _, e := range events {
		eventKeys = append(eventKeys, entity.EventKey(e.Type, e.Date))
	}

	responses, batchErr := r.enhanced.BatchGetItems(ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys...),
		NewBatchResource[entity.EventTableEntity](eventKeys...),
	})
	if batchErr != nil && !IsPartialBatch(batchErr) {
		return nil, batchErr
	}

	result := &models.OrdersAndEvents{
		Orders: toOrders(ItemsOf[entity.MainTableEntity](responses[0])),
		Events: []models.Event{},
	}
	for _, row := range ItemsOf[entity.EventTableEntity](responses[1]) {
		ev, err := row.ToEvent()
		if err != nil {
			return nil, fmt.Errorf("batch event row: %w", err)
		}
		result.Events = append(result.Events, ev)
	}
	return result, batchErr
}

func toOrders(rows []entity.MainTableEntity) []models.Order {
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.ToOrder())
	}
	return orders
}
