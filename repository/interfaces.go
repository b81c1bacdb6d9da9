package repository

import (
	"context"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"
)

// NoSQLRepository is the query surface every entity repository exposes.
// Range queries return rows in ascending sort key order.
type NoSQLRepository[T dal.TableEntity] interface {
	TableName() string

	FindAll(ctx context.Context) ([]T, error)
	FindAllWithLimit(ctx context.Context, limit int) ([]T, error)
	FindAllByPK(ctx context.Context, pk models.KeyValue) ([]T, error)
	FindAllByPKAndSKBetween(ctx context.Context, pk, start, end models.KeyValue) ([]T, error)
	FindAllByPKAndSKBeginsWith(ctx context.Context, pk, prefix models.KeyValue) ([]T, error)
	FindAllByPKAndSKGreaterThan(ctx context.Context, pk, sk models.KeyValue) ([]T, error)
	FindAllByPKAndSKGreaterThanOrEqual(ctx context.Context, pk, sk models.KeyValue) ([]T, error)
	FindAllByPKAndSKLessThan(ctx context.Context, pk, sk models.KeyValue) ([]T, error)
	FindAllByPKAndSKLessThanOrEqual(ctx context.Context, pk, sk models.KeyValue) ([]T, error)
	// FindByPrimaryKeys returns nil without error when the row is absent
	FindByPrimaryKeys(ctx context.Context, pk, sk models.KeyValue) (*T, error)
	FindAllByGSI(ctx context.Context, idx models.SecondaryIndex) ([]T, error)
	FindAllByLSI(ctx context.Context, idx models.SecondaryIndex) ([]T, error)

	Save(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
}

// EnhancedRepositoryInterface spans several entity tables
type EnhancedRepositoryInterface interface {
	SaveInTransaction(ctx context.Context, items ...dal.TableEntity) error
	BatchGetItems(ctx context.Context, resources []BatchResource) ([]BatchResponse, error)
}

// OrderRepositoryInterface defines the contract for order repository operations
type OrderRepositoryInterface interface {
	FindAllOrders(ctx context.Context) ([]models.Order, error)
	FindOrderByID(ctx context.Context, id string) (*models.Order, error)
	FindOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error)
	FindOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error)
	SaveOrder(ctx context.Context, order models.Order) error
	DeleteOrder(ctx context.Context, id string) error
	SaveOrderAndEventInTransaction(ctx context.Context, order models.Order, event models.Event) error
	BatchGetOrdersAndEvents(ctx context.Context, orderIDs []string, events []models.Event) (*models.OrdersAndEvents, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	FindAllUsers(ctx context.Context) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user models.User) error
}

// EventRepositoryInterface defines the contract for event repository operations
type EventRepositoryInterface interface {
	FindAllEvents(ctx context.Context) ([]models.Event, error)
	FindEventsByTypeAndDatesBetween(ctx context.Context, eventType models.EventType, start, end time.Time) ([]models.Event, error)
	SaveEvent(ctx context.Context, event models.Event) error
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetOrderRepository() OrderRepositoryInterface
	GetUserRepository() UserRepositoryInterface
	GetEventRepository() EventRepositoryInterface
}
