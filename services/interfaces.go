package services

import (
	"context"
	"time"

	"nosql-repository-backend/models"
	"nosql-repository-backend/worker"
)

// OrderServiceInterface defines the contract for order service
type OrderServiceInterface interface {
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error)
	GetOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error)
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	CreateOrderWithEvent(ctx context.Context, req *models.OrderWithEventRequest) (*models.Order, error)
	BatchGetOrdersAndEvents(ctx context.Context, req *models.BatchOrderEventRequest) (*models.OrdersAndEvents, error)
}

// UserServiceInterface defines the contract for user service
type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
}

// EventServiceInterface defines the contract for event service
type EventServiceInterface interface {
	GetEvents(ctx context.Context) ([]models.Event, error)
	GetEventsByTypeAndDatesBetween(ctx context.Context, eventType string, start, end time.Time) ([]models.Event, error)
	CreateEvent(ctx context.Context, req *models.EventRequest) (*models.Event, error)
}

// InfrastructureServiceInterface defines the contract for infrastructure service
type InfrastructureServiceInterface interface {
	GetTableStatus() worker.Status
	RefreshTableStatus() worker.Status
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetOrderService() OrderServiceInterface
	GetUserService() UserServiceInterface
	GetEventService() EventServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
