package controller

import (
	"context"
	"time"

	"nosql-repository-backend/models"
	"nosql-repository-backend/services"
	"nosql-repository-backend/worker"

	"github.com/stretchr/testify/mock"
)

// MockOrderService implements OrderServiceInterface for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error) {
	args := m.Called(ctx, productName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) CreateOrderWithEvent(ctx context.Context, req *models.OrderWithEventRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) BatchGetOrdersAndEvents(ctx context.Context, req *models.BatchOrderEventRequest) (*models.OrdersAndEvents, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrdersAndEvents), args.Error(1)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockEventService implements EventServiceInterface for testing
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) GetEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) GetEventsByTypeAndDatesBetween(ctx context.Context, eventType string, start, end time.Time) ([]models.Event, error) {
	args := m.Called(ctx, eventType, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

// MockInfrastructureService implements InfrastructureServiceInterface for testing
type MockInfrastructureService struct {
	mock.Mock
}

func (m *MockInfrastructureService) GetTableStatus() worker.Status {
	return m.Called().Get(0).(worker.Status)
}

func (m *MockInfrastructureService) RefreshTableStatus() worker.Status {
	return m.Called().Get(0).(worker.Status)
}

// MockServiceContainer implements ServiceContainerInterface for testing
type MockServiceContainer struct {
	order *MockOrderService
	user  *MockUserService
	event *MockEventService
	infra *MockInfrastructureService
}

func (c *MockServiceContainer) GetOrderService() services.OrderServiceInterface {
	return c.order
}

func (c *MockServiceContainer) GetUserService() services.UserServiceInterface {
	return c.user
}

func (c *MockServiceContainer) GetEventService() services.EventServiceInterface {
	return c.event
}

func (c *MockServiceContainer) GetInfrastructureService() services.InfrastructureServiceInterface {
	return c.infra
}
