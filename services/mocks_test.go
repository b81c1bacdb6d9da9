package services

import (
	"context"
	"time"

	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/worker"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

// newPermissiveLogger accepts every log call
func newPermissiveLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// MockOrderRepository implements the OrderRepositoryInterface for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindAllOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error) {
	args := m.Called(ctx, productName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) SaveOrderAndEventInTransaction(ctx context.Context, order models.Order, event models.Event) error {
	return m.Called(ctx, order, event).Error(0)
}

func (m *MockOrderRepository) BatchGetOrdersAndEvents(ctx context.Context, orderIDs []string, events []models.Event) (*models.OrdersAndEvents, error) {
	args := m.Called(ctx, orderIDs, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrdersAndEvents), args.Error(1)
}

// MockUserRepository implements the UserRepositoryInterface for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockEventRepository implements the EventRepositoryInterface for testing
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindAllEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) FindEventsByTypeAndDatesBetween(ctx context.Context, eventType models.EventType, start, end time.Time) ([]models.Event, error) {
	args := m.Called(ctx, eventType, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event models.Event) error {
	return m.Called(ctx, event).Error(0)
}

// MockTableMonitor implements TableMonitor for testing
type MockTableMonitor struct {
	mock.Mock
}

func (m *MockTableMonitor) GetStatus() worker.Status {
	return m.Called().Get(0).(worker.Status)
}

func (m *MockTableMonitor) CheckNow() worker.Status {
	return m.Called().Get(0).(worker.Status)
}

// MockRepositoryContainer implements the RepositoryContainerInterface for testing
type MockRepositoryContainer struct {
	order *MockOrderRepository
	user  *MockUserRepository
	event *MockEventRepository
}

func (c *MockRepositoryContainer) GetOrderRepository() repository.OrderRepositoryInterface {
	return c.order
}

func (c *MockRepositoryContainer) GetUserRepository() repository.UserRepositoryInterface {
	return c.user
}

func (c *MockRepositoryContainer) GetEventRepository() repository.EventRepositoryInterface {
	return c.event
}
