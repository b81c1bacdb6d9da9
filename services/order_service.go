package services

import (
	"context"
	"fmt"

	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/utils"
	"nosql-repository-backend/utils/logger"
)

type OrderService struct {
	repo   repository.OrderRepositoryInterface
	logger logger.Logger
}

func NewOrderService(repo repository.OrderRepositoryInterface, logger logger.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		logger: logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.FindAllOrders(ctx)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) GetOrdersByProductName(ctx context.Context, productName string) ([]models.Order, error) {
	return s.repo.FindOrdersByProductName(ctx, productName)
}

func (s *OrderService) GetOrdersByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.repo.FindOrdersByUserEmail(ctx, email)
}

// CreateOrder saves the order, replacing any order with the same id. An
// empty id is assigned a new UUID.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	order := newOrder(req)
	if err := s.repo.SaveOrder(ctx, order); err != nil {
		s.logger.Errorf("Failed to save order %s: %v", order.ID, err)
		return nil, err
	}
	s.logger.Infof("Order %s saved", order.ID)
	return &order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	return s.repo.DeleteOrder(ctx, id)
}

// CreateOrderWithEvent saves an order and an event atomically
func (s *OrderService) CreateOrderWithEvent(ctx context.Context, req *models.OrderWithEventRequest) (*models.Order, error) {
	event := req.Event.ToEvent()
	if event.Type == models.EventTypeUnknown {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, req.Event.Type)
	}
	order := newOrder(&req.Order)

	if err := s.repo.SaveOrderAndEventInTransaction(ctx, order, event); err != nil {
		s.logger.Errorf("Failed to save order %s with %s event: %v", order.ID, event.Type, err)
		return nil, err
	}
	s.logger.Infof("Order %s saved with %s event", order.ID, event.Type)
	return &order, nil
}

// BatchGetOrdersAndEvents reads orders by id and events by key in one
// batch. On a partial batch the rows that were read are returned with the error.
func (s *OrderService) BatchGetOrdersAndEvents(ctx context.Context, req *models.BatchOrderEventRequest) (*models.OrdersAndEvents, error) {
	events := make([]models.Event, 0, len(req.Events))
	for i := range req.Events {
		events = append(events, req.Events[i].ToEvent())
	}

	result, err := s.repo.BatchGetOrdersAndEvents(ctx, req.OrderIDs, events)
	if err != nil && repository.IsPartialBatch(err) {
		s.logger.Warnf("Batch read incomplete: %v", err)
	}
	return result, err
}

func newOrder(req *models.OrderRequest) models.Order {
	order := req.ToOrder()
	if order.ID == "" {
		order.ID = utils.GenerateUUID()
	}
	return order
}
