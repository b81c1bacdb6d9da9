package services

import (
	"nosql-repository-backend/repository"
	"nosql-repository-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	orderService          OrderServiceInterface
	userService           UserServiceInterface
	eventService          EventServiceInterface
	infrastructureService InfrastructureServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(repoContainer repository.RepositoryContainerInterface, monitor TableMonitor, logger logger.Logger) ServiceContainerInterface {
	return &Service{
		orderService:          NewOrderService(repoContainer.GetOrderRepository(), logger),
		userService:           NewUserService(repoContainer.GetUserRepository(), logger),
		eventService:          NewEventService(repoContainer.GetEventRepository(), logger),
		infrastructureService: NewInfrastructureService(monitor, logger),
	}
}

// GetOrderService returns the order service interface
func (s *Service) GetOrderService() OrderServiceInterface {
	return s.orderService
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetEventService returns the event service interface
func (s *Service) GetEventService() EventServiceInterface {
	return s.eventService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
