package repository

import (
	"nosql-repository-backend/dal"
	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/utils/metrics"
)

type Repository struct {
	Registrar *Registrar
	Order     *OrderRepository
	User      *UserRepository
	Event     *EventRepository
}

// NewRepository registers a repository per entity and builds the domain repositories on top
func NewRepository(db *dal.DynamoDBClient, cfg *models.Config, log logger.Logger, m *metrics.Metrics) (*Repository, error) {
	factory := NewFactory(db, cfg, log, m)
	registrar := NewRegistrar()
	if err := registrar.RegisterAll(factory, RegisteredEntities()); err != nil {
		return nil, err
	}

	mainRepo, err := Lookup[entity.MainTableEntity](registrar, RepositoryName("MainTableEntity"))
	if err != nil {
		return nil, err
	}
	eventRepo, err := Lookup[entity.EventTableEntity](registrar, RepositoryName("EventTableEntity"))
	if err != nil {
		return nil, err
	}
	enhanced := factory.Enhanced()

	return &Repository{
		Registrar: registrar,
		Order:     NewOrderRepository(mainRepo, enhanced, log),
		User:      NewUserRepository(mainRepo, log),
		Event:     NewEventRepository(eventRepo, log),
	}, nil
}

func (r *Repository) GetOrderRepository() OrderRepositoryInterface {
	return r.Order
}

func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.User
}

func (r *Repository) GetEventRepository() EventRepositoryInterface {
	return r.Event
}
