package services

import (
	"context"
	"fmt"
	"time"

	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/utils/logger"
)

type EventService struct {
	repo   repository.EventRepositoryInterface
	logger logger.Logger
}

func NewEventService(repo repository.EventRepositoryInterface, logger logger.Logger) *EventService {
	return &EventService{
		repo:   repo,
		logger: logger,
	}
}

func (s *EventService) GetEvents(ctx context.Context) ([]models.Event, error) {
	return s.repo.FindAllEvents(ctx)
}

// GetEventsByTypeAndDatesBetween returns the events of a type dated within
// [start, end], oldest first. An inverted range matches nothing.
func (s *EventService) GetEventsByTypeAndDatesBetween(ctx context.Context, eventType string, start, end time.Time) ([]models.Event, error) {
	t := models.ParseEventType(eventType)
	if t == models.EventTypeUnknown {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, eventType)
	}
	return s.repo.FindEventsByTypeAndDatesBetween(ctx, t, start, end)
}

func (s *EventService) CreateEvent(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	event := req.ToEvent()
	if event.Type == models.EventTypeUnknown {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, req.Type)
	}
	if err := s.repo.SaveEvent(ctx, event); err != nil {
		s.logger.Errorf("Failed to save %s event: %v", event.Type, err)
		return nil, err
	}
	s.logger.Debugf("Saved %s event at %s", event.Type, event.Date)
	return &event, nil
}
