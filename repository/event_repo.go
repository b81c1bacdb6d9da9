package repository

import (
	"context"
	"time"

	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
)

type EventRepository struct {
	events NoSQLRepository[entity.EventTableEntity]
	logger logger.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(events NoSQLRepository[entity.EventTableEntity], log logger.Logger) *EventRepository {
	return &EventRepository{
		events: events,
		logger: log,
	}
}

func (r *EventRepository) FindAllEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toEvents(rows)
}

// FindEventsByTypeAndDatesBetween returns events of one type dated within
// [start, end], oldest first. An inverted range matches nothing.
func (r *EventRepository) FindEventsByTypeAndDatesBetween(ctx context.Context, eventType models.EventType, start, end time.Time) ([]models.Event, error) {
	if end.Before(start) {
		return []models.Event{}, nil
	}
	rows, err := r.events.FindAllByPKAndSKBetween(ctx,
		models.StringKey(eventType.String()),
		models.StringKey(entity.FormatEventDate(start)),
		models.StringKey(entity.FormatEventDate(end)),
	)
	if err != nil {
		return nil, err
	}
	return toEvents(rows)
}

func (r *EventRepository) SaveEvent(ctx context.Context, event models.Event) error {
	if err := r.events.Save(ctx, entity.NewEventEntity(event)); err != nil {
		return err
	}
	r.logger.Infof("Event saved successfully: %s at %s", event.Type, entity.FormatEventDate(event.Date))
	return nil
}

func toEvents(rows []entity.EventTableEntity) ([]models.Event, error) {
	events := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := row.ToEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
