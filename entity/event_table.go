package entity

import (
	"fmt"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// EventTableName is the logical name of the event table
	EventTableName = "event_table"

	// EventDateLayout is fixed width so that string order matches time order
	EventDateLayout = "2006-01-02T15:04:05.000000000Z"
)

// EventTableEntity is an event row keyed by type and date
type EventTableEntity struct {
	EventType string `dynamodbav:"eventType"`
	Date      string `dynamodbav:"date"`
}

// Schema describes the event table key layout
func (EventTableEntity) Schema() dal.TableSchema {
	return dal.TableSchema{
		TableName:    EventTableName,
		PartitionKey: dal.KeyAttribute{Name: "eventType", Type: types.ScalarAttributeTypeS},
		SortKey:      &dal.KeyAttribute{Name: "date", Type: types.ScalarAttributeTypeS},
	}
}

// FormatEventDate renders a time as an event sort key
func FormatEventDate(t time.Time) string {
	return t.UTC().Format(EventDateLayout)
}

// NewEventEntity maps an event onto its row
func NewEventEntity(e models.Event) EventTableEntity {
	return EventTableEntity{
		EventType: e.Type.String(),
		Date:      FormatEventDate(e.Date),
	}
}

// ToEvent maps a row back onto an event. The date is returned in UTC.
func (e EventTableEntity) ToEvent() (models.Event, error) {
	date, err := time.Parse(EventDateLayout, e.Date)
	if err != nil {
		return models.Event{}, fmt.Errorf("invalid event date %q: %w", e.Date, err)
	}
	return models.Event{Type: models.ParseEventType(e.EventType), Date: date}, nil
}

// EventKey returns the primary key of an event
func EventKey(t models.EventType, date time.Time) models.PrimaryKey {
	return models.PrimaryKey{PK: models.StringKey(t.String()), SK: models.StringKey(FormatEventDate(date))}
}
