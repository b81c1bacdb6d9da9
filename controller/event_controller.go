package controller

import (
	"net/http"
	"time"

	"nosql-repository-backend/models"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type EventController struct {
	eventService services.EventServiceInterface
	logger       logger.Logger
	validator    *validator.Validate
}

func NewEventController(eventService services.EventServiceInterface, logger logger.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
		validator:    validator.New(),
	}
}

// GetEvents handles GET /events
func (h *EventController) GetEvents(c *gin.Context) {
	events, err := h.eventService.GetEvents(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list events: %v", err)
		serviceFailure(c, "Failed to retrieve events", err)
		return
	}
	success(c, http.StatusOK, "Events retrieved successfully", events)
}

// GetEventsByTypeAndDates handles GET /events/eventType/:eventType?startDate=&endDate=
// with both dates in RFC 3339
func (h *EventController) GetEventsByTypeAndDates(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		failure(c, http.StatusBadRequest, "Invalid startDate", "ValidationError", err.Error())
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		failure(c, http.StatusBadRequest, "Invalid endDate", "ValidationError", err.Error())
		return
	}

	events, err := h.eventService.GetEventsByTypeAndDatesBetween(c.Request.Context(), c.Param("eventType"), start, end)
	if err != nil {
		serviceFailure(c, "Failed to retrieve events", err)
		return
	}
	success(c, http.StatusOK, "Events retrieved successfully", events)
}

// CreateEvent handles POST /events
func (h *EventController) CreateEvent(c *gin.Context) {
	var req models.EventRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		serviceFailure(c, "Failed to save event", err)
		return
	}
	success(c, http.StatusCreated, "Event saved successfully", event)
}
