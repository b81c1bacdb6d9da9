package controller

import (
	"net/http"

	"nosql-repository-backend/models"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/utils/metrics"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Order          *OrderController
	User           *UserController
	Event          *EventController
	Infrastructure *InfrastructureController

	config  *models.Config
	metrics *metrics.Metrics
}

// NewController builds the HTTP handlers over a service container. m may be nil,
// in which case /metrics is not served.
func NewController(cfg *models.Config, svc services.ServiceContainerInterface, m *metrics.Metrics, log logger.Logger) *Controller {
	return &Controller{
		Order:          NewOrderController(svc.GetOrderService(), log),
		User:           NewUserController(svc.GetUserService(), log),
		Event:          NewEventController(svc.GetEventService(), log),
		Infrastructure: NewInfrastructureController(svc.GetInfrastructureService(), log),
		config:         cfg,
		metrics:        m,
	}
}

func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	v1 := r.Group(basePath)

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.config.AppVersion,
			"service": c.config.AppName,
		})
	})
	if c.metrics != nil {
		v1.GET("/metrics", gin.WrapH(c.metrics.Handler()))
	}

	orders := v1.Group("/orders")
	orders.GET("", c.Order.GetOrders)
	orders.PUT("", c.Order.SaveOrder)
	orders.GET("/:id", c.Order.GetOrder)
	orders.DELETE("/:id", c.Order.DeleteOrder)
	orders.GET("/productName/:productName", c.Order.GetOrdersByProductName)
	orders.GET("/email/:email", c.Order.GetOrdersByUserEmail)
	orders.POST("/events", c.Order.SaveOrderWithEvent)
	orders.POST("/events/batch", c.Order.BatchGetOrdersAndEvents)

	users := v1.Group("/users")
	users.GET("", c.User.GetUsers)
	users.POST("", c.User.CreateUser)
	users.GET("/:email", c.User.GetUser)

	events := v1.Group("/events")
	events.GET("", c.Event.GetEvents)
	events.POST("", c.Event.CreateEvent)
	events.GET("/eventType/:eventType", c.Event.GetEventsByTypeAndDates)

	infra := v1.Group("/infrastructure")
	infra.GET("/tables", c.Infrastructure.GetTableStatus)
	infra.POST("/tables/check", c.Infrastructure.RefreshTableStatus)
}
