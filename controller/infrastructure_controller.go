package controller

import (
	"net/http"

	"nosql-repository-backend/models"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/worker"

	"github.com/gin-gonic/gin"
)

type InfrastructureController struct {
	service services.InfrastructureServiceInterface
	logger  logger.Logger
}

func NewInfrastructureController(service services.InfrastructureServiceInterface, logger logger.Logger) *InfrastructureController {
	return &InfrastructureController{
		service: service,
		logger:  logger,
	}
}

// GetTableStatus handles GET /infrastructure/tables
func (h *InfrastructureController) GetTableStatus(c *gin.Context) {
	h.respond(c, h.service.GetTableStatus())
}

// RefreshTableStatus handles POST /infrastructure/tables/check
func (h *InfrastructureController) RefreshTableStatus(c *gin.Context) {
	h.respond(c, h.service.RefreshTableStatus())
}

// respond answers 503 while provisioning has failed or any table is not active
func (h *InfrastructureController) respond(c *gin.Context, status worker.Status) {
	healthy := status.State != worker.StateFailed
	for _, table := range status.Tables {
		if table.Status != "ACTIVE" {
			healthy = false
		}
	}

	if !healthy {
		h.logger.Warnf("Infrastructure is degraded: state=%s", status.State)
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Status:  "error",
			Code:    http.StatusServiceUnavailable,
			Message: "Infrastructure is degraded",
			Data:    status,
			Error:   &models.APIError{Type: "InfrastructureError", Details: status.LastError},
		})
		return
	}
	success(c, http.StatusOK, "Infrastructure is healthy", status)
}
