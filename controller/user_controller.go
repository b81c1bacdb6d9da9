package controller

import (
	"net/http"

	"nosql-repository-backend/models"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      logger.Logger
	validator   *validator.Validate
}

func NewUserController(userService services.UserServiceInterface, logger logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
		validator:   validator.New(),
	}
}

// GetUsers handles GET /users
func (h *UserController) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list users: %v", err)
		serviceFailure(c, "Failed to retrieve users", err)
		return
	}
	success(c, http.StatusOK, "Users retrieved successfully", users)
}

// GetUser handles GET /users/:email
func (h *UserController) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		serviceFailure(c, "Failed to retrieve user", err)
		return
	}
	success(c, http.StatusOK, "User retrieved successfully", user)
}

// CreateUser handles POST /users
func (h *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		serviceFailure(c, "Failed to create user", err)
		return
	}
	success(c, http.StatusCreated, "User created successfully", user)
}
