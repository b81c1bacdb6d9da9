package controller

import (
	"errors"
	"net/http"
	"strings"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"
	"nosql-repository-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func failure(c *gin.Context, code int, message, errType, details string) {
	c.JSON(code, models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	})
}

// errorStatus maps service and store errors onto an HTTP status and error type
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "NotFoundError"
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, dal.ErrUnsupportedKeyType),
		errors.Is(err, dal.ErrMissingKey),
		errors.Is(err, dal.ErrInvalidCondition),
		errors.Is(err, dal.ErrTransactionTooLarge):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, dal.ErrTransactionAborted):
		return http.StatusConflict, "TransactionError"
	default:
		return http.StatusInternalServerError, "DatabaseError"
	}
}

func serviceFailure(c *gin.Context, message string, err error) {
	code, errType := errorStatus(err)
	failure(c, code, message, errType, err.Error())
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func bindAndValidate(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return false
	}
	if err := v.Struct(req); err != nil {
		failure(c, http.StatusBadRequest, "Validation failed", "ValidationError", formatValidationErrors(err))
		return false
	}
	return true
}

// formatValidationErrors formats validation errors into readable messages
func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	errorMessages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			errorMessages = append(errorMessages, fieldError.Field()+" is required")
		case "email":
			errorMessages = append(errorMessages, fieldError.Field()+" must be a valid email address")
		case "min":
			errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param())
		case "max":
			errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param())
		default:
			errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
		}
	}
	return strings.Join(errorMessages, "; ")
}
