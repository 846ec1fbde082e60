package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reflectionapp/reflection/api/internal/middleware"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
	"github.com/reflectionapp/reflection/api/internal/validator"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string                     `json:"error"`
	Code    string                     `json:"code,omitempty"`
	Message string                     `json:"message"`
	Fields  validator.ValidationErrors `json:"fields,omitempty"`
	Details map[string]string          `json:"details,omitempty"`
}

// RequireEmail extracts the caller's email from the request context
func RequireEmail(c *fiber.Ctx) (string, error) {
	email, ok := middleware.GetEmail(c)
	if !ok {
		return "", apperrors.Unauthorized("email not found")
	}
	return email, nil
}

// errorResponse creates a standardized JSON error response.
func errorResponse(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Error:   statusText(statusCode),
		Code:    code,
		Message: message,
	})
}

// handleError maps service errors onto HTTP responses
func handleError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   statusText(fiber.StatusBadRequest),
			Code:    apperrors.CodeValidation,
			Message: "Request validation failed",
			Fields:  verrs,
		})
	}

	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return err
	}

	// Causes of server-side failures stay in the logs
	message := appErr.Message
	if appErr.StatusCode < fiber.StatusInternalServerError && appErr.Err != nil {
		message = appErr.Err.Error()
	}

	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error:   statusText(appErr.StatusCode),
		Code:    appErr.Code,
		Message: message,
		Details: appErr.Details,
	})
}

func statusText(statusCode int) string {
	switch statusCode {
	case fiber.StatusBadRequest:
		return "Bad Request"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusServiceUnavailable:
		return "Service Unavailable"
	case fiber.StatusInternalServerError:
		return "Internal Server Error"
	}
	return "Error"
}
