package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tekup-dev/coupon-service/internal/model"
	"github.com/tekup-dev/coupon-service/internal/service"
)

// ErrorHandler translates every error escaping a handler into the uniform
// error body. Mapping is by error kind, never by message content:
//
//	service.ErrCouponNotFound -> 404
//	service.ErrCouponExists   -> 409
//	service.ErrInvalidRequest -> 400
//	validator.ValidationErrors -> 400 (first field error only)
//	*fiber.Error              -> its own status code
//	anything else             -> 500 with a generic message
//
// Install it as fiber.Config.ErrorHandler so no handler maps errors itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var ve validator.ValidationErrors
	var fe *fiber.Error

	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrCouponExists):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrInvalidRequest):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.As(err, &ve):
		status = fiber.StatusBadRequest
		message = formatValidationError(ve)
	case errors.As(err, &fe):
		status = fe.Code
		message = fe.Message
	default:
		// Internals are logged, never leaked to the client.
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(model.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Details:   c.Method() + " " + c.Path(),
	})
}

// formatValidationError renders the first field error only.
func formatValidationError(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	switch fe.Field() {
	case "Code":
		switch fe.Tag() {
		case "required":
			return "invalid request: code is required"
		case "notblank":
			return "invalid request: code cannot be whitespace only"
		case "max":
			return "invalid request: code exceeds maximum length of 50"
		}
		return "invalid request: code is invalid"
	case "Discount":
		switch fe.Tag() {
		case "required":
			return "invalid request: discount is required"
		case "gt":
			return "invalid request: discount must be greater than 0"
		case "lte":
			return "invalid request: discount must be at most 100"
		}
		return "invalid request: discount is invalid"
	case "ValidFrom":
		return "invalid request: valid_from is required"
	case "ValidTo":
		return "invalid request: valid_to is required"
	default:
		if fe.Tag() == "required" {
			return "invalid request: " + fe.Field() + " is required"
		}
		return "invalid request: " + fe.Field() + " is invalid"
	}
}
