package controller

import (
	"errors"

	"staysure-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service sentinel errors onto HTTP status codes. Anything
// unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrEmailNotVerified),
		errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountBlocked):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrVersionConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNothingDue):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
