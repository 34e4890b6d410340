package api

import (
	"go-bi/internal/common/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorStatus maps application error kinds to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return fiber.StatusBadRequest
	case apperrors.IsNotFound(err):
		return fiber.StatusNotFound
	case apperrors.IsInvalidState(err), apperrors.IsNotReady(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
