package handlers

import (
	"errors"

	"corebank/internal/models"
	"corebank/internal/repositories"
	"corebank/internal/services/account"
	"corebank/internal/services/transfer"
	"corebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// fail maps service errors onto HTTP status codes: validation and balance
// failures are 400, authorization failures 403, missing entities 404 and
// storage faults 500.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, transfer.ErrUnauthorized):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidAccountType),
		errors.Is(err, account.ErrInsufficientBalance),
		errors.Is(err, account.ErrAccountHasBalance),
		errors.Is(err, transfer.ErrSameAccount),
		errors.Is(err, transfer.ErrSavingRestricted),
		errors.Is(err, models.ErrMalformedAmount):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, repositories.ErrStorageUnavailable):
		return response.ServerError(c, "storage unavailable")
	default:
		return response.ServerError(c, "internal error")
	}
}
