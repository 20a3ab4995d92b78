package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden relevante: el primer errors.Is que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest, "INVALID_PRICE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrLotNotFound, fiber.StatusConflict, "LOT_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyRolledBack, fiber.StatusConflict, "ALREADY_ROLLED_BACK"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDisallowedRollback, fiber.StatusUnprocessableEntity, "ROLLBACK_NOT_ALLOWED"},
}

// clientStatus devuelve el estado HTTP de un error esperado; ok es false para errores internos.
func clientStatus(err error) (status int, code string, ok bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, true
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL", false
}

// writeError traduce errores de dominio a HTTP. Los errores internos se registran y no se exponen.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if status, code, ok := clientStatus(err); ok {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("operación excedió el tiempo límite")
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación excedió el tiempo límite"})
	}
	if domain.IsFatal(err) {
		log.Error().Err(err).Str("path", c.Path()).Str("store_id", GetStoreID(c)).Msg("inconsistencia del libro de stock")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "LEDGER_INCONSISTENCY", Message: "inconsistencia en el libro de stock"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
