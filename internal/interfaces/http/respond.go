package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saif-farmacia/saif-api/internal/domain"
)

// ok responde el envelope de éxito de los endpoints del motor.
func ok(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail responde el envelope de error del motor con los mensajes dados.
func fail(c *fiber.Ctx, status int, errs any) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "errors": errs})
}

// writeError mapea errores de dominio a códigos HTTP con el envelope
// {"success": false, "errors": ...}. Los errores de validación van con 400,
// los conflictos de estado con 409 y lo demás con 500.
func writeError(c *fiber.Ctx, err error) error {
	var shortfall *domain.StockShortfallError
	if errors.As(err, &shortfall) {
		return fail(c, fiber.StatusConflict, shortfall.Messages())
	}

	// Un id que ni siquiera parsea como uuid llega hasta postgres y vuelve
	// como 22P02; para el cliente es un request inválido, no un error interno.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return fail(c, fiber.StatusBadRequest, domain.ErrInvalidInput.Error())
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrLotInUse),
		errors.Is(err, domain.ErrProductHasStock),
		errors.Is(err, domain.ErrDownstreamMovement),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrLotModified),
		errors.Is(err, domain.ErrReturnExceedsSold):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoDetails),
		errors.Is(err, domain.ErrMissingProduct),
		errors.Is(err, domain.ErrMissingLot),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrMissingReference),
		errors.Is(err, domain.ErrMissingReason),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrLotProductMismatch),
		errors.Is(err, domain.ErrLotNotSold),
		errors.Is(err, domain.ErrLotNotExpired):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return fail(c, fiber.StatusInternalServerError, err.Error())
}
