package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
)

// ErrorHandler is the fiber error handler shared by the services. Coded
// application errors keep their status; fiber errors keep theirs; anything
// else is a 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return c.Status(fErr.Code).JSON(fiber.Map{
			"error": fErr.Message,
		})
	}
	return RespondError(c, err)
}

// RespondError writes err as {"error", "code", "details"}.
func RespondError(c fiber.Ctx, err error) error {
	pErr := apperrors.As(err)
	if pErr.Status >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"error": pErr.Message,
		"code":  pErr.Code,
	}
	if len(pErr.Details) > 0 {
		body["details"] = pErr.Details
	}
	return c.Status(pErr.Status).JSON(body)
}
