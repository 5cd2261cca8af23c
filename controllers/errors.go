package controllers

import (
	"errors"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError переводит типизированную ошибку сервиса в HTTP-ответ.
// В message передается локализованное сообщение для пользователя,
// в details идет структурированная причина для клиента.
func serviceError(c *fiber.Ctx, err error, message string) error {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		columns    *services.MissingColumnsError
		aborted    *services.ImportAbortedError
	)

	status := 500
	switch {
	case errors.As(err, &validation):
		status = 400
	case errors.As(err, &columns):
		status = 400
	case errors.As(err, &notFound):
		status = 404
	case errors.As(err, &aborted):
		status = 409
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"message": message,
		"details": err.Error(),
	})
}
