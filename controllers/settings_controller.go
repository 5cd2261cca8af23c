package controllers

import (
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SettingsController контроллер настроек приложения
type SettingsController struct {
	settings *services.SettingsService
}

// NewSettingsController создает новый экземпляр SettingsController
func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetSetting возвращает значение настройки.
// Значение по умолчанию передается в query-параметре default
func (sc *SettingsController) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	value, err := sc.settings.Get(key, c.Query("default"))
	if err != nil {
		return serviceError(c, err, "Ошибка при чтении настройки")
	}

	return c.JSON(fiber.Map{
		"key":     key,
		"value":   value,
		"error":   false,
		"message": "Настройка получена успешно",
	})
}

// UpdateSetting сохраняет настройку
func (sc *SettingsController) UpdateSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	if err := sc.settings.Set(key, req.Value); err != nil {
		return serviceError(c, err, "Ошибка при сохранении настройки")
	}

	return c.JSON(fiber.Map{
		"key":     key,
		"value":   req.Value,
		"error":   false,
		"message": "Настройка сохранена успешно",
	})
}
