package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupSettingsRoutes настраивает маршруты настроек приложения
func SetupSettingsRoutes(app *fiber.App, settingsController *controllers.SettingsController) {
	api := app.Group("/api")

	settings := api.Group("/settings")
	settings.Get("/:key", settingsController.GetSetting)    // GET /api/settings/:key - получить настройку
	settings.Put("/:key", settingsController.UpdateSetting) // PUT /api/settings/:key - сохранить настройку
}
