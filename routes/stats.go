package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes настраивает маршруты статистики инвентаря
func SetupStatsRoutes(app *fiber.App, statsController *controllers.StatsController) {
	api := app.Group("/api")

	api.Get("/stats", statsController.GetStatistics) // GET /api/stats - сводка по инвентарю
}
