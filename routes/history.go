package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupHistoryRoutes настраивает маршруты журнала аудита
func SetupHistoryRoutes(app *fiber.App, historyController *controllers.HistoryController) {
	api := app.Group("/api")

	history := api.Group("/history")
	history.Get("/", historyController.GetHistory)           // GET /api/history - записи журнала (фильтры action, entity_type, search, from, to, limit)
	history.Get("/stats", historyController.GetHistoryStats) // GET /api/history/stats - количество записей по действиям
}
