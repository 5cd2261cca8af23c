package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes настраивает маршруты для управления предметами
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	api := app.Group("/api")

	items := api.Group("/items")
	items.Get("/", itemController.GetItems)         // GET /api/items - получить предметы (фильтры search, box_id)
	items.Post("/", itemController.CreateItem)      // POST /api/items - создать предмет
	items.Put("/:id", itemController.UpdateItem)    // PUT /api/items/:id - обновить предмет
	items.Put("/:id/move", itemController.MoveItem) // PUT /api/items/:id/move - перенести предмет в другой ящик
	items.Delete("/:id", itemController.DeleteItem) // DELETE /api/items/:id - удалить предмет
}
