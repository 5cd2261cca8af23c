package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupBoxRoutes настраивает маршруты для управления ящиками
func SetupBoxRoutes(app *fiber.App, boxController *controllers.BoxController) {
	api := app.Group("/api")

	boxes := api.Group("/boxes")
	boxes.Get("/", boxController.GetBoxes)        // GET /api/boxes - получить ящики (фильтры name, location)
	boxes.Post("/", boxController.CreateBox)      // POST /api/boxes - создать ящик
	boxes.Put("/:id", boxController.UpdateBox)    // PUT /api/boxes/:id - обновить ящик
	boxes.Delete("/:id", boxController.DeleteBox) // DELETE /api/boxes/:id - удалить ящик со всеми предметами
}
