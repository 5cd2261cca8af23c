package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupImportRoutes настраивает маршруты импорта и экспорта CSV
func SetupImportRoutes(app *fiber.App, importController *controllers.ImportController) {
	api := app.Group("/api")

	imports := api.Group("/import")
	imports.Post("/preview", importController.PreviewImport) // POST /api/import/preview - проверить CSV без записи
	imports.Post("/commit", importController.CommitImport)   // POST /api/import/commit - применить импорт целиком
	imports.Get("/template", importController.GetTemplate)   // GET /api/import/template - шаблон CSV

	export := api.Group("/export")
	export.Get("/inventory", importController.ExportInventory) // GET /api/export/inventory - выгрузка инвентаря
	export.Get("/audit", importController.ExportAudit)         // GET /api/export/audit - выгрузка журнала аудита
}
