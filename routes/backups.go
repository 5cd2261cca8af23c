package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupBackupRoutes настраивает маршруты резервного копирования
func SetupBackupRoutes(app *fiber.App, backupController *controllers.BackupController) {
	api := app.Group("/api")

	backup := api.Group("/backup")
	backup.Post("/", backupController.CreateBackup)          // POST /api/backup - создать резервную копию
	backup.Get("/status", backupController.GetBackupStatus) // GET /api/backup/status - время последней копии и напоминание
}
