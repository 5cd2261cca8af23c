package controllers

import (
	"time"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// BackupController контроллер резервных копий базы
type BackupController struct {
	backups *services.BackupService
}

// NewBackupController создает новый экземпляр BackupController
func NewBackupController(backups *services.BackupService) *BackupController {
	return &BackupController{backups: backups}
}

// CreateBackup создает резервную копию базы
func (bc *BackupController) CreateBackup(c *fiber.Ctx) error {
	path, err := bc.backups.Backup()
	if err != nil {
		return serviceError(c, err, "Ошибка при создании резервной копии")
	}

	return c.JSON(fiber.Map{
		"path":    path,
		"error":   false,
		"message": "Резервная копия создана успешно",
	})
}

// GetBackupStatus возвращает время последней копии и флаг напоминания
func (bc *BackupController) GetBackupStatus(c *fiber.Ctx) error {
	latest, err := bc.backups.LatestBackupTime()
	if err != nil {
		return serviceError(c, err, "Ошибка при проверке резервных копий")
	}

	return c.JSON(fiber.Map{
		"last_backup":   latest,
		"should_remind": services.ShouldRemind(latest, time.Now()),
		"error":         false,
		"message":       "Статус резервных копий получен",
	})
}
