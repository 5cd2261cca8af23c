package controllers

import (
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// StatsController контроллер панели статистики инвентаря
type StatsController struct {
	inventory *services.InventoryService
}

// NewStatsController создает новый экземпляр StatsController
func NewStatsController(inventory *services.InventoryService) *StatsController {
	return &StatsController{inventory: inventory}
}

// GetStatistics возвращает сводку: количество ящиков и предметов,
// суммарное количество единиц и агрегаты по каждому ящику
func (sc *StatsController) GetStatistics(c *fiber.Ctx) error {
	stats, err := sc.inventory.Statistics()
	if err != nil {
		return serviceError(c, err, "Ошибка при получении статистики")
	}

	return c.JSON(fiber.Map{
		"stats":   stats,
		"error":   false,
		"message": "Статистика получена успешно",
	})
}
