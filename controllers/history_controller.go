package controllers

import (
	"strconv"
	"time"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// HistoryController контроллер для просмотра журнала аудита
type HistoryController struct {
	audit *services.AuditService
}

// NewHistoryController создает новый экземпляр HistoryController
func NewHistoryController(audit *services.AuditService) *HistoryController {
	return &HistoryController{audit: audit}
}

// parseDate разбирает дату фильтра в формате YYYY-MM-DD
func parseDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// GetHistory возвращает записи журнала аудита, новые сверху.
// Фильтры: action, entity_type, search (подстрока имени сущности),
// from и to (даты YYYY-MM-DD), limit
func (hc *HistoryController) GetHistory(c *fiber.Ctx) error {
	from, ok := parseDate(c.Query("from"))
	if !ok {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат даты 'from' (ожидается ГГГГ-ММ-ДД)",
		})
	}

	to, ok := parseDate(c.Query("to"))
	if !ok {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат даты 'to' (ожидается ГГГГ-ММ-ДД)",
		})
	}
	if to != nil {
		// Верхняя граница включает весь указанный день
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(400).JSON(fiber.Map{
				"error":   true,
				"message": "Неверное значение limit",
			})
		}
		limit = parsed
	}

	logs, err := hc.audit.Query(services.AuditFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Search:     c.Query("search"),
		From:       from,
		To:         to,
		Limit:      limit,
	})
	if err != nil {
		return serviceError(c, err, "Ошибка при получении журнала")
	}

	return c.JSON(fiber.Map{
		"logs":    logs,
		"error":   false,
		"message": "Журнал получен успешно",
	})
}

// GetHistoryStats возвращает количество записей журнала по действиям
func (hc *HistoryController) GetHistoryStats(c *fiber.Ctx) error {
	counts, err := hc.audit.CountsByAction()
	if err != nil {
		return serviceError(c, err, "Ошибка при получении статистики журнала")
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return c.JSON(fiber.Map{
		"counts":  counts,
		"total":   total,
		"error":   false,
		"message": "Статистика журнала получена успешно",
	})
}
