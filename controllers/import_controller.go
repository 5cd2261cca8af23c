package controllers

import (
	"bytes"
	"fmt"
	"time"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// ImportController контроллер импорта и экспорта CSV
type ImportController struct {
	imports *services.ImportService
}

// NewImportController создает новый экземпляр ImportController
func NewImportController(imports *services.ImportService) *ImportController {
	return &ImportController{imports: imports}
}

// PreviewImport проверяет CSV из тела запроса и возвращает отчет
// предпросмотра. База не изменяется.
func (ic *ImportController) PreviewImport(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Пустое тело запроса: ожидается CSV",
		})
	}

	preview, err := ic.imports.Preview(string(body))
	if err != nil {
		return serviceError(c, err, "Неверный формат CSV")
	}

	return c.JSON(fiber.Map{
		"preview": preview,
		"error":   false,
		"message": "Предпросмотр импорта готов",
	})
}

// CommitImport повторно проверяет CSV и фиксирует импорт целиком.
// Если хотя бы одна строка с ошибкой, не записывается ничего.
func (ic *ImportController) CommitImport(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Пустое тело запроса: ожидается CSV",
		})
	}

	preview, err := ic.imports.Preview(string(body))
	if err != nil {
		return serviceError(c, err, "Неверный формат CSV")
	}

	imported, err := ic.imports.Commit(preview)
	if err != nil {
		return serviceError(c, err, "Импорт отклонен")
	}

	return c.JSON(fiber.Map{
		"imported": imported,
		"preview":  preview,
		"error":    false,
		"message":  fmt.Sprintf("Импортировано предметов: %d", imported),
	})
}

// GetTemplate возвращает шаблон CSV с именами существующих ящиков
func (ic *ImportController) GetTemplate(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := ic.imports.TemplateCSV(&buf); err != nil {
		return serviceError(c, err, "Ошибка при создании шаблона")
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="import_template.csv"`)
	return c.Send(buf.Bytes())
}

// ExportInventory выгружает инвентарь в CSV
func (ic *ImportController) ExportInventory(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := ic.imports.ExportInventoryCSV(&buf); err != nil {
		return serviceError(c, err, "Ошибка при экспорте инвентаря")
	}

	filename := fmt.Sprintf("inventory_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ExportAudit выгружает журнал аудита в CSV
func (ic *ImportController) ExportAudit(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := ic.imports.ExportAuditCSV(&buf); err != nil {
		return serviceError(c, err, "Ошибка при экспорте журнала")
	}

	filename := fmt.Sprintf("audit_logs_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
