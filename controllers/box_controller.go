package controllers

import (
	"strconv"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// BoxController контроллер для управления ящиками
type BoxController struct {
	inventory *services.InventoryService
}

// NewBoxController создает новый экземпляр BoxController
func NewBoxController(inventory *services.InventoryService) *BoxController {
	return &BoxController{inventory: inventory}
}

// boxRequest тело запроса на создание и обновление ящика
type boxRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// GetBoxes возвращает ящики с фильтрацией по имени и расположению
func (bc *BoxController) GetBoxes(c *fiber.Ctx) error {
	boxes, err := bc.inventory.SearchBoxes(c.Query("name"), c.Query("location"))
	if err != nil {
		return serviceError(c, err, "Ошибка при получении ящиков")
	}

	return c.JSON(fiber.Map{
		"boxes":   boxes,
		"error":   false,
		"message": "Ящики получены успешно",
	})
}

// CreateBox создает новый ящик
func (bc *BoxController) CreateBox(c *fiber.Ctx) error {
	var req boxRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	box, err := bc.inventory.CreateBox(req.Name, req.Location)
	if err != nil {
		return serviceError(c, err, "Ошибка при создании ящика")
	}

	return c.Status(201).JSON(fiber.Map{
		"box":     box,
		"error":   false,
		"message": "Ящик создан успешно",
	})
}

// UpdateBox обновляет имя и расположение ящика
func (bc *BoxController) UpdateBox(c *fiber.Ctx) error {
	boxID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный ID ящика",
		})
	}

	var req boxRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	box, err := bc.inventory.UpdateBox(uint(boxID), req.Name, req.Location)
	if err != nil {
		return serviceError(c, err, "Ошибка при обновлении ящика")
	}

	return c.JSON(fiber.Map{
		"box":     box,
		"error":   false,
		"message": "Ящик обновлен успешно",
	})
}

// DeleteBox удаляет ящик вместе со всеми его предметами
func (bc *BoxController) DeleteBox(c *fiber.Ctx) error {
	boxID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный ID ящика",
		})
	}

	removed, err := bc.inventory.DeleteBox(uint(boxID))
	if err != nil {
		return serviceError(c, err, "Ошибка при удалении ящика")
	}

	return c.JSON(fiber.Map{
		"removed_items": removed,
		"error":         false,
		"message":       "Ящик удален успешно",
	})
}
