package controllers

import (
	"strconv"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
)

// ItemController контроллер для управления предметами
type ItemController struct {
	inventory *services.InventoryService
}

// NewItemController создает новый экземпляр ItemController
func NewItemController(inventory *services.InventoryService) *ItemController {
	return &ItemController{inventory: inventory}
}

// itemRequest тело запроса на создание и обновление предмета
type itemRequest struct {
	Name     string `json:"name"`
	BoxID    uint   `json:"box_id"`
	Quantity int    `json:"quantity"`
}

// GetItems возвращает предметы с фильтрацией по имени и ящику
func (ic *ItemController) GetItems(c *fiber.Ctx) error {
	var boxID *uint
	if raw := c.Query("box_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"error":   true,
				"message": "Неверный ID ящика",
			})
		}
		id := uint(parsed)
		boxID = &id
	}

	items, err := ic.inventory.SearchItems(c.Query("search"), boxID)
	if err != nil {
		return serviceError(c, err, "Ошибка при получении предметов")
	}

	return c.JSON(fiber.Map{
		"items":   items,
		"error":   false,
		"message": "Предметы получены успешно",
	})
}

// CreateItem создает новый предмет
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	item, err := ic.inventory.CreateItem(req.Name, req.BoxID, req.Quantity)
	if err != nil {
		return serviceError(c, err, "Ошибка при создании предмета")
	}

	return c.Status(201).JSON(fiber.Map{
		"item":    item,
		"error":   false,
		"message": "Предмет создан успешно",
	})
}

// UpdateItem обновляет имя, ящик и количество предмета
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный ID предмета",
		})
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	item, err := ic.inventory.UpdateItem(uint(itemID), req.Name, req.BoxID, req.Quantity)
	if err != nil {
		return serviceError(c, err, "Ошибка при обновлении предмета")
	}

	return c.JSON(fiber.Map{
		"item":    item,
		"error":   false,
		"message": "Предмет обновлен успешно",
	})
}

// MoveItem переносит предмет в другой ящик
func (ic *ItemController) MoveItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный ID предмета",
		})
	}

	var req struct {
		BoxID uint `json:"box_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный формат запроса",
		})
	}

	item, err := ic.inventory.MoveItem(uint(itemID), req.BoxID)
	if err != nil {
		return serviceError(c, err, "Ошибка при переносе предмета")
	}

	return c.JSON(fiber.Map{
		"item":    item,
		"error":   false,
		"message": "Предмет перенесен успешно",
	})
}

// DeleteItem удаляет предмет
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Неверный ID предмета",
		})
	}

	if err := ic.inventory.DeleteItem(uint(itemID)); err != nil {
		return serviceError(c, err, "Ошибка при удалении предмета")
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Предмет удален успешно",
	})
}
