package services

import (
	"errors"
	"fmt"
	"strings"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// maxNameLength максимальная длина имени ящика или предмета
const maxNameLength = 255

// InventoryService отвечает за все изменения ящиков и предметов.
// Каждая мутация выполняется в одной транзакции вместе с записью
// в журнал аудита: либо сохраняется и то и другое, либо ничего.
type InventoryService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewInventoryService создает новый экземпляр InventoryService
func NewInventoryService(db *gorm.DB, audit *AuditService) *InventoryService {
	return &InventoryService{db: db, audit: audit}
}

// validateName проверяет имя: непустое после обрезки пробелов, не длиннее 255 символов
func validateName(field, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Message: "must not be empty"}
	}
	if len([]rune(trimmed)) > maxNameLength {
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", maxNameLength)}
	}
	return trimmed, nil
}

// validateLocation проверяет расположение: может быть пустым, но не длиннее 255 символов
func validateLocation(location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	if len([]rune(trimmed)) > maxNameLength {
		return "", &ValidationError{Field: "location", Message: fmt.Sprintf("must not exceed %d characters", maxNameLength)}
	}
	return trimmed, nil
}

// CreateBox создает новый ящик
func (s *InventoryService) CreateBox(name, location string) (*models.Box, error) {
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	location, err = validateLocation(location)
	if err != nil {
		return nil, err
	}

	box := models.Box{Name: name, Location: location}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&box).Error; err != nil {
			return &StorageError{Op: "create box", Err: err}
		}

		details := "Created new box"
		if location != "" {
			details = fmt.Sprintf("Created new box at location: %s", location)
		}

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionCreate,
			EntityType: models.EntityBox,
			EntityID:   &box.ID,
			EntityName: box.Name,
			Details:    details,
		})
	})
	if err != nil {
		return nil, err
	}

	return &box, nil
}

// UpdateBox обновляет имя и расположение ящика.
// Если новые значения совпадают со старыми, запись
// в журнал аудита не создается.
func (s *InventoryService) UpdateBox(id uint, name, location string) (*models.Box, error) {
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	location, err = validateLocation(location)
	if err != nil {
		return nil, err
	}

	var box models.Box

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&box, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "box", ID: id}
			}
			return &StorageError{Op: "load box", Err: err}
		}

		oldName := box.Name
		oldLocation := box.Location

		if oldName == name && oldLocation == location {
			// Изменений нет: журнал не засоряем
			return nil
		}

		box.Name = name
		box.Location = location
		if err := tx.Save(&box).Error; err != nil {
			return &StorageError{Op: "update box", Err: err}
		}

		var changes []string
		if oldName != name {
			changes = append(changes, fmt.Sprintf("name: '%s' → '%s'", oldName, name))
		}
		if oldLocation != location {
			changes = append(changes, fmt.Sprintf("location: '%s' → '%s'", oldLocation, location))
		}

		oldValue := fmt.Sprintf("name: %s, location: %s", oldName, oldLocation)
		newValue := fmt.Sprintf("name: %s, location: %s", name, location)

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionUpdate,
			EntityType: models.EntityBox,
			EntityID:   &box.ID,
			EntityName: name,
			Details:    strings.Join(changes, ", "),
			OldValue:   &oldValue,
			NewValue:   &newValue,
		})
	})
	if err != nil {
		return nil, err
	}

	return &box, nil
}

// DeleteBox удаляет ящик и все его предметы.
// Каскад выполняется явно на уровне приложения, чтобы для каждого
// удаленного предмета появилась своя запись в журнале аудита.
// Возвращает количество удаленных предметов.
func (s *InventoryService) DeleteBox(id uint) (int64, error) {
	var removed int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var box models.Box
		if err := tx.First(&box, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "box", ID: id}
			}
			return &StorageError{Op: "load box", Err: err}
		}

		var items []models.Item
		if err := tx.Where("box_id = ?", id).Order("id").Find(&items).Error; err != nil {
			return &StorageError{Op: "load box items", Err: err}
		}

		for _, item := range items {
			item := item
			if err := tx.Delete(&models.Item{}, item.ID).Error; err != nil {
				return &StorageError{Op: "delete item", Err: err}
			}
			if err := s.audit.Log(tx, models.AuditLog{
				Action:     models.ActionDelete,
				EntityType: models.EntityItem,
				EntityID:   &item.ID,
				EntityName: item.Name,
				Details:    fmt.Sprintf("Deleted %d units from box '%s'", item.Quantity, box.Name),
			}); err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Box{}, id).Error; err != nil {
			return &StorageError{Op: "delete box", Err: err}
		}

		removed = int64(len(items))

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionDelete,
			EntityType: models.EntityBox,
			EntityID:   &box.ID,
			EntityName: box.Name,
			Details:    fmt.Sprintf("Deleted box with %d items", len(items)),
		})
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// CreateItem создает новый предмет в указанном ящике
func (s *InventoryService) CreateItem(name string, boxID uint, quantity int) (*models.Item, error) {
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	item := models.Item{Name: name, BoxID: boxID, Quantity: quantity}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var box models.Box
		if err := tx.First(&box, boxID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "box", ID: boxID}
			}
			return &StorageError{Op: "load box", Err: err}
		}

		if err := tx.Create(&item).Error; err != nil {
			return &StorageError{Op: "create item", Err: err}
		}

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionCreate,
			EntityType: models.EntityItem,
			EntityID:   &item.ID,
			EntityName: item.Name,
			Details:    fmt.Sprintf("Added %d units to box '%s'", quantity, box.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// UpdateItem обновляет имя, ящик и количество предмета.
// Перенос предмета в другой ящик сводится к обновлению box_id.
// Если изменений нет, запись в журнал аудита не создается.
func (s *InventoryService) UpdateItem(id uint, name string, boxID uint, quantity int) (*models.Item, error) {
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	var item models.Item

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "item", ID: id}
			}
			return &StorageError{Op: "load item", Err: err}
		}

		var newBox models.Box
		if err := tx.First(&newBox, boxID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "box", ID: boxID}
			}
			return &StorageError{Op: "load box", Err: err}
		}

		oldName := item.Name
		oldBoxID := item.BoxID
		oldQuantity := item.Quantity

		if oldName == name && oldBoxID == boxID && oldQuantity == quantity {
			// Изменений нет: журнал не засоряем
			return nil
		}

		item.Name = name
		item.BoxID = boxID
		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return &StorageError{Op: "update item", Err: err}
		}

		var changes []string
		if oldName != name {
			changes = append(changes, fmt.Sprintf("name: '%s' → '%s'", oldName, name))
		}
		if oldQuantity != quantity {
			changes = append(changes, fmt.Sprintf("quantity: %d → %d", oldQuantity, quantity))
		}
		if oldBoxID != boxID {
			var oldBox models.Box
			if err := tx.First(&oldBox, oldBoxID).Error; err == nil {
				changes = append(changes, fmt.Sprintf("box: '%s' → '%s'", oldBox.Name, newBox.Name))
			}
		}

		oldValue := fmt.Sprintf("name: %s, box_id: %d, quantity: %d", oldName, oldBoxID, oldQuantity)
		newValue := fmt.Sprintf("name: %s, box_id: %d, quantity: %d", name, boxID, quantity)

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionUpdate,
			EntityType: models.EntityItem,
			EntityID:   &item.ID,
			EntityName: name,
			Details:    strings.Join(changes, ", "),
			OldValue:   &oldValue,
			NewValue:   &newValue,
		})
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// MoveItem переносит предмет в другой ящик, сохраняя имя и количество
func (s *InventoryService) MoveItem(id uint, boxID uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "item", ID: id}
		}
		return nil, &StorageError{Op: "load item", Err: err}
	}

	return s.UpdateItem(id, item.Name, boxID, item.Quantity)
}

// DeleteItem удаляет предмет
func (s *InventoryService) DeleteItem(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Preload("Box").First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "item", ID: id}
			}
			return &StorageError{Op: "load item", Err: err}
		}

		boxName := "Unknown"
		if item.Box != nil {
			boxName = item.Box.Name
		}

		if err := tx.Delete(&models.Item{}, id).Error; err != nil {
			return &StorageError{Op: "delete item", Err: err}
		}

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionDelete,
			EntityType: models.EntityItem,
			EntityID:   &item.ID,
			EntityName: item.Name,
			Details:    fmt.Sprintf("Deleted %d units from box '%s'", item.Quantity, boxName),
		})
	})
}

// SearchBoxes ищет ящики по подстроке имени и расположения.
// Поиск не чувствителен к регистру, результат отсортирован по имени.
// Чтение не попадает в журнал аудита.
func (s *InventoryService) SearchBoxes(name, location string) ([]models.Box, error) {
	query := s.db.Model(&models.Box{})

	if name = strings.TrimSpace(name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if location = strings.TrimSpace(location); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var boxes []models.Box
	if err := query.Order("name").Find(&boxes).Error; err != nil {
		return nil, &StorageError{Op: "search boxes", Err: err}
	}

	return boxes, nil
}

// SearchItems ищет предметы по подстроке имени с необязательным
// фильтром по ящику. Результат отсортирован по имени.
func (s *InventoryService) SearchItems(name string, boxID *uint) ([]models.Item, error) {
	query := s.db.Model(&models.Item{}).Preload("Box")

	if name = strings.TrimSpace(name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if boxID != nil {
		query = query.Where("box_id = ?", *boxID)
	}

	var items []models.Item
	if err := query.Order("name").Find(&items).Error; err != nil {
		return nil, &StorageError{Op: "search items", Err: err}
	}

	return items, nil
}

// Statistics собирает сводку по инвентарю для панели статистики
func (s *InventoryService) Statistics() (*InventoryStats, error) {
	stats := InventoryStats{}

	if err := s.db.Model(&models.Box{}).Count(&stats.TotalBoxes).Error; err != nil {
		return nil, &StorageError{Op: "count boxes", Err: err}
	}
	if err := s.db.Model(&models.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, &StorageError{Op: "count items", Err: err}
	}
	if err := s.db.Model(&models.Item{}).Select("COALESCE(SUM(quantity), 0)").Scan(&stats.TotalQuantity).Error; err != nil {
		return nil, &StorageError{Op: "sum quantities", Err: err}
	}

	if err := s.db.Model(&models.Box{}).
		Select("boxes.name AS box_name, COUNT(items.id) AS item_count, COALESCE(SUM(items.quantity), 0) AS total_quantity").
		Joins("LEFT JOIN items ON items.box_id = boxes.id").
		Group("boxes.id, boxes.name").
		Order("boxes.name").
		Scan(&stats.PerBox).Error; err != nil {
		return nil, &StorageError{Op: "aggregate per box", Err: err}
	}

	return &stats, nil
}

// InventoryStats сводка по инвентарю
type InventoryStats struct {
	TotalBoxes    int64          `json:"total_boxes"`
	TotalItems    int64          `json:"total_items"`
	TotalQuantity int64          `json:"total_quantity"`
	PerBox        []BoxAggregate `json:"per_box"`
}

// BoxAggregate агрегаты по одному ящику
type BoxAggregate struct {
	BoxName       string `json:"box_name"`
	ItemCount     int64  `json:"item_count"`
	TotalQuantity int64  `json:"total_quantity"`
}
