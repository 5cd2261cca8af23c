package models

import (
	"time"
)

// Действия, фиксируемые в журнале аудита.
// Значения хранятся в базе и не локализуются.
const (
	ActionCreate         = "CREATE"
	ActionUpdate         = "UPDATE"
	ActionDelete         = "DELETE"
	ActionImport         = "IMPORT"
	ActionExport         = "EXPORT"
	ActionBackup         = "BACKUP"
	ActionStartup        = "STARTUP"
	ActionShutdown       = "SHUTDOWN"
	ActionLanguageChange = "LANGUAGE_CHANGE"
	ActionThemeChange    = "THEME_CHANGE"
)

// Типы сущностей журнала аудита
const (
	EntityItem        = "ITEM"
	EntityBox         = "BOX"
	EntityInventory   = "INVENTORY"
	EntityDatabase    = "DATABASE"
	EntityApplication = "APPLICATION"
	EntitySettings    = "SETTINGS"
)

// AuditLog представляет одну запись журнала аудита.
// Записи только добавляются: существующие строки никогда
// не изменяются и не удаляются.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
	Action     string    `json:"action" gorm:"not null;size:32;index"`
	EntityType string    `json:"entity_type" gorm:"not null;size:32;index"`
	EntityID   *uint     `json:"entity_id"`                            // Пусто для действий над базой целиком
	EntityName string    `json:"entity_name" gorm:"size:255;index"`    // Снимок имени на момент действия
	Details    string    `json:"details" gorm:"type:text;default:''"`  // Краткое описание изменения
	OldValue   *string   `json:"old_value" gorm:"type:text"`           // Снимок до изменения (для UPDATE)
	NewValue   *string   `json:"new_value" gorm:"type:text"`           // Снимок после изменения (для UPDATE)
}
