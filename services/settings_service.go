package services

import (
	"errors"
	"fmt"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// SettingsService читает и сохраняет настройки приложения.
// Настройки лежат в той же базе, что и инвентарь: изменения
// попадают в журнал аудита и в резервные копии.
type SettingsService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewSettingsService создает новый экземпляр SettingsService
func NewSettingsService(db *gorm.DB, audit *AuditService) *SettingsService {
	return &SettingsService{db: db, audit: audit}
}

// Get возвращает значение настройки или значение по умолчанию,
// если ключ еще не сохранялся. Чтение не попадает в журнал.
func (s *SettingsService) Get(key, defaultValue string) (string, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultValue, nil
		}
		return "", &StorageError{Op: "read setting", Err: err}
	}

	return setting.Value, nil
}

// Set сохраняет настройку и пишет запись в журнал аудита со старым
// и новым значением. Смена языка и темы фиксируется отдельными
// действиями LANGUAGE_CHANGE и THEME_CHANGE.
// Запись того же значения повторно в журнал не попадает.
func (s *SettingsService) Set(key, value string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var old models.Setting
		oldValue := ""
		exists := true
		if err := tx.First(&old, "key = ?", key).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return &StorageError{Op: "read setting", Err: err}
			}
			exists = false
		} else {
			oldValue = old.Value
		}

		if exists && oldValue == value {
			// Изменений нет: журнал не засоряем
			return nil
		}

		if err := tx.Save(&models.Setting{Key: key, Value: value}).Error; err != nil {
			return &StorageError{Op: "write setting", Err: err}
		}

		action := models.ActionUpdate
		switch key {
		case models.SettingLanguage:
			action = models.ActionLanguageChange
		case models.SettingTheme:
			action = models.ActionThemeChange
		}

		return s.audit.Log(tx, models.AuditLog{
			Action:     action,
			EntityType: models.EntitySettings,
			EntityName: key,
			Details:    fmt.Sprintf("%s: '%s' → '%s'", key, oldValue, value),
			OldValue:   &oldValue,
			NewValue:   &value,
		})
	})
}
