package models

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Box представляет модель ящика (места хранения) в системе
type Box struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:255;index"`
	Location string `json:"location" gorm:"size:255;index;default:''"` // Физическое расположение ящика (опционально)

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitDB инициализирует подключение к базе данных
func InitDB() (*gorm.DB, error) {
	// Проверяем переменную окружения для выбора базы данных
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" {
		// Используем PostgreSQL для продакшена
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// Используем SQLite по умолчанию
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "inventar.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate идемпотентно создает таблицы и индексы.
// Безопасно вызывать при каждом запуске против существующей базы:
// AutoMigrate только добавляет недостающее и ничего не удаляет.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Box{}, &Item{}, &AuditLog{}, &Setting{}); err != nil {
		return err
	}

	// Включаем каскадное удаление на уровне SQLite
	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return err
		}
	}

	return nil
}

// BeforeCreate хук для установки времени создания
func (b *Box) BeforeCreate(tx *gorm.DB) error {
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (b *Box) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return nil
}
