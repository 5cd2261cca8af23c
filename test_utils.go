package main

import (
	"io"

	"inventar-backend/models"
	"inventar-backend/services"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to test database")
	}
	if err := models.Migrate(db); err != nil {
		panic("Failed to migrate test database")
	}
	return db
}

// testLogger создает логгер, не пишущий никуда
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testServices собирает сервисы поверх одной тестовой базы
type testServices struct {
	db        *gorm.DB
	audit     *services.AuditService
	inventory *services.InventoryService
	imports   *services.ImportService
	settings  *services.SettingsService
}

// newTestServices создает сервисы над тестовой базой в памяти
func newTestServices() *testServices {
	db := setupTestDB()
	audit := services.NewAuditService(db, testLogger(), nil)
	return &testServices{
		db:        db,
		audit:     audit,
		inventory: services.NewInventoryService(db, audit),
		imports:   services.NewImportService(db, audit),
		settings:  services.NewSettingsService(db, audit),
	}
}

// createTestBox создает ящик и возвращает его
func createTestBox(ts *testServices, name, location string) *models.Box {
	box, err := ts.inventory.CreateBox(name, location)
	if err != nil {
		panic("Failed to create test box: " + err.Error())
	}
	return box
}

// createTestItem создает предмет и возвращает его
func createTestItem(ts *testServices, name string, boxID uint, quantity int) *models.Item {
	item, err := ts.inventory.CreateItem(name, boxID, quantity)
	if err != nil {
		panic("Failed to create test item: " + err.Error())
	}
	return item
}

// countRows возвращает количество строк модели
func countRows(db *gorm.DB, model interface{}) int64 {
	var count int64
	db.Model(model).Count(&count)
	return count
}
