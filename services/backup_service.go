package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inventar-backend/models"

	"gorm.io/gorm"
)

const (
	backupPrefix     = "inventar_backup_"
	backupSuffix     = ".db"
	backupTimeLayout = "2006-01-02_15-04-05"

	// backupReminderAge возраст резервной копии, после которого
	// пользователю напоминают сделать новую
	backupReminderAge = 7 * 24 * time.Hour
)

// BackupService создает резервные копии базы и отслеживает их возраст
type BackupService struct {
	db    *gorm.DB
	audit *AuditService
	dir   string
}

// NewBackupService создает новый экземпляр BackupService.
// Каталог резервных копий берется из BACKUP_DIR, по умолчанию "backup"
func NewBackupService(db *gorm.DB, audit *AuditService) *BackupService {
	dir := os.Getenv("BACKUP_DIR")
	if dir == "" {
		dir = "backup"
	}
	return &BackupService{db: db, audit: audit, dir: dir}
}

// Backup копирует базу в каталог резервных копий с меткой времени
// в имени файла и пишет запись BACKUP/DATABASE в журнал.
// Снимок делается через VACUUM INTO, чтобы получить целостную копию
// без недописанных страниц. Работает только с SQLite.
func (s *BackupService) Backup() (string, error) {
	if s.db.Dialector.Name() != "sqlite" {
		return "", &StorageError{Op: "backup", Err: errors.New("file backup is only supported for sqlite databases")}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &StorageError{Op: "create backup directory", Err: err}
	}

	filename := backupPrefix + time.Now().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(s.dir, filename)

	if err := s.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", &StorageError{Op: "backup database", Err: err}
	}

	if err := s.audit.Record(models.AuditLog{
		Action:     models.ActionBackup,
		EntityType: models.EntityDatabase,
		Details:    fmt.Sprintf("Database backed up to %s", filename),
	}); err != nil {
		return "", err
	}

	return path, nil
}

// LatestBackupTime возвращает время самой свежей резервной копии,
// извлеченное из имен файлов в каталоге. nil означает, что копий нет.
func (s *BackupService) LatestBackupTime() (*time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read backup directory", Err: err}
	}

	var latest *time.Time
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
		parsed, err := time.ParseInLocation(backupTimeLayout, stamp, time.Local)
		if err != nil {
			continue
		}

		if latest == nil || parsed.After(*latest) {
			latest = &parsed
		}
	}

	return latest, nil
}

// ShouldRemind сообщает, пора ли напомнить о резервной копии:
// копий нет вообще или последней больше семи дней.
// Чистая функция без побочных эффектов.
func ShouldRemind(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) > backupReminderAge
}
