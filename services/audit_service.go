package services

import (
	"strings"
	"time"

	"inventar-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultQueryLimit ограничение выборки журнала по умолчанию
const defaultQueryLimit = 1000

// AuditService пишет и читает журнал аудита.
// Запись всегда выполняется синхронно в транзакции вызывающего:
// запись журнала фиксируется или откатывается вместе с изменением данных.
type AuditService struct {
	db   *gorm.DB
	log  *logrus.Logger
	feed *AuditFeed
}

// NewAuditService создает новый экземпляр AuditService.
// feed может быть nil, тогда рассылка событий отключена.
func NewAuditService(db *gorm.DB, log *logrus.Logger, feed *AuditFeed) *AuditService {
	return &AuditService{db: db, log: log, feed: feed}
}

// Log добавляет запись в журнал аудита внутри транзакции tx.
// Все проверки входных данных выполняются до первой записи в журнал,
// поэтому откат транзакции после Log возможен только при ошибке хранилища.
func (s *AuditService) Log(tx *gorm.DB, entry models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := tx.Create(&entry).Error; err != nil {
		s.log.WithFields(logrus.Fields{
			"action":      entry.Action,
			"entity_type": entry.EntityType,
			"entity":      entry.EntityName,
			"outcome":     "error",
		}).Errorf("audit write failed: %v", err)
		return &StorageError{Op: "write audit log", Err: err}
	}

	fields := logrus.Fields{
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity":      entry.EntityName,
		"outcome":     "ok",
	}
	if entry.EntityID != nil {
		fields["entity_id"] = *entry.EntityID
	}
	s.log.WithFields(fields).Info(entry.Details)

	if s.feed != nil {
		s.feed.Publish(entry)
	}

	return nil
}

// Record добавляет запись вне чужой транзакции (служебные события:
// STARTUP, SHUTDOWN, BACKUP, EXPORT)
func (s *AuditService) Record(entry models.AuditLog) error {
	return s.Log(s.db, entry)
}

// AuditFilter параметры выборки журнала аудита
type AuditFilter struct {
	Action     string
	EntityType string
	Search     string // Подстрока имени сущности, без учета регистра
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Query возвращает записи журнала, новые сверху.
// Чтение журнала само в журнал не попадает.
func (s *AuditService) Query(f AuditFilter) ([]models.AuditLog, error) {
	query := s.db.Model(&models.AuditLog{})

	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		query = query.Where("LOWER(entity_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if f.From != nil {
		query = query.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("timestamp <= ?", *f.To)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	var logs []models.AuditLog
	if err := query.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, &StorageError{Op: "query audit log", Err: err}
	}

	return logs, nil
}

// CountsByAction возвращает количество записей журнала по каждому действию
func (s *AuditService) CountsByAction() (map[string]int64, error) {
	type actionCount struct {
		Action string
		Count  int64
	}

	var rows []actionCount
	if err := s.db.Model(&models.AuditLog{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, &StorageError{Op: "count audit log", Err: err}
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}

	return counts, nil
}
