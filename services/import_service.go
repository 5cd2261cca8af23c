package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// Статусы строк предпросмотра импорта
const (
	RowStatusOK              = "OK"
	RowStatusEmptyName       = "EMPTY_NAME"
	RowStatusNameTooLong     = "NAME_TOO_LONG"
	RowStatusInvalidQuantity = "INVALID_QUANTITY"
	RowStatusUnknownBox      = "UNKNOWN_BOX"
)

// importColumns обязательные колонки CSV-файла импорта
var importColumns = []string{"Item Name", "Box", "Quantity"}

// timestampLayout формат времени в CSV-экспорте журнала
const timestampLayout = "2006-01-02 15:04:05"

// ImportRow одна строка предпросмотра импорта
type ImportRow struct {
	Row      int    `json:"row"` // Номер строки в файле, заголовок считается строкой 1
	Name     string `json:"name"`
	BoxName  string `json:"box_name"`
	BoxID    *uint  `json:"box_id"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// ImportPreview отчет предпросмотра: результат первой фазы импорта
type ImportPreview struct {
	Rows          []ImportRow `json:"rows"`
	ValidRows     int         `json:"valid_rows"`
	ErrorRows     int         `json:"error_rows"`
	DistinctBoxes int         `json:"distinct_boxes"`
}

// ImportService выполняет двухфазный импорт из CSV и экспорт в CSV.
// Первая фаза (Preview) ничего не пишет; вторая (Commit) применяет
// весь пакет в одной транзакции либо не применяет ничего.
type ImportService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewImportService создает новый экземпляр ImportService
func NewImportService(db *gorm.DB, audit *AuditService) *ImportService {
	return &ImportService{db: db, audit: audit}
}

// loadBoxIndex строит индекс существующих ящиков по имени в нижнем регистре.
// Сопоставление имен ящиков не чувствительно к регистру: одинаково
// в предпросмотре и при фиксации. Имена ящиков не уникальны; если
// несколько ящиков совпадают по имени без учета регистра, в индексе
// остается последний из них.
func (s *ImportService) loadBoxIndex(tx *gorm.DB) (map[string]uint, error) {
	var boxes []models.Box
	if err := tx.Find(&boxes).Error; err != nil {
		return nil, &StorageError{Op: "load boxes", Err: err}
	}

	index := make(map[string]uint, len(boxes))
	for _, box := range boxes {
		index[strings.ToLower(box.Name)] = box.ID
	}

	return index, nil
}

// Preview разбирает и проверяет CSV, не изменяя базу.
// Ошибки строк собираются в отчет, а не прерывают разбор;
// только отсутствие обязательных колонок прерывает импорт целиком.
// Повторный вызов на том же файле дает идентичный отчет.
func (s *ImportService) Preview(csvText string) (*ImportPreview, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &MissingColumnsError{Required: importColumns, Found: nil}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range importColumns {
		if _, ok := columns[required]; !ok {
			return nil, &MissingColumnsError{Required: importColumns, Found: header}
		}
	}

	boxIndex, err := s.loadBoxIndex(s.db)
	if err != nil {
		return nil, err
	}

	field := func(record []string, name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	preview := &ImportPreview{}
	distinct := make(map[uint]bool)

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &StorageError{Op: "parse csv", Err: err}
		}

		row := ImportRow{
			Row:     rowNum,
			Name:    field(record, "Item Name"),
			BoxName: field(record, "Box"),
			Status:  RowStatusOK,
		}

		quantityStr := field(record, "Quantity")

		// Проверки идут по порядку: имя, ящик, количество.
		// Статус строки определяет первая не прошедшая проверка.
		if row.Name == "" {
			row.Status = RowStatusEmptyName
			row.Message = "Item name is empty"
		} else if len([]rune(row.Name)) > maxNameLength {
			row.Status = RowStatusNameTooLong
			row.Message = fmt.Sprintf("Item name must not exceed %d characters", maxNameLength)
		}

		boxID, boxKnown := boxIndex[strings.ToLower(row.BoxName)]
		if row.BoxName == "" || !boxKnown {
			if row.Status == RowStatusOK {
				row.Status = RowStatusUnknownBox
				row.Message = fmt.Sprintf("Box '%s' does not exist. Create it first.", row.BoxName)
			}
		} else {
			row.BoxID = &boxID
			distinct[boxID] = true
		}

		quantity, err := strconv.Atoi(quantityStr)
		if err != nil || quantity < 1 {
			if row.Status == RowStatusOK {
				row.Status = RowStatusInvalidQuantity
				row.Message = fmt.Sprintf("Invalid quantity '%s' (must be a positive number)", quantityStr)
			}
		} else {
			row.Quantity = quantity
		}

		if row.Status == RowStatusOK {
			preview.ValidRows++
		} else {
			preview.ErrorRows++
		}

		preview.Rows = append(preview.Rows, row)
	}

	preview.DistinctBoxes = len(distinct)

	return preview, nil
}

// Commit применяет принятый предпросмотр: каждая валидная строка
// становится новым предметом. Весь пакет выполняется в одной
// транзакции вместе с записями журнала: по одной CREATE/ITEM на
// предмет плюс одна итоговая IMPORT/INVENTORY.
// Если в отчете остались строки с ошибками, ничего не записывается.
// Пустой файл (заголовок без строк данных) тоже ничего не пишет.
func (s *ImportService) Commit(preview *ImportPreview) (int, error) {
	if preview.ErrorRows > 0 {
		return 0, &ImportAbortedError{ErrorRows: preview.ErrorRows}
	}
	if len(preview.Rows) == 0 {
		return 0, nil
	}

	imported := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Переразрешаем имена ящиков внутри транзакции: между
		// предпросмотром и фиксацией ящик могли удалить
		boxIndex, err := s.loadBoxIndex(tx)
		if err != nil {
			return err
		}

		boxNames := make(map[uint]string)

		for _, row := range preview.Rows {
			boxID, ok := boxIndex[strings.ToLower(row.BoxName)]
			if !ok {
				return &ImportAbortedError{ErrorRows: 1}
			}

			item := models.Item{Name: row.Name, BoxID: boxID, Quantity: row.Quantity}
			if err := tx.Create(&item).Error; err != nil {
				return &StorageError{Op: "import item", Err: err}
			}

			boxName := boxNames[boxID]
			if boxName == "" {
				var box models.Box
				if err := tx.First(&box, boxID).Error; err != nil {
					return &StorageError{Op: "load box", Err: err}
				}
				boxName = box.Name
				boxNames[boxID] = boxName
			}

			if err := s.audit.Log(tx, models.AuditLog{
				Action:     models.ActionCreate,
				EntityType: models.EntityItem,
				EntityID:   &item.ID,
				EntityName: item.Name,
				Details:    fmt.Sprintf("Added %d units to box '%s'", item.Quantity, boxName),
			}); err != nil {
				return err
			}

			imported++
		}

		return s.audit.Log(tx, models.AuditLog{
			Action:     models.ActionImport,
			EntityType: models.EntityInventory,
			Details:    fmt.Sprintf("Imported %d items from CSV", imported),
		})
	})
	if err != nil {
		return 0, err
	}

	return imported, nil
}

// ExportInventoryCSV выгружает все предметы с именами их ящиков.
// Колонки совместимы с форматом импорта: выгрузку можно загрузить
// обратно в базу с теми же ящиками.
func (s *ImportService) ExportInventoryCSV(w io.Writer) (int, error) {
	type exportRow struct {
		ID       uint
		Name     string
		BoxName  string
		Location string
		Quantity int
	}

	var rows []exportRow
	if err := s.db.Model(&models.Item{}).
		Select("items.id AS id, items.name AS name, boxes.name AS box_name, boxes.location AS location, items.quantity AS quantity").
		Joins("LEFT JOIN boxes ON items.box_id = boxes.id").
		Order("items.id").
		Scan(&rows).Error; err != nil {
		return 0, &StorageError{Op: "export inventory", Err: err}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Item Name", "Box", "Location", "Quantity"}); err != nil {
		return 0, &StorageError{Op: "write csv", Err: err}
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Name,
			row.BoxName,
			row.Location,
			strconv.Itoa(row.Quantity),
		}
		if err := writer.Write(record); err != nil {
			return 0, &StorageError{Op: "write csv", Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, &StorageError{Op: "write csv", Err: err}
	}

	if err := s.audit.Record(models.AuditLog{
		Action:     models.ActionExport,
		EntityType: models.EntityInventory,
		Details:    fmt.Sprintf("Exported %d items to CSV", len(rows)),
	}); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// ExportAuditCSV выгружает журнал аудита, новые записи сверху
func (s *ImportService) ExportAuditCSV(w io.Writer) (int, error) {
	var logs []models.AuditLog
	if err := s.db.Order("id DESC").Find(&logs).Error; err != nil {
		return 0, &StorageError{Op: "export audit log", Err: err}
	}

	writer := csv.NewWriter(w)
	header := []string{"ID", "Timestamp", "Action", "Entity Type", "Entity ID", "Entity Name", "Details", "Old Value", "New Value"}
	if err := writer.Write(header); err != nil {
		return 0, &StorageError{Op: "write csv", Err: err}
	}

	for _, entry := range logs {
		entityID := ""
		if entry.EntityID != nil {
			entityID = strconv.FormatUint(uint64(*entry.EntityID), 10)
		}
		oldValue := ""
		if entry.OldValue != nil {
			oldValue = *entry.OldValue
		}
		newValue := ""
		if entry.NewValue != nil {
			newValue = *entry.NewValue
		}

		record := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			entry.Timestamp.Format(timestampLayout),
			entry.Action,
			entry.EntityType,
			entityID,
			entry.EntityName,
			entry.Details,
			oldValue,
			newValue,
		}
		if err := writer.Write(record); err != nil {
			return 0, &StorageError{Op: "write csv", Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, &StorageError{Op: "write csv", Err: err}
	}

	if err := s.audit.Record(models.AuditLog{
		Action:     models.ActionExport,
		EntityType: models.EntityDatabase,
		Details:    fmt.Sprintf("Exported %d audit logs to CSV", len(logs)),
	}); err != nil {
		return 0, err
	}

	return len(logs), nil
}

// TemplateCSV пишет шаблон файла импорта с реальными именами
// существующих ящиков. Только чтение, журнал не трогается.
func (s *ImportService) TemplateCSV(w io.Writer) error {
	var boxes []models.Box
	if err := s.db.Order("name").Find(&boxes).Error; err != nil {
		return &StorageError{Op: "load boxes", Err: err}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(importColumns); err != nil {
		return &StorageError{Op: "write csv", Err: err}
	}

	for _, box := range boxes {
		if err := writer.Write([]string{"Sample Item", box.Name, "1"}); err != nil {
			return &StorageError{Op: "write csv", Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &StorageError{Op: "write csv", Err: err}
	}

	return nil
}
