package models

// Ключи настроек, влияющие на тип записи в журнале аудита
const (
	SettingLanguage = "language"
	SettingTheme    = "theme"
)

// Setting представляет сохраненную настройку приложения.
// Настройки лежат в той же базе, что и инвентарь, поэтому
// попадают в резервные копии и журнал аудита наравне с данными.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value" gorm:"not null;default:''"`
}
