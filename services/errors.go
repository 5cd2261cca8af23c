package services

import (
	"fmt"
	"strings"
)

// ValidationError означает, что входные данные не прошли проверку
// (пустое имя, превышение длины, неположительное количество)
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NotFoundError означает, что сущность с указанным ID не существует
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// MissingColumnsError означает, что в CSV отсутствуют обязательные колонки.
// Это структурная ошибка: импорт прерывается целиком.
type MissingColumnsError struct {
	Required []string
	Found    []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("csv must contain headers: %s; found: %s",
		strings.Join(e.Required, ", "), strings.Join(e.Found, ", "))
}

// ImportAbortedError означает попытку зафиксировать импорт,
// в котором остались строки с ошибками
type ImportAbortedError struct {
	ErrorRows int
}

func (e *ImportAbortedError) Error() string {
	return fmt.Sprintf("import aborted: %d row(s) with errors", e.ErrorRows)
}

// StorageError оборачивает ошибку хранилища или файловой системы
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
