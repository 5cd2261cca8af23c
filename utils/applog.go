package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger создает логгер приложения: структурированные записи
// пишутся одновременно в stdout и в файл logs/inventar_<дата>.log.
// Каталог берется из LOG_DIR, по умолчанию "logs".
// Если файл открыть не удалось, логгер работает только в stdout.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warnf("Failed to create log directory: %v", err)
		return logger
	}

	filename := filepath.Join(dir, fmt.Sprintf("inventar_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Warnf("Failed to open log file: %v", err)
		return logger
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return logger
}
