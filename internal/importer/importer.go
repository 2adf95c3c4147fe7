// Package importer содержит конвейер импорта JSON-записей.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ImportRecord представляет одну запись файла импорта
type ImportRecord struct {
	Model  string         `json:"model"`
	Fields map[string]any `json:"fields"`
}

// tables сопоставляет тег модели имени таблицы. Сравнение тегов
// регистрозависимое; неизвестные теги пропускаются без ошибки.
var tables = map[string]string{
	"publisher": "publisher",
	"shop":      "shop",
	"book":      "book",
	"stock":     "stock",
	"sale":      "sale",
}

// Importer загружает записи в базу данных
type Importer struct {
	db     *bun.DB
	logger *zap.Logger
}

// New создает новый импортер
func New(db *bun.DB, logger *zap.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger,
	}
}

// ReadRecords читает записи из JSON-файла
func ReadRecords(path string) ([]ImportRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var records []ImportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	return records, nil
}

// ImportRecords загружает записи одной транзакцией с единственным коммитом
// в конце. Ошибка любой записи откатывает весь пакет: частичный импорт
// невозможен.
func (i *Importer) ImportRecords(ctx context.Context, records []ImportRecord) error {
	err := i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, record := range records {
			table, ok := tables[record.Model]
			if !ok {
				i.logger.Debug("Skipping unknown model tag",
					zap.String("model", record.Model))
				continue
			}

			if err := upsert(ctx, tx, table, record.Fields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}

	i.logger.Info("Import finished", zap.Int("records", len(records)))

	return nil
}

// ImportFile читает JSON-файл и загружает его записи
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	records, err := ReadRecords(path)
	if err != nil {
		return err
	}
	return i.ImportRecords(ctx, records)
}
