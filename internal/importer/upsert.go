// Package importer содержит загрузку JSON-записей в базу данных.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
)

// coerceNumbers приводит строковые значения, выглядящие как числа, к float64.
// Неудачное преобразование молча оставляет исходную строку: вызывающий
// никогда не видит ошибку приведения.
func coerceNumbers(fields map[string]any) map[string]any {
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if !looksNumeric(s) {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			fields[key] = f
		}
	}
	return fields
}

// looksNumeric проверяет, что строка состоит из цифр и содержит
// не более одной точки
func looksNumeric(s string) bool {
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// upsert вставляет запись или обновляет существующую. Существующая запись
// ищется по точному совпадению всех переданных полей: отличие хотя бы
// в одном поле означает вставку новой строки. Повторная загрузка тех же
// данных находит прежнюю строку и перезаписывает ее теми же значениями.
// Коммит выполняет вызывающий.
func upsert(ctx context.Context, db bun.IDB, table string, fields map[string]any) error {
	fields = coerceNumbers(fields)

	// Стабильный порядок условий в запросе
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	q := db.NewSelect().
		Table(table).
		Column("id").
		Limit(1)
	for _, key := range keys {
		q = q.Where("? = ?", bun.Ident(key), fields[key])
	}

	var id int64
	err := q.Scan(ctx, &id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.NewInsert().
			Model(&fields).
			TableExpr(table).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert %s record: %w", table, err)
		}
	case err != nil:
		return fmt.Errorf("failed to match %s record: %w", table, err)
	default:
		if _, err := db.NewUpdate().
			Model(&fields).
			TableExpr(table).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update %s record: %w", table, err)
		}
	}

	return nil
}
