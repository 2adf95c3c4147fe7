// Package storage содержит создание схемы базы данных.
package storage

import (
	"context"
	"fmt"

	"clientbase/internal/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// CreateSchema создает все таблицы приложения, если они еще не существуют.
// Внешние ключи задаются явно: удаление клиента каскадно удаляет его телефоны.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		entity      any
		foreignKeys []string
	}{
		{entity: (*model.Client)(nil)},
		{
			entity: (*model.Phone)(nil),
			foreignKeys: []string{
				`("client_id") REFERENCES "clients" ("id") ON DELETE CASCADE`,
			},
		},
		{entity: (*model.Publisher)(nil)},
		{
			entity: (*model.Book)(nil),
			foreignKeys: []string{
				`("id_publisher") REFERENCES "publisher" ("id")`,
			},
		},
		{entity: (*model.Shop)(nil)},
		{
			entity: (*model.Stock)(nil),
			foreignKeys: []string{
				`("id_book") REFERENCES "book" ("id")`,
				`("id_shop") REFERENCES "shop" ("id")`,
			},
		},
		{
			entity: (*model.Sale)(nil),
			foreignKeys: []string{
				`("id_stock") REFERENCES "stock" ("id")`,
			},
		},
	}

	for _, table := range tables {
		q := db.NewCreateTable().
			Model(table.entity).
			IfNotExists()

		for _, fk := range table.foreignKeys {
			q = q.ForeignKey(fk)
		}

		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// CHECK-ограничения задаются только для PostgreSQL: формат номера
	// телефона и неотрицательные количества проверяет сама база
	if db.Dialect().Name() == dialect.PG {
		if err := createCheckConstraints(ctx, db); err != nil {
			return err
		}
	}

	return nil
}

func createCheckConstraints(ctx context.Context, db *bun.DB) error {
	constraints := []struct {
		table string
		name  string
		check string
	}{
		{"phones", "ck_phones_phone_format", `phone ~ '^[0-9+()-]{10,20}$'`},
		{"stock", "ck_stock_count_positive", `count >= 0`},
		{"sale", "ck_sale_count_positive", `count >= 0`},
	}

	for _, c := range constraints {
		query := fmt.Sprintf(
			`DO $$ BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint WHERE conname = '%s'
				) THEN
					ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
				END IF;
			END $$;`,
			c.name, c.table, c.name, c.check,
		)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", c.name, err)
		}
	}

	return nil
}
