// Package repository содержит репозиторий отчётов книжного магазина.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"clientbase/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BookstoreRepository реализует отчёты по схеме книжного магазина
type BookstoreRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBookstoreRepository создает новый репозиторий книжного магазина
func NewBookstoreRepository(db *bun.DB, logger *zap.Logger) *BookstoreRepository {
	return &BookstoreRepository{
		db:     db,
		logger: logger,
	}
}

// PublisherByNameOrID возвращает издателя по имени или идентификатору.
// Числовая строка сравнивается и с идентификатором, и с именем.
func (r *BookstoreRepository) PublisherByNameOrID(ref string) (*model.Publisher, error) {
	ctx := context.Background()
	publisher := new(model.Publisher)

	q := r.db.NewSelect().
		Model(publisher)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		q = q.Where("name = ?", ref).
			WhereOr("id = ?", id)
	} else {
		q = q.Where("name = ?", ref)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("publisher %q: %w", ref, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query publisher: %w", err)
	}

	return publisher, nil
}

// SalesByPublisher возвращает продажи всех книг издателя: название книги,
// магазин, цену и дату продажи
func (r *BookstoreRepository) SalesByPublisher(publisherID int64) ([]model.PublisherSale, error) {
	ctx := context.Background()

	var sales []model.PublisherSale
	err := r.db.NewSelect().
		TableExpr("book AS b").
		ColumnExpr("b.title AS title").
		ColumnExpr("s.name AS shop").
		ColumnExpr("sa.price AS price").
		ColumnExpr("sa.date_sale AS date_sale").
		Join("JOIN stock AS st ON st.id_book = b.id").
		Join("JOIN shop AS s ON s.id = st.id_shop").
		Join("JOIN sale AS sa ON sa.id_stock = st.id").
		Where("b.id_publisher = ?", publisherID).
		Order("date_sale ASC").
		Scan(ctx, &sales)
	if err != nil {
		return nil, fmt.Errorf("failed to query publisher sales: %w", err)
	}

	r.logger.Debug("Publisher sales found",
		zap.Int64("publisher_id", publisherID),
		zap.Int("count", len(sales)))

	return sales, nil
}
