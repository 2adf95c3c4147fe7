// Package model содержит модели книжного магазина.
//
// Группа: ENTITIES - Сущности импорта
// Содержит: Publisher, Book, Shop, Stock, Sale, BookstoreRepository
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Publisher представляет издателя
type Publisher struct {
	bun.BaseModel `bun:"table:publisher"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// Book представляет книгу
type Book struct {
	bun.BaseModel `bun:"table:book"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	IDPublisher int64  `bun:"id_publisher" json:"id_publisher"`

	// Связи
	Publisher *Publisher `bun:"rel:belongs-to,join:id_publisher=id" json:"publisher,omitempty"`
}

// Shop представляет магазин
type Shop struct {
	bun.BaseModel `bun:"table:shop"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// Stock представляет остаток книги в магазине
type Stock struct {
	bun.BaseModel `bun:"table:stock"`

	ID     int64 `bun:"id,pk,autoincrement" json:"id"`
	IDBook int64 `bun:"id_book" json:"id_book"`
	IDShop int64 `bun:"id_shop" json:"id_shop"`
	Count  int64 `bun:"count,notnull" json:"count"`

	Book *Book `bun:"rel:belongs-to,join:id_book=id" json:"book,omitempty"`
	Shop *Shop `bun:"rel:belongs-to,join:id_shop=id" json:"shop,omitempty"`
}

// Sale представляет продажу
type Sale struct {
	bun.BaseModel `bun:"table:sale"`

	ID       int64     `bun:"id,pk,autoincrement" json:"id"`
	Price    float64   `bun:"price" json:"price"`
	DateSale time.Time `bun:"date_sale" json:"date_sale"`
	Count    int64     `bun:"count,notnull" json:"count"`
	IDStock  int64     `bun:"id_stock" json:"id_stock"`

	Stock *Stock `bun:"rel:belongs-to,join:id_stock=id" json:"stock,omitempty"`
}

// PublisherSale представляет строку отчёта о продажах книг издателя
type PublisherSale struct {
	Title    string    `bun:"title" json:"title"`
	Shop     string    `bun:"shop" json:"shop"`
	Price    float64   `bun:"price" json:"price"`
	DateSale time.Time `bun:"date_sale" json:"date_sale"`
}

// BookstoreRepository определяет интерфейс для отчётов книжного магазина
type BookstoreRepository interface {
	PublisherByNameOrID(ref string) (*Publisher, error)
	SalesByPublisher(publisherID int64) ([]PublisherSale, error)
}
