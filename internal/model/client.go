// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Client, Phone, ClientRepository
package model

import (
	"github.com/uptrace/bun"
)

// Client представляет клиента
type Client struct {
	bun.BaseModel `bun:"table:clients"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	Name    string `bun:"name,notnull" json:"name"`
	Surname string `bun:"surname,notnull" json:"surname"`
	Email   string `bun:"email,notnull,unique" json:"email"`

	// Связи
	Phones []Phone `bun:"rel:has-many,join:id=client_id" json:"phones,omitempty"`
}

// Validate проверяет валидность клиента
func (c *Client) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequiredString("name", c.Name); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequiredString("surname", c.Surname); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateEmail(c.Email); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// Phone представляет телефон клиента. Номер хранится только
// в каноническом виде с ведущим «+» (см. NormalizePhone).
type Phone struct {
	bun.BaseModel `bun:"table:phones"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	ClientID int64  `bun:"client_id,notnull" json:"client_id"`
	Phone    string `bun:"phone,unique" json:"phone"`

	Client *Client `bun:"rel:belongs-to,join:client_id=id" json:"client,omitempty"`
}

// ClientUpdate представляет частичное обновление клиента.
// Nil-поле не изменяется. Непустой срез Phones полностью заменяет
// набор телефонов клиента; nil оставляет телефоны как есть.
type ClientUpdate struct {
	Name    *string
	Surname *string
	Email   *string
	Phones  []string
}

// Validate проверяет, что обновление содержит хотя бы одно поле
// и все переданные значения допустимы
func (u ClientUpdate) Validate() error {
	if u.Name == nil && u.Surname == nil && u.Email == nil && u.Phones == nil {
		return ValidationError{Field: "update", Message: "at least one field must be provided"}
	}

	var errors ValidationErrors

	if err := ValidateOptionalString("name", u.Name); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateOptionalString("surname", u.Surname); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateOptionalEmail(u.Email); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidatePhones(u.Phones); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ClientFilter представляет критерии поиска клиентов.
// Nil-критерий не участвует в фильтрации; остальные сравниваются
// на точное равенство.
type ClientFilter struct {
	Name    *string
	Surname *string
	Email   *string
	Phone   *string
}

// Validate проверяет, что задан хотя бы один критерий поиска
func (f ClientFilter) Validate() error {
	if f.Name == nil && f.Surname == nil && f.Email == nil && f.Phone == nil {
		return ValidationError{Field: "filter", Message: "at least one search criterion must be provided"}
	}

	var errors ValidationErrors

	if err := ValidateOptionalString("name", f.Name); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateOptionalString("surname", f.Surname); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateOptionalString("email", f.Email); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateOptionalString("phone", f.Phone); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ClientRepository определяет интерфейс для работы с клиентами
type ClientRepository interface {
	AddClient(name, surname, email, phone string) (int64, error)
	AddPhone(clientID int64, phone string) (int64, error)
	DelPhone(clientID int64, phone string) error
	PhoneID(clientID int64, phone string) (int64, bool, error)
	DelClient(clientID int64) error
	UpdateClient(clientID int64, update ClientUpdate) error
	FindClients(filter ClientFilter) ([]int64, error)
}
