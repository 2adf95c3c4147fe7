// Package model содержит валидаторы для моделей.
//
// Группа: BASE - Базовые компоненты
// Содержит: ValidationError, ValidationErrors, валидаторы
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе
var ErrNotFound = errors.New("not found")

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

// ValidateClientID проверяет, что идентификатор клиента положительный
func ValidateClientID(id int64) error {
	if id <= 0 {
		return ValidationError{Field: "client_id", Message: "must be a positive integer"}
	}
	return nil
}

// ValidateRequiredString проверяет, что строка не пустая
func ValidateRequiredString(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Message: "cannot be an empty string"}
	}
	return nil
}

// ValidateOptionalString проверяет необязательную строку: nil допустим,
// переданное значение не может быть пустым
func ValidateOptionalString(field string, value *string) error {
	if value == nil {
		return nil
	}
	return ValidateRequiredString(field, *value)
}

// ValidateEmail проверяет, что email не пустой и содержит символ @
func ValidateEmail(email string) error {
	if email == "" {
		return ValidationError{Field: "email", Message: "cannot be an empty string"}
	}
	if !strings.Contains(email, "@") {
		return ValidationError{Field: "email", Message: "must contain the @ symbol"}
	}
	return nil
}

// ValidateOptionalEmail проверяет необязательный email
func ValidateOptionalEmail(email *string) error {
	if email == nil {
		return nil
	}
	return ValidateEmail(*email)
}

// ValidatePhones проверяет список телефонов: nil допустим (телефоны не
// переданы), пустой список и пустые номера недопустимы
func ValidatePhones(phones []string) error {
	if phones == nil {
		return nil
	}

	if len(phones) == 0 {
		return ValidationError{Field: "phones", Message: "list cannot be empty"}
	}

	for _, phone := range phones {
		if phone == "" {
			return ValidationError{Field: "phones", Message: "phone must be a non-empty string"}
		}
	}

	return nil
}
