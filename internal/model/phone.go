// Package model содержит нормализацию телефонных номеров.
package model

import "strings"

// NormalizePhone приводит номер телефона к каноническому виду с ведущим «+».
// Номер, уже начинающийся с «+», возвращается без изменений, поэтому
// повторная нормализация ничего не меняет. Формат номера (10-20 символов)
// проверяется ограничением на уровне базы, а не здесь.
func NormalizePhone(raw string) string {
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	return "+" + raw
}
