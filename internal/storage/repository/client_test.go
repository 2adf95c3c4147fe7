package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"clientbase/internal/model"
	"clientbase/internal/storage"
	"clientbase/internal/storage/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// Одно соединение, чтобы in-memory база жила все время теста
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	// Каскадное удаление телефонов требует включенных внешних ключей
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, storage.CreateSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newTestRepo(t *testing.T) *repository.ClientRepository {
	t.Helper()
	return repository.NewClientRepository(newTestDB(t), zap.NewNop())
}

func strPtr(s string) *string {
	return &s
}

func TestAddClient_FindByEmail(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)
	assert.Positive(t, id)

	ids, err := repo.FindClients(model.ClientFilter{Email: strPtr("ivan@example.com")})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)
}

func TestAddClient_TrimsFields(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("  Ivan ", " Petrov ", " ivan@example.com ", "")
	require.NoError(t, err)

	ids, err := repo.FindClients(model.ClientFilter{
		Name:  strPtr("Ivan"),
		Email: strPtr("ivan@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)
}

func TestAddClient_ValidationFailures(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name string
		args [3]string
	}{
		{name: "empty name", args: [3]string{"", "Petrov", "ivan@example.com"}},
		{name: "whitespace name", args: [3]string{"   ", "Petrov", "ivan@example.com"}},
		{name: "empty surname", args: [3]string{"Ivan", "", "ivan@example.com"}},
		{name: "empty email", args: [3]string{"Ivan", "Petrov", ""}},
		{name: "email without at symbol", args: [3]string{"Ivan", "Petrov", "ivan.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.AddClient(tt.args[0], tt.args[1], tt.args[2], "")
			assert.Error(t, err)
			assert.True(t, model.IsValidationError(err))
		})
	}

	// Ни одна из отклоненных попыток не должна была ничего вставить
	ids, err := repo.FindClients(model.ClientFilter{Surname: strPtr("Petrov")})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAddClient_WithPhone(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "5551234567")
	require.NoError(t, err)

	// Телефон сохранен в нормализованном виде, поиск нормализует запрос
	phoneID, found, err := repo.PhoneID(id, "5551234567")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Positive(t, phoneID)

	ids, err := repo.FindClients(model.ClientFilter{Phone: strPtr("+5551234567")})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)
}

func TestAddClient_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)

	_, err = repo.AddClient("Oleg", "Sidorov", "ivan@example.com", "")
	assert.Error(t, err)
	assert.False(t, model.IsValidationError(err))
}

func TestAddPhone_DuplicatePhone(t *testing.T) {
	repo := newTestRepo(t)

	first, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)
	second, err := repo.AddClient("Oleg", "Sidorov", "oleg@example.com", "")
	require.NoError(t, err)

	_, err = repo.AddPhone(first, "5551234567")
	require.NoError(t, err)

	// Уникальность номера глобальная, а не в рамках одного клиента
	_, err = repo.AddPhone(second, "+5551234567")
	assert.Error(t, err)
}

func TestAddPhone_InvalidInput(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddPhone(0, "5551234567")
	assert.True(t, model.IsValidationError(err))

	_, err = repo.AddPhone(1, "")
	assert.True(t, model.IsValidationError(err))
}

func TestDelPhone_RemovesRow(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "5551234567")
	require.NoError(t, err)

	require.NoError(t, repo.DelPhone(id, "5551234567"))

	_, found, err := repo.PhoneID(id, "5551234567")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDelPhone_MissingIsNoop(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)

	assert.NoError(t, repo.DelPhone(id, "5551234567"))
}

func TestDelClient_CascadesPhones(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewClientRepository(db, zap.NewNop())

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)
	_, err = repo.AddPhone(id, "5551234567")
	require.NoError(t, err)

	require.NoError(t, repo.DelClient(id))

	count, err := db.NewSelect().
		Model((*model.Phone)(nil)).
		Where("client_id = ?", id).
		Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDelClient_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.DelClient(12345)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = repo.DelClient(-1)
	assert.True(t, model.IsValidationError(err))
}

func TestUpdateClient_PartialScalar(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateClient(id, model.ClientUpdate{
		Surname: strPtr("Sidorov"),
	}))

	// Имя и email не изменились
	ids, err := repo.FindClients(model.ClientFilter{
		Name:    strPtr("Ivan"),
		Surname: strPtr("Sidorov"),
		Email:   strPtr("ivan@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)
}

func TestUpdateClient_ReplacesPhones(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.AddClient("Ivan", "Petrov", "ivan@example.com", "5551234567")
	require.NoError(t, err)
	_, err = repo.AddPhone(id, "5559876543")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateClient(id, model.ClientUpdate{
		Phones: []string{"74951112233"},
	}))

	// Старые номера заменены целиком
	_, found, err := repo.PhoneID(id, "5551234567")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = repo.PhoneID(id, "+74951112233")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdateClient_NoFields(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateClient(1, model.ClientUpdate{})
	assert.True(t, model.IsValidationError(err))
}

func TestFindClients_NoCriteria(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindClients(model.ClientFilter{})
	assert.True(t, model.IsValidationError(err))
}

func TestFindClients_MultipleMatches(t *testing.T) {
	repo := newTestRepo(t)

	first, err := repo.AddClient("Anna", "Belova", "a@x.com", "")
	require.NoError(t, err)
	second, err := repo.AddClient("Anna", "Ceslova", "c@x.com", "")
	require.NoError(t, err)

	ids, err := repo.FindClients(model.ClientFilter{Name: strPtr("Anna")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first, second}, ids)
}

func TestFindClients_NoMatchesIsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddClient("Anna", "Belova", "a@x.com", "")
	require.NoError(t, err)

	ids, err := repo.FindClients(model.ClientFilter{Email: strPtr("zzz@x.com")})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
