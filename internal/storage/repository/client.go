// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clientbase/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ClientRepository реализует интерфейс для работы с клиентами
type ClientRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewClientRepository создает новый репозиторий клиентов
func NewClientRepository(db *bun.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// AddClient добавляет нового клиента и возвращает его идентификатор.
// Непустой phone нормализуется и добавляется в той же транзакции:
// клиент и телефон сохраняются вместе или не сохраняются вовсе.
func (r *ClientRepository) AddClient(name, surname, email, phone string) (int64, error) {
	ctx := context.Background()

	client := &model.Client{
		Name:    strings.TrimSpace(name),
		Surname: strings.TrimSpace(surname),
		Email:   strings.TrimSpace(email),
	}

	if err := client.Validate(); err != nil {
		return 0, err
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(client).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}

		if phone != "" {
			p := &model.Phone{
				ClientID: client.ID,
				Phone:    model.NormalizePhone(phone),
			}
			if _, err := tx.NewInsert().
				Model(p).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert phone: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Client added",
		zap.Int64("client_id", client.ID),
		zap.String("email", client.Email))

	return client.ID, nil
}

// AddPhone добавляет телефон клиенту и возвращает идентификатор записи.
// Дубликат номера или несуществующий клиент приводят к ошибке ограничения
// базы данных, которая возвращается вызывающему без преобразования.
func (r *ClientRepository) AddPhone(clientID int64, phone string) (int64, error) {
	ctx := context.Background()

	if err := model.ValidateClientID(clientID); err != nil {
		return 0, err
	}
	if err := model.ValidateRequiredString("phone", phone); err != nil {
		return 0, err
	}

	p := &model.Phone{
		ClientID: clientID,
		Phone:    model.NormalizePhone(phone),
	}

	if _, err := r.db.NewInsert().
		Model(p).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to insert phone: %w", err)
	}

	r.logger.Info("Phone added",
		zap.Int64("client_id", clientID),
		zap.String("phone", p.Phone))

	return p.ID, nil
}

// DelPhone удаляет телефон клиента. Номер нормализуется перед поиском.
// Отсутствующий номер не считается ошибкой: удаление уже удаленного
// телефона ничего не делает.
func (r *ClientRepository) DelPhone(clientID int64, phone string) error {
	ctx := context.Background()

	if err := model.ValidateClientID(clientID); err != nil {
		return err
	}
	if err := model.ValidateRequiredString("phone", phone); err != nil {
		return err
	}

	normalized := model.NormalizePhone(phone)

	res, err := r.db.NewDelete().
		Model((*model.Phone)(nil)).
		Where("client_id = ?", clientID).
		Where("phone = ?", normalized).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		r.logger.Debug("Phone not found, nothing to delete",
			zap.Int64("client_id", clientID),
			zap.String("phone", normalized))
		return nil
	}

	r.logger.Info("Phone deleted",
		zap.Int64("client_id", clientID),
		zap.String("phone", normalized))

	return nil
}

// PhoneID возвращает идентификатор телефона клиента по точному совпадению
// нормализованного номера. Отсутствие записи не является ошибкой.
func (r *ClientRepository) PhoneID(clientID int64, phone string) (int64, bool, error) {
	ctx := context.Background()

	var id int64
	err := r.db.NewSelect().
		Model((*model.Phone)(nil)).
		Column("id").
		Where("client_id = ?", clientID).
		Where("phone = ?", model.NormalizePhone(phone)).
		Limit(1).
		Scan(ctx, &id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to query phone: %w", err)
	}

	return id, true, nil
}

// DelClient удаляет клиента. Телефоны удаляются каскадно на уровне базы.
func (r *ClientRepository) DelClient(clientID int64) error {
	ctx := context.Background()

	if err := model.ValidateClientID(clientID); err != nil {
		return err
	}

	exists, err := r.db.NewSelect().
		Model((*model.Client)(nil)).
		Where("id = ?", clientID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check client existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("client %d: %w", clientID, model.ErrNotFound)
	}

	if _, err := r.db.NewDelete().
		Model((*model.Client)(nil)).
		Where("id = ?", clientID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	r.logger.Info("Client deleted", zap.Int64("client_id", clientID))

	return nil
}

// UpdateClient применяет частичное обновление клиента. Изменяются только
// переданные скалярные поля; непустой список Phones полностью заменяет
// набор телефонов. Обе части выполняются в одной транзакции.
func (r *ClientRepository) UpdateClient(clientID int64, update model.ClientUpdate) error {
	ctx := context.Background()

	if err := model.ValidateClientID(clientID); err != nil {
		return err
	}
	if err := update.Validate(); err != nil {
		return err
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if update.Name != nil || update.Surname != nil || update.Email != nil {
			q := tx.NewUpdate().
				Model((*model.Client)(nil)).
				Where("id = ?", clientID)

			if update.Name != nil {
				q = q.Set("name = ?", strings.TrimSpace(*update.Name))
			}
			if update.Surname != nil {
				q = q.Set("surname = ?", strings.TrimSpace(*update.Surname))
			}
			if update.Email != nil {
				q = q.Set("email = ?", strings.TrimSpace(*update.Email))
			}

			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to update client: %w", err)
			}
		}

		if update.Phones != nil {
			if _, err := tx.NewDelete().
				Model((*model.Phone)(nil)).
				Where("client_id = ?", clientID).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete phones: %w", err)
			}

			phones := make([]model.Phone, 0, len(update.Phones))
			for _, phone := range update.Phones {
				phones = append(phones, model.Phone{
					ClientID: clientID,
					Phone:    model.NormalizePhone(phone),
				})
			}

			if _, err := tx.NewInsert().
				Model(&phones).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert phones: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Client updated", zap.Int64("client_id", clientID))

	return nil
}

// FindClients возвращает идентификаторы клиентов, подходящих под фильтр.
// Nil-критерий не ограничивает выборку; телефон нормализуется и ищется
// через подзапрос к таблице телефонов. Пустой результат не является
// ошибкой, порядок определяется базой данных.
func (r *ClientRepository) FindClients(filter model.ClientFilter) ([]int64, error) {
	ctx := context.Background()

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := r.db.NewSelect().
		Model((*model.Client)(nil)).
		Column("id")

	if filter.Name != nil {
		q = q.Where("name = ?", *filter.Name)
	}
	if filter.Surname != nil {
		q = q.Where("surname = ?", *filter.Surname)
	}
	if filter.Email != nil {
		q = q.Where("email = ?", *filter.Email)
	}
	if filter.Phone != nil {
		q = q.Where("id IN (SELECT client_id FROM phones WHERE phone = ?)",
			model.NormalizePhone(*filter.Phone))
	}

	ids := make([]int64, 0)
	if err := q.Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}

	r.logger.Debug("Clients found", zap.Int("count", len(ids)))

	return ids, nil
}
