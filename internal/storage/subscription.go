package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// CreateEntry вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) (int, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (service_name, description, price, currency, frequency,
			      category_id, username, start_date, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.ServiceName, entry.Description, entry.Price, entry.Currency, entry.Frequency,
		entry.CategoryID, entry.Username, entry.StartDate, entry.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemoveEntry удаляет подписку пользователя по ID и возвращает количество удалённых строк.
// Чужие подписки не затрагиваются: условие по username входит в запрос.
func (s *Storage) RemoveEntry(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.RemoveEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND username = $2`
	result, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadEntry возвращает подписку пользователя по её ID вместе с категорией.
func (s *Storage) ReadEntry(ctx context.Context, id int, username string) (*models.EntryWithCategory, error) {
	const op = "storage.ReadEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.service_name, s.description, s.price, s.currency, s.frequency,
			      s.category_id, s.username, s.start_date, s.is_active, c.name, c.is_digital
			  FROM subscriptions s
			  LEFT JOIN categories c ON c.id = s.category_id
			  WHERE s.id = $1 AND s.username = $2`
	row := s.DB.QueryRowContext(ctx, query, id, username)

	result, err := scanEntryWithCategory(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEntry обновляет данные подписки пользователя по её ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateEntry(ctx context.Context, entry models.Entry, id int, username string) (int, error) {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET service_name = $1, description = $2, price = $3, currency = $4, frequency = $5,
			      category_id = $6, start_date = $7, is_active = $8
			  WHERE id = $9 AND username = $10`
	result, err := s.DB.ExecContext(ctx, query,
		entry.ServiceName, entry.Description, entry.Price, entry.Currency, entry.Frequency,
		entry.CategoryID, entry.StartDate, entry.IsActive, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int(rowsAffected), nil
}

// ListEntries возвращает все подписки пользователя вместе с категориями.
func (s *Storage) ListEntries(ctx context.Context, username string) ([]*models.EntryWithCategory, error) {
	const op = "storage.ListEntries"
	return s.listEntries(ctx, op,
		`SELECT s.id, s.service_name, s.description, s.price, s.currency, s.frequency,
		     s.category_id, s.username, s.start_date, s.is_active, c.name, c.is_digital
		 FROM subscriptions s
		 LEFT JOIN categories c ON c.id = s.category_id
		 WHERE s.username = $1
		 ORDER BY s.id`, username)
}

// ListActiveEntries возвращает активные подписки пользователя вместе с категориями.
// Используется агрегатором статистики.
func (s *Storage) ListActiveEntries(ctx context.Context, username string) ([]*models.EntryWithCategory, error) {
	const op = "storage.ListActiveEntries"
	return s.listEntries(ctx, op,
		`SELECT s.id, s.service_name, s.description, s.price, s.currency, s.frequency,
		     s.category_id, s.username, s.start_date, s.is_active, c.name, c.is_digital
		 FROM subscriptions s
		 LEFT JOIN categories c ON c.id = s.category_id
		 WHERE s.username = $1 AND s.is_active = true
		 ORDER BY s.id`, username)
}

func (s *Storage) listEntries(ctx context.Context, op, query string, args ...any) ([]*models.EntryWithCategory, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.EntryWithCategory
	for rows.Next() {
		item, err := scanEntryWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllActiveEntries возвращает все активные подписки системы вместе с владельцами.
// Используется планировщиком напоминаний.
func (s *Storage) ListAllActiveEntries(ctx context.Context) ([]*models.EntryWithUser, error) {
	const op = "storage.ListAllActiveEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.service_name, s.price, s.currency, s.frequency,
			      s.username, s.start_date, u.email
			  FROM subscriptions s
			  JOIN users u ON u.username = s.username
			  WHERE s.is_active = true
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.EntryWithUser
	for rows.Next() {
		var item models.EntryWithUser
		if err := rows.Scan(&item.ID, &item.ServiceName, &item.Price, &item.Currency,
			&item.Frequency, &item.Username, &item.StartDate, &item.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.IsActive = true
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntryWithCategory(row rowScanner) (*models.EntryWithCategory, error) {
	var item models.EntryWithCategory
	var categoryName sql.NullString
	var isDigital sql.NullBool
	if err := row.Scan(&item.ID, &item.ServiceName, &item.Description, &item.Price,
		&item.Currency, &item.Frequency, &item.CategoryID, &item.Username,
		&item.StartDate, &item.IsActive, &categoryName, &isDigital); err != nil {
		return nil, err
	}
	if categoryName.Valid {
		item.CategoryName = categoryName.String
	}
	if isDigital.Valid {
		item.IsDigital = isDigital.Bool
	}
	return &item, nil
}
