package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// CreateCategory вставляет новую приватную категорию пользователя и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, category models.Category) (int, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO categories (name, is_digital, username)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		category.Name, category.IsDigital, category.Username).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCategories возвращает общие категории вместе с приватными категориями пользователя.
func (s *Storage) ListCategories(ctx context.Context, username string) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, is_digital, username
			  FROM categories
			  WHERE username IS NULL OR username = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.IsDigital, &item.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
