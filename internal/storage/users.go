package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	uid := uuid.New().String()
	query := `INSERT INTO users (uid, email, username, password_hash, role, display_currency)
			  VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := s.DB.ExecContext(ctx, query,
		uid, user.Email, user.Username, user.PasswordHash, user.Role,
		user.DisplayCurrency); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, display_currency
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.DisplayCurrency); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
