package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// UpsertRates атомарно сохраняет таблицу валютных курсов: по строке на валюту,
// все записи в одной транзакции. При ошибке транзакция откатывается целиком,
// частично обновлённая таблица в базе не остаётся.
func (s *Storage) UpsertRates(ctx context.Context, table models.RateTable) error {
	const op = "storage.UpsertRates"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO exchange_rates (currency, rate, updated_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (currency)
			  DO UPDATE SET rate = EXCLUDED.rate, updated_at = now()`
	for currency, rate := range table {
		if _, err := tx.ExecContext(ctx, query, currency, rate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListRates возвращает сохранённую таблицу валютных курсов.
// Пустая таблица означает, что курсы ещё ни разу не загружались.
func (s *Storage) ListRates(ctx context.Context) (models.RateTable, error) {
	const op = "storage.ListRates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT currency, rate FROM exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	table := models.RateTable{}
	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		table[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return table, nil
}
