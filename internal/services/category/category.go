// Package category содержит бизнес-логику управления категориями подписок.
package category

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subminder/internal/models"
)

// CategoryRepository определяет методы для работы с категориями в хранилище.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category models.Category) (int, error)
	ListCategories(ctx context.Context, username string) ([]*models.Category, error)
}

// Service реализует бизнес-логику работы с категориями.
type Service struct {
	repo CategoryRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo CategoryRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create добавляет приватную категорию пользователя и возвращает её ID.
func (s *Service) Create(ctx context.Context, username string, req models.DummyCategory) (int, error) {
	category := models.Category{
		Name:      req.Name,
		IsDigital: *req.IsDigital,
		Username:  &username,
	}
	id, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new category", slog.Int("id", id), slog.String("username", username))
	return id, nil
}

// List возвращает общие категории вместе с приватными категориями пользователя.
func (s *Service) List(ctx context.Context, username string) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx, username)
}
