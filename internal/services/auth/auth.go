// Package auth содержит бизнес-логику регистрации, входа
// и проверки JWT токенов пользователей.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/subminder/internal/lib/jwt"
	"github.com/magabrotheeeer/subminder/internal/lib/password"
	"github.com/magabrotheeeer/subminder/internal/models"
)

// defaultDisplayCurrency присваивается новым пользователям без явной валюты.
const defaultDisplayCurrency = "USD"

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service реализует бизнес-логику аутентификации.
type Service struct {
	repo     UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// RegisterUser регистрирует нового пользователя: хеширует пароль,
// присваивает роль user и возвращает UID.
func (s *Service) RegisterUser(ctx context.Context, req models.DummyRegister) (string, error) {
	const op = "auth.RegisterUser"

	passwordHash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	displayCurrency := req.DisplayCurrency
	if displayCurrency == "" {
		displayCurrency = defaultDisplayCurrency
	}

	user := models.User{
		Email:           req.Email,
		Username:        req.Username,
		PasswordHash:    passwordHash,
		Role:            "user",
		DisplayCurrency: displayCurrency,
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("username", req.Username))
	return uid, nil
}

// LoginUser проверяет пароль пользователя и возвращает подписанный JWT токен.
func (s *Service) LoginUser(ctx context.Context, req models.DummyLogin) (string, error) {
	const op = "auth.LoginUser"

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет подпись и срок действия токена,
// возвращая claims с данными пользователя.
func (s *Service) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}
