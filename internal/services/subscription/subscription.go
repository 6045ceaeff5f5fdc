// Package subscription содержит бизнес-логику для управления подписками,
// кешированием и агрегацией статистики расходов.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subminder/internal/lib/money"
	"github.com/magabrotheeeer/subminder/internal/lib/schedule"
	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/models"
	"github.com/magabrotheeeer/subminder/internal/services/currency"
)

// defaultDisplayCurrency используется, когда у пользователя не задана валюта отображения.
const defaultDisplayCurrency = "USD"

// projectionWindowDays — горизонт прогноза ближайших списаний, включительно.
const projectionWindowDays = 7

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateEntry добавляет новую подписку и возвращает её ID.
	CreateEntry(ctx context.Context, entry models.Entry) (int, error)
	// RemoveEntry удаляет подписку пользователя по ID и возвращает количество удалённых записей.
	RemoveEntry(ctx context.Context, id int, username string) (int, error)
	// ReadEntry возвращает подписку пользователя по ID вместе с категорией.
	ReadEntry(ctx context.Context, id int, username string) (*models.EntryWithCategory, error)
	// UpdateEntry обновляет данные подписки по ID.
	UpdateEntry(ctx context.Context, entry models.Entry, id int, username string) (int, error)
	// ListEntries возвращает все подписки пользователя.
	ListEntries(ctx context.Context, username string) ([]*models.EntryWithCategory, error)
	// ListActiveEntries возвращает активные подписки пользователя.
	ListActiveEntries(ctx context.Context, username string) ([]*models.EntryWithCategory, error)
}

// UserRepository определяет доступ к данным пользователя.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// RatesService определяет доступ к таблице валютных курсов.
type RatesService interface {
	GetRates(ctx context.Context) (models.RateTable, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с подписками.
type Service struct {
	repo  SubscriptionRepository
	users UserRepository
	rates RatesService
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, users UserRepository, rates RatesService, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		rates: rates,
		cache: cache,
		log:   log,
	}
}

// Create создает новую подписку для пользователя, кеширует её и возвращает ID.
func (s *Service) Create(ctx context.Context, username string, req models.DummyEntry) (int, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	entry := entryFromRequest(username, req, startDate)
	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	entry.ID = id
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(cacheKey, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}

	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Чужая или несуществующая подписка даёт ошибку хранилища (sql.ErrNoRows).
func (s *Service) Read(ctx context.Context, id int, username string) (*models.EntryWithCategory, error) {
	var result *models.EntryWithCategory
	cacheKey := fmt.Sprintf("subscription:%d:full", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil && result.Username == username {
		return result, nil
	}

	result, err = s.repo.ReadEntry(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update обновляет подписку и инвалидирует кеш.
// Возвращает количество изменённых записей: 0 означает, что подписка
// не найдена или принадлежит другому пользователю.
func (s *Service) Update(ctx context.Context, req models.DummyEntry, id int, username string) (int, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	entry := entryFromRequest(username, req, startDate)
	count, err := s.repo.UpdateEntry(ctx, entry, id, username)
	if err != nil {
		return 0, err
	}

	s.invalidate(id)
	return count, nil
}

// Remove удаляет подписку по ID и инвалидирует кеш.
func (s *Service) Remove(ctx context.Context, id int, username string) (int, error) {
	s.invalidate(id)

	count, err := s.repo.RemoveEntry(ctx, id, username)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) invalidate(id int) {
	for _, cacheKey := range []string{
		fmt.Sprintf("subscription:%d", id),
		fmt.Sprintf("subscription:%d:full", id),
	} {
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}
}

// ListResult — список подписок пользователя с ценами,
// пересчитанными в валюту отображения.
type ListResult struct {
	Items    []models.ConvertedEntry `json:"items"`
	Currency string                  `json:"currency"`
}

// List возвращает подписки пользователя; цена каждой дополнительно
// приводится к валюте отображения по текущей таблице курсов.
func (s *Service) List(ctx context.Context, username string) (*ListResult, error) {
	displayCurrency, err := s.displayCurrency(ctx, username)
	if err != nil {
		return nil, err
	}

	rateTable, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEntries(ctx, username)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items:    make([]models.ConvertedEntry, 0, len(entries)),
		Currency: displayCurrency,
	}
	for _, entry := range entries {
		converted := currency.Convert(entry.Price, entry.Currency, displayCurrency, rateTable)
		result.Items = append(result.Items, models.ConvertedEntry{
			EntryWithCategory: *entry,
			ConvertedPrice:    money.Round2(converted),
		})
	}
	return result, nil
}

// GetStats собирает сводку расходов пользователя: нормализует цену каждой
// активной подписки, конвертирует её в валюту отображения и сводит всё
// в структуру дашборда. Сводка не хранится и каждый раз выводится заново.
func (s *Service) GetStats(ctx context.Context, username string) (*models.Stats, error) {
	displayCurrency, err := s.displayCurrency(ctx, username)
	if err != nil {
		return nil, err
	}

	rateTable, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListActiveEntries(ctx, username)
	if err != nil {
		return nil, err
	}

	today := schedule.Truncate(time.Now().UTC())
	windowEnd := today.AddDate(0, 0, projectionWindowDays)

	var totalAnnual, totalOneTime float64
	var digitalAnnual, physicalAnnual float64
	var next7DaysAmount float64
	var highestMonthly float64
	var highest *models.HighestRecurringSub
	categoryAnnual := map[string]float64{}

	for _, entry := range entries {
		converted := currency.Convert(entry.Price, entry.Currency, displayCurrency, rateTable)

		if entry.Frequency == models.FrequencyOnce {
			totalOneTime += converted
			continue
		}

		annual := money.AnnualEquivalent(converted, entry.Frequency)
		totalAnnual += annual

		categoryName := entry.CategoryName
		if categoryName == "" {
			categoryName = "Uncategorized"
		}
		categoryAnnual[categoryName] += annual

		if entry.IsDigital {
			digitalAnnual += annual
		} else {
			physicalAnnual += annual
		}

		monthly := money.MonthlyEquivalent(converted, entry.Frequency)
		if highest == nil || monthly > highestMonthly {
			highestMonthly = monthly
			highest = &models.HighestRecurringSub{
				ServiceName: entry.ServiceName,
				Price:       money.Round2(converted),
				Currency:    displayCurrency,
				Frequency:   entry.Frequency,
				MonthlyCost: money.Round2(monthly),
			}
		}

		if next, ok := schedule.NextPaymentDate(entry.StartDate, entry.Frequency, today); ok {
			if !next.Before(today) && !next.After(windowEnd) {
				next7DaysAmount += converted
			}
		}
	}

	var topCategory *models.TopCategory
	var topCost float64
	for _, entry := range entries {
		// Повторный проход по порядку подписок: при равенстве побеждает
		// категория, встреченная первой.
		if entry.Frequency == models.FrequencyOnce {
			continue
		}
		categoryName := entry.CategoryName
		if categoryName == "" {
			categoryName = "Uncategorized"
		}
		cost := categoryAnnual[categoryName]
		if topCategory == nil || cost > topCost {
			topCost = cost
			percentage := 0.0
			if totalAnnual > 0 {
				percentage = money.Round1(cost / totalAnnual * 100)
			}
			topCategory = &models.TopCategory{Name: categoryName, Percentage: percentage}
		}
	}

	digitalPercentage, physicalPercentage := 0.0, 0.0
	if totalAnnual > 0 {
		digitalPercentage = money.Round1(digitalAnnual / totalAnnual * 100)
		physicalPercentage = money.Round1(physicalAnnual / totalAnnual * 100)
	}

	return &models.Stats{
		Summary: models.StatsSummary{
			Daily:             money.Round2(totalAnnual / 365),
			Weekly:            money.Round2(totalAnnual / 52),
			Monthly:           money.Round2(totalAnnual / 12),
			Yearly:            money.Round2(totalAnnual),
			TotalOneTimeSpent: money.Round2(totalOneTime),
			Currency:          displayCurrency,
		},
		Insights: models.StatsInsights{
			HighestRecurringSub: highest,
			ProjectedCosts: models.ProjectedCosts{
				Next7Days: money.Round2(next7DaysAmount),
			},
			DigitalVsPhysical: models.DigitalVsPhysical{
				DigitalPercentage:  digitalPercentage,
				PhysicalPercentage: physicalPercentage,
			},
			TopCategory: topCategory,
		},
	}, nil
}

func (s *Service) displayCurrency(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user.DisplayCurrency == "" {
		return defaultDisplayCurrency, nil
	}
	return user.DisplayCurrency, nil
}

func entryFromRequest(username string, req models.DummyEntry, startDate time.Time) models.Entry {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	var price float64
	if req.Price != nil {
		price = *req.Price
	}
	return models.Entry{
		ServiceName: req.ServiceName,
		Description: req.Description,
		Price:       price,
		Currency:    req.Currency,
		Frequency:   models.Frequency(req.Frequency),
		CategoryID:  req.CategoryID,
		Username:    username,
		StartDate:   schedule.Truncate(startDate),
		IsActive:    isActive,
	}
}
