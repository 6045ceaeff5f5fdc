// Package scheduler содержит фоновые задачи приложения: рассылку
// напоминаний о предстоящих списаниях и ежедневное обновление валютных курсов.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subminder/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subminder/internal/lib/schedule"
	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/models"
)

// reminderLeadDays — за сколько дней до списания отправляется напоминание.
const reminderLeadDays = 3

// renewalRoutingKey — ключ маршрутизации напоминаний о списании.
const renewalRoutingKey = "renewal"

// SubscriptionRepository определяет доступ планировщика к подпискам.
type SubscriptionRepository interface {
	// ListAllActiveEntries возвращает активные подписки всех пользователей
	// вместе с email владельца.
	ListAllActiveEntries(ctx context.Context) ([]*models.EntryWithUser, error)
}

// RatesUpdater определяет запуск обновления валютных курсов.
type RatesUpdater interface {
	UpdateRates(ctx context.Context) (models.RateTable, error)
}

// Service реализует фоновые задачи планировщика.
// Рассчитан на единственный экземпляр: напоминания не дедуплицируются
// между несколькими планировщиками.
type Service struct {
	repo    SubscriptionRepository
	rates   RatesUpdater
	channel rabbitmq.Channel
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, rates RatesUpdater, channel rabbitmq.Channel, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		rates:   rates,
		channel: channel,
		log:     log,
	}
}

// SendReminders находит подписки, списание по которым наступает ровно
// через reminderLeadDays дней, и публикует напоминание по каждой в очередь
// уведомлений. Ошибка по одной подписке не прерывает обход остальных.
func (s *Service) SendReminders(ctx context.Context) error {
	target := schedule.Truncate(time.Now().UTC()).AddDate(0, 0, reminderLeadDays)

	entries, err := s.repo.ListAllActiveEntries(ctx)
	if err != nil {
		s.log.Error("failed to list active subscriptions", sl.Err(err))
		return err
	}

	var sent int
	for _, entry := range entries {
		if !schedule.IsRenewalDue(entry.StartDate, entry.Frequency, target) {
			continue
		}

		reminder := models.ReminderInfo{
			Email:       entry.Email,
			Username:    entry.Username,
			ServiceName: entry.ServiceName,
			Price:       entry.Price,
			Currency:    entry.Currency,
			PaymentDate: target.Format("2006-01-02"),
		}
		if err := rabbitmq.PublishMessage(s.channel, rabbitmq.NotificationsExchange, renewalRoutingKey, reminder); err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("username", entry.Username),
				slog.String("service_name", entry.ServiceName),
				sl.Err(err))
			continue
		}
		sent++
	}

	s.log.Info("reminders scan finished",
		slog.String("payment_date", target.Format("2006-01-02")),
		slog.Int("sent", sent))
	return nil
}

// RefreshRates запускает обновление таблицы валютных курсов.
func (s *Service) RefreshRates(ctx context.Context) error {
	if _, err := s.rates.UpdateRates(ctx); err != nil {
		s.log.Error("failed to refresh exchange rates", sl.Err(err))
		return err
	}
	return nil
}

// StartDailyReminders запускает рассылку напоминаний сразу
// и далее раз в сутки, пока контекст не отменён.
func (s *Service) StartDailyReminders(ctx context.Context) {
	s.runDaily(ctx, "reminders", s.SendReminders)
}

// StartDailyRatesRefresh запускает обновление курсов сразу
// и далее раз в сутки, пока контекст не отменён.
func (s *Service) StartDailyRatesRefresh(ctx context.Context) {
	s.runDaily(ctx, "rates refresh", s.RefreshRates)
}

func (s *Service) runDaily(ctx context.Context, name string, task func(context.Context) error) {
	if err := task(ctx); err != nil {
		s.log.Error("daily task failed", slog.String("task", name), sl.Err(err))
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daily task stopped", slog.String("task", name))
			return
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.log.Error("daily task failed", slog.String("task", name), sl.Err(err))
			}
		}
	}
}
