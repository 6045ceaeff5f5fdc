// Package sender содержит логику отправки писем-напоминаний
// о предстоящих списаниях по подпискам.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/lib/smtp"
	"github.com/magabrotheeeer/subminder/internal/models"
)

// Service отправляет email-уведомления через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendRenewalReminder разбирает сообщение из очереди уведомлений
// и отправляет письмо-напоминание о предстоящем списании.
func (s *Service) SendRenewalReminder(body []byte) error {
	const op = "sender.SendRenewalReminder"

	var reminder models.ReminderInfo
	if err := json.Unmarshal(body, &reminder); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if reminder.Email == "" {
		return fmt.Errorf("%s: message has no recipient email", op)
	}

	subject := "Напоминание о списании — " + reminder.ServiceName
	text := fmt.Sprintf(
		"Здравствуйте, %s!\r\n\r\n"+
			"Напоминаем: %s спишет %.2f %s %s.\r\n"+
			"Если подписка больше не нужна, отмените её заранее.\r\n\r\n"+
			"— SubMinder",
		reminder.Username, reminder.ServiceName, reminder.Price, reminder.Currency, reminder.PaymentDate)

	if err := s.sendEmail(reminder.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sent renewal reminder",
		slog.String("username", reminder.Username),
		slog.String("service_name", reminder.ServiceName))
	return nil
}

func (s *Service) sendEmail(to, subject, text string) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.log.Warn("failed to quit smtp session", sl.Err(err))
			if err := client.Close(); err != nil {
				s.log.Warn("failed to close smtp client", sl.Err(err))
			}
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(text)

	if _, err := writer.Write([]byte(msg.String())); err != nil {
		return err
	}
	return writer.Close()
}
