// Package models содержит доменные структуры, описывающие подписку,
// категорию, пользователя и таблицу валютных курсов,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Frequency описывает периодичность списаний по подписке.
// Закрытое перечисление: weekly, monthly, yearly, once.
type Frequency string

const (
	// FrequencyWeekly — еженедельное списание.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly — ежемесячное списание.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyYearly — ежегодное списание.
	FrequencyYearly Frequency = "yearly"
	// FrequencyOnce — разовая трата, не повторяется.
	FrequencyOnce Frequency = "once"
)

// Entry представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// StartDate хранится как календарная дата (полночь UTC), время суток не учитывается.
type Entry struct {
	ID          int       `json:"id"`
	ServiceName string    `json:"service_name"` // Название сервиса подписки
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`    // Цена за один интервал списания
	Currency    string    `json:"currency"` // Код валюты ISO-4217
	Frequency   Frequency `json:"frequency"`
	CategoryID  int       `json:"category_id"`
	Username    string    `json:"username"` // Имя пользователя-владельца
	StartDate   time.Time `json:"start_date"`
	IsActive    bool      `json:"is_active"`
}

// EntryWithCategory объединяет подписку с данными её категории.
// Для подписок без категории CategoryName пустое, IsDigital = false.
type EntryWithCategory struct {
	Entry
	CategoryName string `json:"category_name"`
	IsDigital    bool   `json:"is_digital"`
}

// EntryWithUser объединяет подписку с данными владельца.
// Используется планировщиком напоминаний.
type EntryWithUser struct {
	Entry
	Email string `json:"email"`
}

// ConvertedEntry — подписка с ценой, пересчитанной в валюту отображения пользователя.
type ConvertedEntry struct {
	EntryWithCategory
	ConvertedPrice float64 `json:"converted_price"`
}

// DummyEntry используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Entry.
// Дата приходит в виде строки, чтобы её можно было валидировать и парсить вручную.
type DummyEntry struct {
	ServiceName string   `json:"service_name" validate:"required"`                             // Название сервиса
	Description string   `json:"description"`                                                  // Произвольное описание
	Price       *float64 `json:"price" validate:"required,gte=0"`                              // Цена (>= 0)
	Currency    string   `json:"currency" validate:"required,len=3"`                           // Код валюты ISO-4217
	Frequency   string   `json:"frequency" validate:"required,oneof=weekly monthly yearly once"` // Периодичность
	CategoryID  int      `json:"category_id" validate:"required"`                              // ID категории
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`           // Дата начала в формате 2006-01-02
	IsActive    *bool    `json:"is_active"`                                                    // Флаг активности, по умолчанию true
}

// ReminderInfo — сообщение о предстоящем списании, публикуемое планировщиком
// в очередь уведомлений.
type ReminderInfo struct {
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	PaymentDate string  `json:"payment_date"` // Дата списания в формате 2006-01-02
}
