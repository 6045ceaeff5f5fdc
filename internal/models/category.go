package models

// Category — метка для группировки подписок.
// Категории без владельца (Username == nil) общие для всех пользователей,
// остальные приватные.
type Category struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	IsDigital bool    `json:"is_digital"` // Цифровой сервис или физический
	Username  *string `json:"username,omitempty"`
}

// DummyCategory используется для приёма данных из JSON-запроса на создание категории.
type DummyCategory struct {
	Name      string `json:"name" validate:"required"`
	IsDigital *bool  `json:"is_digital" validate:"required"`
}
