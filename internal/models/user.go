package models

// User — модель пользователя сервиса.
type User struct {
	UID             string `json:"uid"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	Role            string `json:"role"`
	DisplayCurrency string `json:"display_currency"` // Валюта отображения сумм, по умолчанию USD
}

// DummyRegister используется для приёма данных из JSON-запроса на регистрацию.
type DummyRegister struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,alphanum"`
	Password        string `json:"password" validate:"required,min=8"`
	DisplayCurrency string `json:"display_currency" validate:"omitempty,len=3"`
}

// DummyLogin используется для приёма данных из JSON-запроса на вход.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
