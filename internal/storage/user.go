package storage

import "time"

// User: пользователь мобильного приложения. Вход по email и паролю выдаёт
// пару api_key/api_secret для заголовка Authorization.
type User struct {
	Name          string    `json:"user"`
	FullName      string    `json:"full_name"`
	PasswordHash  string    `json:"-"`
	APIKey        string    `json:"-"`
	APISecretHash string    `json:"-"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
}
