package models

import "time"

// User представляет зарегистрированного пользователя сервиса
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`       // UUID пользователя
	Email        string    `json:"email"`    // уникальный email, регистр сохраняется как есть
	PasswordHash string    `json:"-"`        // self-describing хеш (bcrypt или argon2id)
	IsActive     bool      `json:"is_active"`
}
