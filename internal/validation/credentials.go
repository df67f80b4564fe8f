// Package validation checks user supplied credentials before they reach the auth core.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen is the bcrypt input limit in bytes
	MaxPasswordLen = 72
)

// ValidateEmail проверяет, что email синтаксически корректен.
// Регистр не меняется: email хранится так, как его ввел пользователь.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if strings.TrimSpace(email) != email {
		return fmt.Errorf("email must not contain leading or trailing spaces")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email has invalid format")
	}

	return nil
}

// ValidatePassword checks password length in bytes
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}
