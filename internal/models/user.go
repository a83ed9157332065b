package models

import (
	"time"

	"github.com/google/uuid"
)

// User: учётная запись. Пары token/expires заполнены только пока
// подтверждение почты или сброс пароля в ожидании.
type User struct {
	ID                         uuid.UUID  `json:"_id"`
	Email                      string     `json:"email"`
	PasswordHash               string     `json:"-"`
	Name                       string     `json:"name"`
	IsVerified                 bool       `json:"isVerified"`
	VerificationToken          *string    `json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"verificationTokenExpiresAt,omitempty"`
	ResetPasswordToken         *string    `json:"-"`
	ResetPasswordExpiresAt     *time.Time `json:"resetPasswordExpiresAt,omitempty"`
	LastLogin                  time.Time  `json:"lastLogin"`
	CreatedAt                  time.Time  `json:"createdAt"`
	UpdatedAt                  time.Time  `json:"updatedAt"`
}
