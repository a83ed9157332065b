package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat: неизменяемая запись лога (запрос пользователя и ответ).
// UserID не является внешним ключом.
type Chat struct {
	ID        uuid.UUID `json:"_id"`
	UserID    string    `json:"user_id"`
	Chat      string    `json:"chat"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
