package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			reset_password_token = $2,
			reset_password_expires_at = $3,
			updated_at = $4
		WHERE id = $1`, id, token, expiresAt, now)
	if err != nil {
		logger.Log.Error("Ошибка сохранения токена сброса (repo)", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeResetToken меняет хеш пароля и стирает токен, только если токен ещё
// действует. Проигравший гонку запрос получает ErrNotFound.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET
			password_hash = $3,
			reset_password_token = NULL,
			reset_password_expires_at = NULL,
			updated_at = $2
		WHERE reset_password_token = $1
		  AND reset_password_expires_at > $2
		RETURNING `+userColumns, token, now, passwordHash))
}
