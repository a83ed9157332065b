package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"

	"go.uber.org/zap"
)

// ConsumeVerificationToken одним запросом подтверждает почту по действующему коду
// и стирает код. Повторный или просроченный код даёт ErrNotFound.
// Условия по коду повторены во внешнем WHERE, их перепроверка после блокировки
// строки отсекает уже погашенный код.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, code string, now time.Time) (*models.User, error) {
	query := `
	UPDATE users SET
		is_verified = TRUE,
		verification_token = NULL,
		verification_token_expires_at = NULL,
		updated_at = $2
	WHERE id = (
		SELECT id FROM users
		WHERE verification_token = $1
		  AND verification_token_expires_at > $2
		LIMIT 1
	)
	  AND verification_token = $1
	  AND verification_token_expires_at > $2
	RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, code, now))
}

// DeleteExpiredUnverified удаляет неподтверждённых пользователей, у которых
// код истёк раньше cutoff. Возвращает количество удалённых.
func (r *UserRepository) DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM users
		WHERE is_verified = FALSE
		  AND verification_token_expires_at IS NOT NULL
		  AND verification_token_expires_at < $1
	`, cutoff)
	if err != nil {
		logger.Log.Error("Ошибка очистки неподтверждённых пользователей (repo)", zap.Error(err))
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}
