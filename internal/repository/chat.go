package repository

import (
	"context"
	"fmt"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"

	"go.uber.org/zap"
)

type ChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, c *models.Chat) error {
	query := `INSERT INTO chats (id, user_id, chat, response, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.Chat, c.Response, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения чата (repo)", zap.Error(err), zap.String("user_id", c.UserID))
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser: все записи пользователя в порядке добавления.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, chat, response, created_at, updated_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		logger.Log.Error("Ошибка получения чатов (repo)", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	chats := make([]*models.Chat, 0)
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Chat, &c.Response, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		chats = append(chats, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return chats, nil
}
