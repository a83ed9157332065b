package services

import (
	"context"
	"strings"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatRepo interface {
	Create(ctx context.Context, c *models.Chat) error
	ListByUser(ctx context.Context, userID string) ([]*models.Chat, error)
}

type ChatService struct {
	repo ChatRepo
	now  func() time.Time
}

func NewChatService(repo ChatRepo) *ChatService {
	return &ChatService{repo: repo, now: time.Now}
}

// Record сохраняет пару запрос/ответ. Поля проверяются по порядку: id, chat, response.
func (s *ChatService) Record(ctx context.Context, userID, chat, response string) (*models.Chat, error) {
	switch {
	case strings.TrimSpace(userID) == "":
		return nil, flowErr(ErrValidation, "Missing required fields: id")
	case strings.TrimSpace(chat) == "":
		return nil, flowErr(ErrValidation, "Missing required fields: chat")
	case strings.TrimSpace(response) == "":
		return nil, flowErr(ErrValidation, "Missing required fields: response")
	}

	now := s.now()
	c := &models.Chat{
		ID:        uuid.New(),
		UserID:    userID,
		Chat:      chat,
		Response:  response,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения чата (service)", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, flowErr(ErrValidation, "Missing required field: id")
	}
	return s.repo.ListByUser(ctx, userID)
}
