package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/metrics"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/repository"

	"go.uber.org/zap"
)

const msgInvalidVerification = "Invalid or expired verification code"

// VerifyEmail подтверждает почту по 6-значному коду.
// Просроченный код не находится; такие записи удаляет CleanupUnverified.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	log := logger.WithCtx(ctx)
	if code == "" {
		metrics.AuthFail("verify_email")
		return nil, flowErr(ErrInvalidOrExpiredToken, msgInvalidVerification)
	}

	// Проверка и погашение кода одним запросом: код срабатывает ровно один раз
	user, err := s.repo.ConsumeVerificationToken(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthFail("verify_email")
			return nil, flowErr(ErrInvalidOrExpiredToken, msgInvalidVerification)
		}
		log.Error("Ошибка подтверждения email", zap.Error(err))
		return nil, err
	}

	if err := s.notifier.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Warn("Приветственное письмо не поставлено в очередь", zap.Error(err))
	}

	metrics.AuthOK("verify_email")
	log.Info("Email подтверждён (service)", zap.String("user_id", user.ID.String()))
	return user, nil
}

// CleanupUnverified удаляет неподтверждённые учётки, чей код истёк
// больше чем VerificationGrace назад.
func (s *AuthService) CleanupUnverified(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.VerificationGrace)
	n, err := s.repo.DeleteExpiredUnverified(ctx, cutoff)
	if err != nil {
		logger.Log.Error("Ошибка очистки неподтверждённых пользователей", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		metrics.UnverifiedSwept.Add(float64(n))
		logger.Log.Info("Удалены неподтверждённые пользователи", zap.Int64("count", n))
	}
	return n, nil
}
