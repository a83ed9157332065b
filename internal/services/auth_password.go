package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/metrics"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/repository"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"

	"go.uber.org/zap"
)

const (
	msgEmailRequired    = "Email is required"
	msgPasswordRequired = "Password is required"
	msgInvalidReset     = "Invalid or expired reset token"
)

// ForgotPassword выставляет одноразовый токен сброса и отправляет ссылку
// вида <ClientURL>reset-password/<token>.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return flowErr(ErrValidation, msgEmailRequired)
	}
	log := logger.WithCtx(ctx)
	log.Info("Запрос на сброс пароля", zap.String("email", maskEmail(email)))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthFail("forgot_password")
			return flowErr(ErrNotFound, msgUserNotFound)
		}
		log.Error("Ошибка получения пользователя", zap.Error(err))
		return err
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		log.Error("Ошибка генерации токена для сброса", zap.Error(err))
		return err
	}

	now := s.now()
	expires := now.Add(s.cfg.ResetTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expires, now); err != nil {
		log.Error("Ошибка сохранения токена сброса пароля", zap.Error(err), zap.String("user_id", user.ID.String()))
		return err
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, s.resetLink(token)); err != nil {
		log.Warn("Письмо со ссылкой на сброс не поставлено в очередь", zap.Error(err))
	}

	metrics.AuthOK("forgot_password")
	log.Info("Токен сброса пароля выдан",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expires),
	)
	return nil
}

func (s *AuthService) resetLink(token string) string {
	base := s.cfg.ClientURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "reset-password/" + token
}

// ResetPassword меняет пароль по действующему токену. Токен одноразовый.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return flowErr(ErrValidation, msgPasswordRequired)
	}
	log := logger.WithCtx(ctx)
	log.Info("Попытка сброса пароля по токену")

	token = strings.TrimSpace(token)
	if token == "" {
		metrics.AuthFail("reset_password")
		return flowErr(ErrInvalidOrExpiredToken, msgInvalidReset)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		log.Error("Ошибка генерации хеша пароля", zap.Error(err))
		return err
	}

	// Токен гасится тем же запросом, что меняет пароль
	user, err := s.repo.ConsumeResetToken(ctx, token, s.now(), hashed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Неверный или просроченный токен при сбросе пароля")
			metrics.AuthFail("reset_password")
			return flowErr(ErrInvalidOrExpiredToken, msgInvalidReset)
		}
		log.Error("Ошибка обновления пароля пользователя", zap.Error(err))
		return err
	}

	if err := s.notifier.SendResetSuccess(ctx, user.Email); err != nil {
		log.Warn("Письмо об успешном сбросе не поставлено в очередь", zap.Error(err))
	}

	metrics.AuthOK("reset_password")
	log.Info("Пароль успешно сброшен", zap.String("user_id", user.ID.String()))
	return nil
}
