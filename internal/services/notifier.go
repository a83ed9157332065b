package services

import (
	"context"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	helpers "github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"

	"go.uber.org/zap"
)

// Notifier отправляет письма сценариев авторизации.
// Ошибка означает, что письмо не удалось даже поставить в очередь.
type Notifier interface {
	SendVerification(ctx context.Context, to, code string) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetLink string) error
	SendResetSuccess(ctx context.Context, to string) error
}

type MailNotifier struct {
	queue           *EmailQueue
	appURL          string
	verificationTTL time.Duration
	resetTTL        time.Duration
}

func NewMailNotifier(queue *EmailQueue, appURL string, verificationTTL, resetTTL time.Duration) *MailNotifier {
	return &MailNotifier{
		queue:           queue,
		appURL:          appURL,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

func (n *MailNotifier) enqueue(ctx context.Context, kind, to, subject, html string) error {
	err := n.queue.Enqueue(EmailJob{
		Kind:    kind,
		To:      []string{to},
		Subject: subject,
		Body:    html,
		IsHTML:  true,
	})
	if err != nil {
		logger.WithCtx(ctx).Error("Письмо не поставлено в очередь", zap.String("kind", kind), zap.Error(err))
	}
	return err
}

// ==== ПИСЬМА ====

func (n *MailNotifier) SendVerification(ctx context.Context, to, code string) error {
	return n.enqueue(ctx, "verification", to, "Verify your email",
		helpers.BuildVerificationCodeHTML(code, n.verificationTTL))
}

func (n *MailNotifier) SendWelcome(ctx context.Context, to, name string) error {
	return n.enqueue(ctx, "welcome", to, "Welcome!",
		helpers.BuildWelcomeHTML(name, n.appURL))
}

func (n *MailNotifier) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	return n.enqueue(ctx, "password_reset", to, "Reset your password",
		helpers.BuildPasswordResetHTML(resetLink, n.resetTTL))
}

func (n *MailNotifier) SendResetSuccess(ctx context.Context, to string) error {
	return n.enqueue(ctx, "reset_success", to, "Password reset successful",
		helpers.BuildResetSuccessHTML())
}
