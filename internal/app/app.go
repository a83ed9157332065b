package app

import (
	"context"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/config"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/db"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/handlers"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/repository"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/routes"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/services"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App: собранное приложение: роутер и то, что нужно закрыть при остановке.
type App struct {
	Router *mux.Router

	closers []func()
}

// Close останавливает фоновые задачи, дожидается отправки писем и закрывает пул.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{}
	a.closers = append(a.closers, conn.Close)

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	chatRepo := repository.NewChatRepository(conn)

	// Почта
	emailService := services.NewEmailService(cfg)
	emailQueue := services.NewEmailQueue(cfg.EmailQueueSize)
	emailQueue.StartEmailWorkers(cfg.EmailWorkers, emailService)
	a.closers = append(a.closers, emailQueue.Close)
	notifier := services.NewMailNotifier(emailQueue, cfg.ClientURL, cfg.VerificationTTL, cfg.ResetTTL)

	// Сервисы
	tokens := utils.NewTokenCodec(cfg.JWTSecret, cfg.SessionTTL)
	authService := services.NewAuthService(userRepo, tokens, notifier, services.AuthConfig{
		ClientURL:         cfg.ClientURL,
		VerificationTTL:   cfg.VerificationTTL,
		ResetTTL:          cfg.ResetTTL,
		VerificationGrace: cfg.VerificationGrace,
	})
	chatService := services.NewChatService(chatRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	chatHandler := handlers.NewChatHandler(chatService)

	// ▶️ Периодическая чистка неподтверждённых
	cleanerCtx, stopCleaner := context.WithCancel(context.Background())
	StartUnverifiedCleaner(cleanerCtx, authService, cfg.CleanupInterval)
	a.closers = append(a.closers, stopCleaner)

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, authHandler, chatHandler, tokens, conn)

	return a, nil
}

type unverifiedCleaner interface {
	CleanupUnverified(ctx context.Context) (int64, error)
}

// StartUnverifiedCleaner запускает чистку сразу и затем раз в interval, до отмены ctx.
func StartUnverifiedCleaner(ctx context.Context, svc unverifiedCleaner, interval time.Duration) {
	if interval <= 0 {
		logger.Log.Warn("Чистка неподтверждённых пользователей отключена", zap.Duration("interval", interval))
		return
	}
	go func() {
		_, _ = svc.CleanupUnverified(ctx)

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if ctx.Err() != nil {
					return
				}
				_, _ = svc.CleanupUnverified(ctx)
			}
		}
	}()
}
