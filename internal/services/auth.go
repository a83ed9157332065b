package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/metrics"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/repository"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgUserExists        = "User already exists"
	msgInvalidCreds      = "Invalid credentials"
	msgUserNotFound      = "User not found"
)

type UserRepo interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt, now time.Time) error
	ConsumeVerificationToken(ctx context.Context, code string, now time.Time) (*models.User, error)
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*models.User, error)
	DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenIssuer выпускает токен сессии для id пользователя.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthConfig struct {
	ClientURL         string
	VerificationTTL   time.Duration
	ResetTTL          time.Duration
	VerificationGrace time.Duration
}

type AuthService struct {
	repo     UserRepo
	tokens   TokenIssuer
	notifier Notifier
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(repo UserRepo, tokens TokenIssuer, notifier Notifier, cfg AuthConfig) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock подменяет часы (для тестов).
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// maskEmail: a***@example.com, чтобы не писать адреса в логи целиком.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// Signup регистрирует пользователя и выдаёт токен сессии.
// Письмо с кодом ставится в очередь; его сбой регистрацию не отменяет.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*models.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || strings.TrimSpace(password) == "" || name == "" {
		metrics.AuthFail("signup")
		return nil, "", flowErr(ErrValidation, msgAllFieldsRequired)
	}
	log := logger.WithCtx(ctx)
	log.Info("Регистрация пользователя (service)", zap.String("email", maskEmail(email)))

	taken, err := s.repo.IsEmailTaken(ctx, email)
	if err != nil {
		log.Error("Ошибка проверки email", zap.Error(err))
		return nil, "", err
	}
	if taken {
		metrics.AuthFail("signup")
		return nil, "", flowErr(ErrConflict, msgUserExists)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, "", err
	}
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		log.Error("Ошибка генерации кода подтверждения", zap.Error(err))
		return nil, "", err
	}

	now := s.now()
	expires := now.Add(s.cfg.VerificationTTL)
	user := &models.User{
		ID:                         uuid.New(),
		Email:                      email,
		PasswordHash:               hashed,
		Name:                       name,
		VerificationToken:          &code,
		VerificationTokenExpiresAt: &expires,
		LastLogin:                  now,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.AuthFail("signup")
			return nil, "", flowErr(ErrConflict, msgUserExists)
		}
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		log.Error("Ошибка выпуска токена сессии", zap.Error(err))
		return nil, "", err
	}

	if err := s.notifier.SendVerification(ctx, user.Email, code); err != nil {
		log.Warn("Письмо с кодом подтверждения не поставлено в очередь", zap.Error(err))
	}

	metrics.AuthOK("signup")
	log.Info("Пользователь зарегистрирован (service)", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login: единое сообщение об ошибке для неизвестного email и неверного пароля.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	log := logger.WithCtx(ctx)
	log.Info("Попытка входа (service)", zap.String("email", maskEmail(email)))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthFail("login")
			return nil, "", flowErr(ErrInvalidCredentials, msgInvalidCreds)
		}
		log.Error("Ошибка получения пользователя", zap.Error(err))
		return nil, "", err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("Неверный пароль (service)", zap.String("user_id", user.ID.String()))
		metrics.AuthFail("login")
		return nil, "", flowErr(ErrInvalidCredentials, msgInvalidCreds)
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		log.Error("Ошибка выпуска токена сессии", zap.Error(err))
		return nil, "", err
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Error("Ошибка обновления last_login", zap.Error(err))
		return nil, "", err
	}
	user.LastLogin = now
	user.UpdatedAt = now

	metrics.AuthOK("login")
	log.Info("Вход выполнен (service)", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

// CheckAuth возвращает пользователя по id из проверенной сессии.
func (s *AuthService) CheckAuth(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, flowErr(ErrNotFound, msgUserNotFound)
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.WithCtx(ctx).Warn("Пользователь из сессии не найден (service)", zap.String("user_id", userID))
			return nil, flowErr(ErrNotFound, msgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
