package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret  string
	SessionTTL time.Duration

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	ClientURL   string
	CORSOrigins []string

	VerificationTTL   time.Duration
	ResetTTL          time.Duration
	VerificationGrace time.Duration
	CleanupInterval   time.Duration

	EmailWorkers   int
	EmailQueueSize int
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует: чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "dev")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     def(os.Getenv("MAIL_FROM"), os.Getenv("SMTP_USER")),

		ClientURL:   def(os.Getenv("CLIENT_URL"), "http://localhost:5173/"),
		CORSOrigins: splitList(def(os.Getenv("CORS_ORIGINS"), "http://localhost:5173")),
	}

	var err error
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", def(os.Getenv("SESSION_TTL"), "168h")); err != nil {
		return nil, err
	}
	if cfg.VerificationTTL, err = parseDuration("VERIFICATION_TTL", def(os.Getenv("VERIFICATION_TTL"), "24h")); err != nil {
		return nil, err
	}
	if cfg.ResetTTL, err = parseDuration("RESET_TTL", def(os.Getenv("RESET_TTL"), "1h")); err != nil {
		return nil, err
	}
	if cfg.VerificationGrace, err = parseDuration("VERIFICATION_GRACE", def(os.Getenv("VERIFICATION_GRACE"), "1m")); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = parseDuration("CLEANUP_INTERVAL", def(os.Getenv("CLEANUP_INTERVAL"), "10m")); err != nil {
		return nil, err
	}
	if cfg.EmailWorkers, err = parseInt("EMAIL_WORKERS", def(os.Getenv("EMAIL_WORKERS"), "3")); err != nil {
		return nil, err
	}
	if cfg.EmailQueueSize, err = parseInt("EMAIL_QUEUE_SIZE", def(os.Getenv("EMAIL_QUEUE_SIZE"), "100")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// Без секрета сессии не выдать
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	// SMTP: предупреждение, письма будут падать в лог
	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}

	if c.Env != "prod" && c.Env != "dev" {
		warnings = append(warnings, fmt.Sprintf("unknown ENV %q, treating as dev", c.Env))
	}

	if c.EmailWorkers < 1 {
		warnings = append(warnings, "EMAIL_WORKERS < 1, using 1")
		c.EmailWorkers = 1
	}

	return warnings, nil
}

// IsProduction: включает Secure у cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
