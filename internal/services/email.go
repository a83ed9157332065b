package services

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"sync"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/config"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/metrics"

	"go.uber.org/zap"
)

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewEmailService(cfg *config.Config) *EmailService {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &EmailService{
		auth: auth,
		from: cfg.MailFrom,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	return s.send(to, subject, "text/plain", body)
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	return s.send(to, subject, "text/html", body)
}

func (s *EmailService) send(to []string, subject, contentType, body string) error {
	// Без SMTP письма только логируются
	if s.host == "" {
		logger.Log.Info("SMTP не настроен, письмо не отправлено",
			zap.Int("recipients", len(to)), zap.String("subject", subject))
		return nil
	}

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + strings.Join(to, ", ") + "\r\n" +
		"Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}

type EmailJob struct {
	Kind    string
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// MailSender: то, чем воркеры отправляют письма (EmailService).
type MailSender interface {
	Send(to []string, subject, body string) error
	SendHTML(to []string, subject, body string) error
}

var ErrEmailQueueFull = errors.New("email queue is full")

// EmailQueue: ограниченная очередь писем и пул воркеров над ней.
type EmailQueue struct {
	jobs   chan EmailJob
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewEmailQueue(size int) *EmailQueue {
	if size < 1 {
		size = 1
	}
	return &EmailQueue{jobs: make(chan EmailJob, size)}
}

// Enqueue не блокирует: при заполненной или закрытой очереди возвращает ErrEmailQueueFull.
func (q *EmailQueue) Enqueue(job EmailJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		metrics.Emails.WithLabelValues(job.Kind, "dropped").Inc()
		return ErrEmailQueueFull
	}
	select {
	case q.jobs <- job:
		metrics.Emails.WithLabelValues(job.Kind, "queued").Inc()
		return nil
	default:
		metrics.Emails.WithLabelValues(job.Kind, "dropped").Inc()
		return ErrEmailQueueFull
	}
}

func (q *EmailQueue) StartEmailWorkers(n int, sender MailSender) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for job := range q.jobs {
				var err error
				if job.IsHTML {
					err = sender.SendHTML(job.To, job.Subject, job.Body)
				} else {
					err = sender.Send(job.To, job.Subject, job.Body)
				}
				if err != nil {
					metrics.Emails.WithLabelValues(job.Kind, "failed").Inc()
					logger.Log.Error("Не удалось отправить письмо", zap.String("kind", job.Kind), zap.Error(err))
					continue
				}
				metrics.Emails.WithLabelValues(job.Kind, "sent").Inc()
			}
		}()
	}
}

// Close закрывает очередь и ждёт, пока воркеры разошлют оставшееся.
func (q *EmailQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
