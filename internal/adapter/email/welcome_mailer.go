package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const welcomeSubject = "Welcome to the marketplace"

// WelcomeMailer sends the newsletter welcome message over SMTP.
type WelcomeMailer struct {
	from   string
	dial   func() (gomail.SendCloser, error)
	logger *logger.Logger
}

// NewWelcomeMailer returns nil when SMTP is not configured; callers treat a
// nil mailer as "mail disabled".
func NewWelcomeMailer(cfg config.SMTPConfig, log *logger.Logger) *WelcomeMailer {
	if cfg.Host == "" || cfg.From == "" {
		log.Info("SMTP not configured, welcome mail disabled")
		return nil
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newWelcomeMailer(cfg.From, dialer.Dial, log)
}

func newWelcomeMailer(from string, dial func() (gomail.SendCloser, error), log *logger.Logger) *WelcomeMailer {
	return &WelcomeMailer{from: from, dial: dial, logger: log.Named("WelcomeMailer")}
}

func (m *WelcomeMailer) SendWelcome(ctx context.Context, to, username string) error {
	if to == "" {
		return errors.New("no recipient for welcome mail")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", welcomeSubject)
	msg.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\nThanks for subscribing to our newsletter.\n", username))

	done := make(chan error, 1)
	go func() {
		sc, err := m.dial()
		if err != nil {
			done <- err
			return
		}
		defer sc.Close()
		done <- gomail.Send(sc, msg)
	}()

	select {
	case <-ctx.Done():
		m.logger.Warn("Welcome mail cancelled", zap.Error(ctx.Err()))
		return fmt.Errorf("welcome mail cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			m.logger.Error("Failed to send welcome mail", zap.Error(err))
			return fmt.Errorf("failed to send welcome mail: %w", err)
		}
	}
	m.logger.Info("Welcome mail sent")
	return nil
}
