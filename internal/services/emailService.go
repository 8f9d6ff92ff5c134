package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"smarthire/internal/config"
	"smarthire/internal/metrics"
)

const otpEmailSubject = "SmartHire AI - Email Verification Code"

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from   string
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) EmailService {
	return &emailService{
		from:   cfg.EmailFrom,
		dialer: gomail.NewDialer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass),
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", msg)

	if err := e.dialer.DialAndSend(m); err != nil {
		return err
	}
	return nil
}

// sendOTPEmail mails a verification code and reports ErrEmailDelivery when
// the mail server refuses it.
func sendOTPEmail(mailer EmailService, purpose, to, name, code string, validFor time.Duration) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your SmartHire AI email verification code is %s.\n\n"+
			"This code is valid for %d minutes. If you did not request this verification, please ignore this email.\n\n"+
			"SmartHire AI",
		name, code, int(validFor.Minutes()),
	)

	if err := mailer.SendEmail(to, otpEmailSubject, body); err != nil {
		metrics.OTPEmailsSentTotal.WithLabelValues(purpose, "failed").Inc()
		log.Error().Err(err).Str("email", to).Str("purpose", purpose).Msg("Failed to send OTP email")
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	metrics.OTPEmailsSentTotal.WithLabelValues(purpose, "sent").Inc()
	return nil
}
