// Package email sends account verification mail. When SMTP is not
// configured the service runs in mock mode and logs the codes instead,
// which keeps local development working without credentials.
package email

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"
	"strings"
	"time"

	"github.com/ideaforge/dashboard/config"
	"github.com/ideaforge/dashboard/services"
	"go.uber.org/zap"
)

// CodeTTL is how long a verification code stays redeemable.
const CodeTTL = 10 * time.Minute

const codeLength = 6

// Sender delivers account mail.
type Sender interface {
	SendVerificationEmail(recipient, userName, code string) error
	SendWelcomeEmail(recipient, userName string) error
}

// Service implements Sender over SMTP.
type Service struct {
	cfg    config.EmailConfig
	logger *zap.Logger

	// send is swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates the email service.
func NewService(cfg config.EmailConfig, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// GenerateCode returns a random numeric verification code.
func GenerateCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// mockMode reports whether SMTP credentials are missing.
func (s *Service) mockMode() bool {
	return s.cfg.Host == "" || s.cfg.Username == "" || s.cfg.Password == ""
}

// SendVerificationEmail mails a verification code to a new account.
func (s *Service) SendVerificationEmail(recipient, userName, code string) error {
	if s.mockMode() {
		s.logger.Info("mock email mode: verification code",
			zap.String("recipient", recipient),
			zap.String("code", code))
		return nil
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Welcome to IdeaForge!</h2>
<p>Hi <strong>%s</strong>,</p>
<p>Thank you for signing up! To verify your email address, please use the following code:</p>
<div style="background-color: #f0f0f0; padding: 15px; text-align: center;">
<h1 style="letter-spacing: 2px; margin: 0;">%s</h1>
</div>
<p>This code will expire in 10 minutes.</p>
<p>If you didn't sign up for this account, please ignore this email.</p>
</body></html>`, userName, code)

	if err := s.deliver(recipient, "Email Verification - IdeaForge", body); err != nil {
		return services.WrapExternal("failed to send verification email", err)
	}

	s.logger.Info("verification email sent", zap.String("recipient", recipient))
	return nil
}

// SendWelcomeEmail mails the post-verification welcome message.
func (s *Service) SendWelcomeEmail(recipient, userName string) error {
	if s.mockMode() {
		s.logger.Info("mock email mode: welcome email",
			zap.String("recipient", recipient))
		return nil
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Welcome Aboard!</h2>
<p>Hi <strong>%s</strong>,</p>
<p>Your email has been verified successfully! Your account is now active.</p>
<p>You can now log in and start planning projects with the agent.</p>
</body></html>`, userName)

	if err := s.deliver(recipient, "Welcome to IdeaForge!", body); err != nil {
		return services.WrapExternal("failed to send welcome email", err)
	}

	s.logger.Info("welcome email sent", zap.String("recipient", recipient))
	return nil
}

func (s *Service) deliver(recipient, subject, htmlBody string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return s.send(addr, auth, from, []string{recipient}, []byte(msg))
}
