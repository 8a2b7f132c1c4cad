package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
)

// Sender delivers transactional mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendVettingDecision(to, fullName string, status models.VettingStatus, notes string) error
	SendContactAck(to, name string) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns nil when no SMTP host is configured; callers treat a
// nil Sender as "notifications disabled".
func NewSMTPSender(cfg SMTPConfig) Sender {
	if cfg.Host == "" {
		return nil
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

func (s *smtpSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func (s *smtpSender) SendVettingDecision(to, fullName string, status models.VettingStatus, notes string) error {
	subject := "Your ReviewBoost vetting result"
	var body string
	switch status {
	case models.StatusMatched:
		body = fmt.Sprintf("Hi %s,\n\nGood news: your profile passed vetting. You can now submit review requests from your dashboard.", fullName)
	case models.StatusReviewed:
		body = fmt.Sprintf("Hi %s,\n\nYour requested reviews have been issued. Check your dashboard for details.", fullName)
	case models.StatusRejected:
		body = fmt.Sprintf("Hi %s,\n\nYour profile did not pass vetting this time. We've put together resources to help you improve and reapply.", fullName)
	default:
		body = fmt.Sprintf("Hi %s,\n\nYour profile status changed to %q.", fullName, status)
	}
	if notes != "" {
		body += "\n\nNotes from our team:\n" + notes
	}
	return s.send(to, subject, body)
}

func (s *smtpSender) SendContactAck(to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nThanks for reaching out. Our team typically responds within one business day.", name)
	return s.send(to, "We received your message", body)
}

// Notify fires fn on a best-effort basis; mail failures are logged, never
// propagated to request handlers.
func Notify(fn func() error) {
	if fn == nil {
		return
	}
	go func() {
		if err := fn(); err != nil {
			logger.Warn("email delivery failed", "err", err)
		}
	}()
}
