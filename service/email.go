package service

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"utsav/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled mail delivery is switched off in config
var ErrEmailDisabled = errors.New("email service is disabled, set email.enabled=true")

// Dialer sends prepared messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService sends planner notifications over SMTP
type EmailService struct {
	cfg    *config.EmailConfig
	dialer Dialer
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Enabled reports whether mail delivery is configured on
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "Welcome to Utsav Planner", s.generateWelcomeEmailBody(name))
}

func (s *EmailService) generateWelcomeEmailBody(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #fff7ed; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 30px;">
        <h2 style="color: #ea580c;">🪔 Namaste, %s!</h2>
        <p>Your Utsav Planner account is ready.</p>
        <p>Create your first event to get a ready-made checklist, track your budget and keep a record of gifts given and received.</p>
        <p style="color: #666; font-size: 12px;">This email was sent automatically, please do not reply.</p>
    </div>
</body>
</html>
`, html.EscapeString(name))
}

// ReminderItem an open checklist task listed in a reminder
type ReminderItem struct {
	EventName string
	EventDate string
	Open      []string
}

// SendEventReminder lists the open checklist tasks of tomorrow's events
func (s *EmailService) SendEventReminder(toEmail string, items []ReminderItem) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if len(items) == 0 {
		return nil
	}
	subject := fmt.Sprintf("Reminder: %s is tomorrow", items[0].EventName)
	if len(items) > 1 {
		subject = fmt.Sprintf("Reminder: %d events tomorrow", len(items))
	}
	return s.sendEmail(toEmail, subject, s.generateReminderEmailBody(items))
}

func (s *EmailService) generateReminderEmailBody(items []ReminderItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "<h3>%s <small>(%s)</small></h3>\n", html.EscapeString(it.EventName), it.EventDate)
		if len(it.Open) == 0 {
			b.WriteString("<p>All tasks are done. Enjoy the celebration!</p>\n")
			continue
		}
		fmt.Fprintf(&b, "<p>%d task(s) still open:</p>\n<ul>\n", len(it.Open))
		for _, title := range it.Open {
			fmt.Fprintf(&b, "  <li>%s</li>\n", html.EscapeString(title))
		}
		b.WriteString("</ul>\n")
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
%s
<p style="color: #666; font-size: 12px;">Utsav Planner</p>
</body>
</html>
`, b.String())
}

// SendTestEmail checks the SMTP settings
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	body := `<!DOCTYPE html><html><body><h2>✅ Email is configured</h2></body></html>`
	return s.sendEmail(toEmail, "Utsav Planner email test", body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
