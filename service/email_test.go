package service

import (
	"errors"
	"testing"

	"utsav/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestEmailService(enabled bool) (*EmailService, *fakeDialer) {
	s := NewEmailService(&config.EmailConfig{Enabled: enabled, Username: "noreply@example.com", From: "Utsav Planner"})
	d := &fakeDialer{}
	s.dialer = d
	return s, d
}

func TestGenerateWelcomeEmailBody(t *testing.T) {
	s, _ := newTestEmailService(false)

	body := s.generateWelcomeEmailBody("Priya")
	assert.Contains(t, body, "Namaste, Priya!")

	body = s.generateWelcomeEmailBody("<b>x</b>")
	assert.Contains(t, body, "&lt;b&gt;x&lt;/b&gt;")

	assert.Contains(t, s.generateWelcomeEmailBody(" "), "Namaste, there!")
}

func TestGenerateReminderEmailBody(t *testing.T) {
	s, _ := newTestEmailService(false)
	body := s.generateReminderEmailBody([]ReminderItem{
		{EventName: "Holi party", EventDate: "2026-03-04", Open: []string{"Buy colors (gulal)", "Invite friends"}},
		{EventName: "Birthday", EventDate: "2026-03-04"},
	})

	assert.Contains(t, body, "Holi party")
	assert.Contains(t, body, "2 task(s) still open")
	assert.Contains(t, body, "<li>Buy colors (gulal)</li>")
	assert.Contains(t, body, "All tasks are done")
}

func TestSend_Disabled(t *testing.T) {
	s, d := newTestEmailService(false)

	assert.ErrorIs(t, s.SendWelcomeEmail("a@b.c", "A"), ErrEmailDisabled)
	assert.ErrorIs(t, s.SendEventReminder("a@b.c", []ReminderItem{{EventName: "x"}}), ErrEmailDisabled)
	assert.ErrorIs(t, s.SendTestEmail("a@b.c"), ErrEmailDisabled)
	assert.Empty(t, d.sent)
}

func TestSendEventReminder(t *testing.T) {
	s, d := newTestEmailService(true)

	require.NoError(t, s.SendEventReminder("a@b.c", []ReminderItem{{EventName: "Diwali"}}))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"Reminder: Diwali is tomorrow"}, d.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"a@b.c"}, d.sent[0].GetHeader("To"))

	require.NoError(t, s.SendEventReminder("a@b.c", []ReminderItem{{EventName: "A"}, {EventName: "B"}}))
	assert.Equal(t, []string{"Reminder: 2 events tomorrow"}, d.sent[1].GetHeader("Subject"))

	// nothing to say
	require.NoError(t, s.SendEventReminder("a@b.c", nil))
	assert.Len(t, d.sent, 2)
}

func TestSendEmail_DialError(t *testing.T) {
	s, d := newTestEmailService(true)
	d.err = errors.New("connection refused")

	err := s.SendWelcomeEmail("a@b.c", "A")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSendTestEmail(t *testing.T) {
	s, d := newTestEmailService(true)

	require.NoError(t, s.SendTestEmail("ops@example.com"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"Utsav Planner email test"}, d.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"ops@example.com"}, d.sent[0].GetHeader("To"))
}
