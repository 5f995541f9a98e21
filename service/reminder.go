package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"utsav/database"
	"utsav/models"

	"github.com/robfig/cron/v3"
)

// Notifier delivers a reminder to one user
type Notifier interface {
	SendEventReminder(toEmail string, items []ReminderItem) error
}

// ReminderService emails users the day before their events with the
// checklist tasks still open.
type ReminderService struct {
	notifier Notifier
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// NewReminderService creates a reminder job. schedule is a standard
// five-field cron expression, e.g. "0 9 * * *".
func NewReminderService(notifier Notifier, schedule string) *ReminderService {
	return &ReminderService{
		notifier: notifier,
		schedule: schedule,
		now:      time.Now,
	}
}

// Start registers the job and starts the scheduler goroutine
func (s *ReminderService) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		sent, err := s.RunOnce(ctx)
		if err != nil {
			slog.Error("reminder run failed", "error", err)
			return
		}
		slog.Info("reminders sent", "count", sent)
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	slog.Info("reminder job started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("reminder job stopped")
}

// RunOnce sends reminders for events dated tomorrow and returns the number
// of users notified. A failed send is logged and does not stop the others.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	tomorrow := s.now().AddDate(0, 0, 1).Format(models.DateLayout)

	events, err := database.Events.List(ctx, database.Filter{"event_date": tomorrow})
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	eventIDs := make([]uint, 0, len(events))
	userIDs := make([]uint, 0, len(events))
	seenUser := make(map[uint]bool)
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
		if !seenUser[e.UserID] {
			seenUser[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
	}

	open, err := database.Checklist.List(ctx, database.Filter{"event_id": eventIDs, "is_completed": false})
	if err != nil {
		return 0, fmt.Errorf("load checklist: %w", err)
	}
	openByEvent := make(map[uint][]string)
	for _, it := range open {
		openByEvent[it.EventID] = append(openByEvent[it.EventID], it.Title)
	}

	users, err := database.Users.List(ctx, database.Filter{"id": userIDs})
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}
	emails := make(map[uint]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	byUser := make(map[uint][]ReminderItem)
	for _, e := range events {
		byUser[e.UserID] = append(byUser[e.UserID], ReminderItem{
			EventName: e.EventName,
			EventDate: e.EventDate.Format(models.DateLayout),
			Open:      openByEvent[e.ID],
		})
	}

	sent := 0
	for _, uid := range userIDs {
		to := emails[uid]
		if to == "" {
			continue
		}
		if err := s.notifier.SendEventReminder(to, byUser[uid]); err != nil {
			slog.Warn("send reminder", "user_id", uid, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
