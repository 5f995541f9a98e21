// Package checklist seeds an event's checklist from its event type template.
//
// An event starts unseeded. The first load of an empty, unseeded checklist
// inserts the template and marks the event seeded. Adding a task or loading a
// non-empty checklist marks it too. After that the checklist is never filled
// again, even when every item has been deleted. With reseed enabled an empty
// checklist is always refilled.
package checklist

import (
	"context"
	"fmt"
	"log/slog"

	"utsav/catalog"
	"utsav/models"
)

// Store persistence used by the seeder
type Store interface {
	// List returns the event's items in creation order
	List(ctx context.Context, eventID uint) ([]models.ChecklistItem, error)
	// Seed inserts items and marks the event seeded in one step. It reports
	// false without inserting when the event was already marked.
	Seed(ctx context.Context, eventID uint, items []*models.ChecklistItem) (bool, error)
	// Insert adds items without touching the seeded mark
	Insert(ctx context.Context, items []*models.ChecklistItem) error
	// Add inserts a user task and marks the event seeded in one step
	Add(ctx context.Context, item *models.ChecklistItem) error
	// MarkSeeded sets the seeded mark; a no-op when already set
	MarkSeeded(ctx context.Context, eventID uint) error
}

// Seeder loads checklists, seeding them on first use
type Seeder struct {
	store  Store
	reseed bool
}

// NewSeeder creates a seeder. reseed refills any empty checklist.
func NewSeeder(store Store, reseed bool) *Seeder {
	return &Seeder{store: store, reseed: reseed}
}

// Items builds the incomplete template items for an event
func Items(event *models.Event) []*models.ChecklistItem {
	titles := catalog.ChecklistTemplate(event.EventType)
	items := make([]*models.ChecklistItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, &models.ChecklistItem{EventID: event.ID, Title: title})
	}
	return items
}

// Load returns the event's checklist, seeding it when the policy allows
func (s *Seeder) Load(ctx context.Context, event *models.Event) ([]models.ChecklistItem, error) {
	items, err := s.store.List(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	if len(items) > 0 {
		if !event.ChecklistSeeded {
			if err := s.store.MarkSeeded(ctx, event.ID); err != nil {
				return nil, fmt.Errorf("mark checklist seeded: %w", err)
			}
			event.ChecklistSeeded = true
		}
		return items, nil
	}

	switch {
	case !event.ChecklistSeeded:
		seeded, err := s.store.Seed(ctx, event.ID, Items(event))
		if err != nil {
			return nil, fmt.Errorf("seed checklist: %w", err)
		}
		event.ChecklistSeeded = true
		if !seeded {
			// seeded concurrently by another request
			slog.Debug("checklist already seeded", "event_id", event.ID)
		}
	case s.reseed:
		if err := s.store.Insert(ctx, Items(event)); err != nil {
			return nil, fmt.Errorf("reseed checklist: %w", err)
		}
	default:
		return items, nil
	}

	slog.Info("checklist seeded", "event_id", event.ID, "event_type", event.EventType)
	return s.store.List(ctx, event.ID)
}

// Add appends a custom task. The event counts as seeded from then on, so
// deleting the task later does not bring the template back.
func (s *Seeder) Add(ctx context.Context, event *models.Event, title string) (*models.ChecklistItem, error) {
	item := &models.ChecklistItem{EventID: event.ID, Title: title}
	if err := s.store.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	event.ChecklistSeeded = true
	return item, nil
}
