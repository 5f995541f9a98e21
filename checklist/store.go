package checklist

import (
	"context"

	"utsav/database"
	"utsav/models"

	"gorm.io/gorm"
)

// GormStore is the database-backed Store
type GormStore struct{}

// NewGormStore creates a store on the shared connection
func NewGormStore() *GormStore {
	return &GormStore{}
}

func (GormStore) List(ctx context.Context, eventID uint) ([]models.ChecklistItem, error) {
	return database.Checklist.List(ctx, database.Filter{"event_id": eventID})
}

// Seed claims the seeded flag with a conditional update so concurrent first
// loads insert the template once.
func (GormStore) Seed(ctx context.Context, eventID uint, items []*models.ChecklistItem) (bool, error) {
	seeded := false
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := markSeeded(ctx, tx, eventID)
		if err != nil || n == 0 {
			return err
		}
		if err := database.Checklist.WithTx(tx).Insert(ctx, items...); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (GormStore) Insert(ctx context.Context, items []*models.ChecklistItem) error {
	return database.Checklist.Insert(ctx, items...)
}

// Add inserts the task and claims the seeded flag in the same transaction
func (GormStore) Add(ctx context.Context, item *models.ChecklistItem) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.Checklist.WithTx(tx).Insert(ctx, item); err != nil {
			return err
		}
		_, err := markSeeded(ctx, tx, item.EventID)
		return err
	})
}

func (GormStore) MarkSeeded(ctx context.Context, eventID uint) error {
	_, err := markSeeded(ctx, database.DB, eventID)
	return err
}

func markSeeded(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	return database.Events.WithTx(tx).Update(ctx,
		map[string]any{"checklist_seeded": true},
		database.Filter{"id": eventID, "checklist_seeded": false})
}
