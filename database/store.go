package database

import (
	"context"
	"errors"
	"fmt"

	"utsav/models"

	"gorm.io/gorm"
)

var (
	// ErrEmptyFilter guards against table-wide updates and deletes
	ErrEmptyFilter = errors.New("database: refusing to modify rows without a filter")
	// ErrEmptyInsert is returned when Insert is called with no rows
	ErrEmptyInsert = errors.New("database: nothing to insert")
)

// Filter equality conditions keyed by column name. A slice value becomes IN.
type Filter map[string]any

// Table is a thin typed view over one gorm model.
// The connection is resolved per call so tests can swap DB.
type Table[T any] struct {
	order string
	tx    *gorm.DB
}

// NewTable creates a table view; order is applied to List, e.g. "created_at DESC".
func NewTable[T any](order string) *Table[T] {
	return &Table[T]{order: order}
}

// Tables used by the handlers, with the ordering each screen expects
var (
	Users         = NewTable[models.User]("")
	Profiles      = NewTable[models.Profile]("")
	Events        = NewTable[models.Event]("event_date ASC")
	Expenses      = NewTable[models.Expense]("created_at DESC")
	Checklist     = NewTable[models.ChecklistItem]("created_at ASC")
	GiftsToGive   = NewTable[models.GiftToGive]("created_at DESC")
	GiftsReceived = NewTable[models.GiftReceived]("created_at DESC")
)

// WithTx returns a copy bound to a transaction
func (t *Table[T]) WithTx(tx *gorm.DB) *Table[T] {
	return &Table[T]{order: t.order, tx: tx}
}

func (t *Table[T]) conn(ctx context.Context) *gorm.DB {
	if t.tx != nil {
		return t.tx.WithContext(ctx)
	}
	return DB.WithContext(ctx)
}

// List returns all rows matching f in the table order. Never returns nil.
func (t *Table[T]) List(ctx context.Context, f Filter) ([]T, error) {
	q := t.conn(ctx).Model(new(T))
	if len(f) > 0 {
		q = q.Where(map[string]interface{}(f))
	}
	if t.order != "" {
		q = q.Order(t.order)
	}

	rows := make([]T, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return rows, nil
}

// Get returns the first row matching f, or gorm.ErrRecordNotFound
func (t *Table[T]) Get(ctx context.Context, f Filter) (*T, error) {
	if len(f) == 0 {
		return nil, ErrEmptyFilter
	}
	var row T
	if err := t.conn(ctx).Where(map[string]interface{}(f)).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates rows and fills their primary keys
func (t *Table[T]) Insert(ctx context.Context, rows ...*T) error {
	switch len(rows) {
	case 0:
		return ErrEmptyInsert
	case 1:
		return t.conn(ctx).Create(rows[0]).Error
	default:
		return t.conn(ctx).Create(&rows).Error
	}
}

// Update applies patch to the rows matching f and returns the affected count.
// Zero-valued fields in patch are written.
func (t *Table[T]) Update(ctx context.Context, patch map[string]any, f Filter) (int64, error) {
	if len(f) == 0 {
		return 0, ErrEmptyFilter
	}
	res := t.conn(ctx).Model(new(T)).Where(map[string]interface{}(f)).Updates(patch)
	return res.RowsAffected, res.Error
}

// Delete removes the rows matching f and returns the affected count
func (t *Table[T]) Delete(ctx context.Context, f Filter) (int64, error) {
	if len(f) == 0 {
		return 0, ErrEmptyFilter
	}
	res := t.conn(ctx).Where(map[string]interface{}(f)).Delete(new(T))
	return res.RowsAffected, res.Error
}

// Count returns the number of rows matching f
func (t *Table[T]) Count(ctx context.Context, f Filter) (int64, error) {
	var n int64
	q := t.conn(ctx).Model(new(T))
	if len(f) > 0 {
		q = q.Where(map[string]interface{}(f))
	}
	err := q.Count(&n).Error
	return n, err
}

// DeleteEventCascade removes an owned event and every row that belongs to it
// in one transaction. Returns gorm.ErrRecordNotFound when the event does not
// exist or is owned by someone else.
func DeleteEventCascade(ctx context.Context, eventID, userID uint) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byEvent := Filter{"event_id": eventID}
		if _, err := Expenses.WithTx(tx).Delete(ctx, byEvent); err != nil {
			return fmt.Errorf("delete expenses: %w", err)
		}
		if _, err := Checklist.WithTx(tx).Delete(ctx, byEvent); err != nil {
			return fmt.Errorf("delete checklist: %w", err)
		}
		if _, err := GiftsToGive.WithTx(tx).Delete(ctx, byEvent); err != nil {
			return fmt.Errorf("delete gifts to give: %w", err)
		}
		if _, err := GiftsReceived.WithTx(tx).Delete(ctx, byEvent); err != nil {
			return fmt.Errorf("delete gifts received: %w", err)
		}

		n, err := Events.WithTx(tx).Delete(ctx, Filter{"id": eventID, "user_id": userID})
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
