package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"utsav/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := DB
	DB = gormDB
	return mock, func() {
		DB = oldDB
		sqlDB.Close()
	}
}

func TestTable_ListScopedAndOrdered(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE `event_id` = \\? ORDER BY created_at DESC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "category", "title", "amount", "created_at"}).
			AddRow(2, 7, "Food", "Sweets", 50.0, now).
			AddRow(1, 7, "Venue", "Hall", 120.0, now.Add(-time.Hour)))

	rows, err := Expenses.List(context.Background(), Filter{"event_id": 7})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sweets", rows[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_ListEmptyIsNotNil(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `checklist_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := Checklist.List(context.Background(), Filter{"event_id": 1})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTable_GetNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `events`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := Events.Get(context.Background(), Filter{"id": 1, "user_id": 2})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_RejectsEmptyFilter(t *testing.T) {
	ctx := context.Background()

	_, err := Events.Update(ctx, map[string]any{"event_name": "x"}, nil)
	assert.ErrorIs(t, err, ErrEmptyFilter)

	_, err = Events.Delete(ctx, Filter{})
	assert.ErrorIs(t, err, ErrEmptyFilter)

	_, err = Events.Get(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyFilter)

	assert.ErrorIs(t, Checklist.Insert(ctx), ErrEmptyInsert)
}

func TestTable_InsertBatch(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `checklist_items`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	items := []*models.ChecklistItem{
		{EventID: 1, Title: "Buy colors (gulal)"},
		{EventID: 1, Title: "Invite friends"},
	}
	require.NoError(t, Checklist.Insert(context.Background(), items...))
	assert.Equal(t, uint(1), items[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_UpdateReportsAffectedRows(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `gifts_to_give` SET `status`=\\? WHERE `id` = \\? AND `status` = \\?").
		WithArgs(models.GiftStatusPurchased, 3, models.GiftStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := GiftsToGive.Update(context.Background(),
		map[string]any{"status": models.GiftStatusPurchased},
		Filter{"id": 3, "status": models.GiftStatusPending})
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEventCascade(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses` WHERE `event_id` = \\?").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `checklist_items` WHERE `event_id` = \\?").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec("DELETE FROM `gifts_to_give` WHERE `event_id` = \\?").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `gifts_received` WHERE `event_id` = \\?").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `events` WHERE `id` = \\? AND `user_id` = \\?").WithArgs(5, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, DeleteEventCascade(context.Background(), 5, 9))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEventCascade_NotOwnedRollsBack(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `checklist_items`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `gifts_to_give`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `gifts_received`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `events`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := DeleteEventCascade(context.Background(), 5, 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
