package api

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"utsav/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter() *gin.Engine {
	h := NewExportHandler()
	router := gin.New()
	router.Use(setEventMiddleware(diwaliEvent()))
	router.GET("/events/:eventId/export/csv", h.ExportCSV)
	router.GET("/events/:eventId/export/json", h.ExportJSON)
	router.GET("/events/:eventId/export/excel", h.ExportExcel)
	return router
}

func expectEventData(mock sqlmock.Sqlmock) {
	mock.MatchExpectationsInOrder(false)
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.Local)
	mock.ExpectQuery("SELECT \\* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(2, 7, "Food", "Sweets, mithai", 2500, created).
			AddRow(1, 7, "Decor", "Diyas", 500, created))
	mock.ExpectQuery("SELECT \\* FROM `checklist_items`").
		WillReturnRows(sqlmock.NewRows(checklistColumns).
			AddRow(1, 7, "Buy diyas", true, created).
			AddRow(2, 7, "Rangoli", false, created))
	mock.ExpectQuery("SELECT \\* FROM `gifts_to_give`").
		WillReturnRows(sqlmock.NewRows(toGiveColumns).AddRow(1, 7, "Ravi", 1500, "Dry fruits", "purchased", created))
	mock.ExpectQuery("SELECT \\* FROM `gifts_received`").
		WillReturnRows(sqlmock.NewRows(receivedColumns).AddRow(1, 7, "Sharma family", "Silver coin", 3000, "pending", created))
}

func TestExportHandler_CSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectEventData(mock)

	w := doJSON(exportRouter(), "GET", "/events/7/export/csv", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "event_7_2026-11-08.csv")

	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")))

	r := csv.NewReader(bytes.NewReader(body[3:]))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Category", "Title", "Amount", "Created At"}, records[0])
	assert.Equal(t, []string{"2", "Food", "Sweets, mithai", "2500.00", "2026-10-01 09:30:00"}, records[1])
	assert.Equal(t, "Decor", records[2][1])

	last := records[len(records)-3:]
	assert.Equal(t, []string{"Total spent", "", "", "3000.00"}, last[0])
	assert.Equal(t, []string{"Budget", "", "", "10000.00"}, last[1])
	assert.Equal(t, []string{"Remaining", "", "", "7000.00"}, last[2])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_JSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectEventData(mock)

	w := doJSON(exportRouter(), "GET", "/events/7/export/json", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		Event         map[string]any        `json:"event"`
		Budget        map[string]any        `json:"budget"`
		Checklist     ChecklistResponse     `json:"checklist"`
		GiftsReceived GiftsReceivedResponse `json:"gifts_received"`
	}
	decodeData(t, w, &report)
	assert.Equal(t, "2026-11-08", report.Event["event_date"])
	assert.InDelta(t, 3000, report.Budget["total_spent"], 1e-9)
	assert.InDelta(t, 7000, report.Budget["remaining"], 1e-9)
	assert.Equal(t, false, report.Budget["over_budget"])
	assert.Equal(t, "50%", report.Checklist.Summary.Label)
	assert.InDelta(t, 3000, report.GiftsReceived.Summary.TotalValue, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_Excel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectEventData(mock)

	w := doJSON(exportRouter(), "GET", "/events/7/export/excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Expenses", "Checklist", "Gifts to give", "Gifts received"}, f.GetSheetList())

	title, err := f.GetCellValue("Expenses", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Sweets, mithai", title)

	status, err := f.GetCellValue("Checklist", "C2")
	require.NoError(t, err)
	assert.Equal(t, "done", status)

	progress, err := f.GetCellValue("Checklist", "B4")
	require.NoError(t, err)
	assert.Equal(t, "50%", progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_StoreError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT \\* FROM `expenses`").WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT \\* FROM `checklist_items`").WillReturnRows(sqlmock.NewRows(checklistColumns))
	mock.ExpectQuery("SELECT \\* FROM `gifts_to_give`").WillReturnRows(sqlmock.NewRows(toGiveColumns))
	mock.ExpectQuery("SELECT \\* FROM `gifts_received`").WillReturnRows(sqlmock.NewRows(receivedColumns))

	w := doJSON(exportRouter(), "GET", "/events/7/export/json", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCalendarHandler_Render(t *testing.T) {
	h := NewCalendarHandler("https://utsav.example.com")
	events := []models.Event{diwaliEvent()}

	out := h.render(events, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	unfolded := strings.ReplaceAll(out, "\r\n ", "")

	assert.True(t, strings.HasPrefix(unfolded, "BEGIN:VCALENDAR"))
	assert.Contains(t, unfolded, "UID:event-7@utsav")
	assert.Contains(t, unfolded, "SUMMARY:Diwali at home")
	assert.Contains(t, unfolded, "20261108")
	assert.Contains(t, unfolded, "20261109")
	assert.Contains(t, unfolded, "https://utsav.example.com/event/7")
	assert.Equal(t, 1, strings.Count(unfolded, "BEGIN:VEVENT"))
}

func TestCalendarHandler_Feed(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `events` WHERE `user_id` = \\? ORDER BY event_date ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_name", "event_type", "event_date", "budget_total"}).
			AddRow(7, 1, "Diwali at home", "Diwali", time.Date(2026, 11, 8, 0, 0, 0, 0, time.Local), 10000).
			AddRow(8, 1, "Holi", "Holi", time.Date(2027, 3, 22, 0, 0, 0, 0, time.Local), 4000))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/calendar.ics", NewCalendarHandler("").Feed)

	w := doJSON(router, "GET", "/calendar.ics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Equal(t, 2, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "event_7_2026-11-08.json", exportFilename(diwaliEvent(), "json"))
}
