package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"utsav/aggregate"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const timeLayout = "2006-01-02 15:04:05"

// ExportHandler per-event reports
type ExportHandler struct{}

// NewExportHandler creates the export handler
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// EventReport everything recorded for one event with its aggregates
type EventReport struct {
	Event         models.Event              `json:"event"`
	Budget        aggregate.BudgetSummary   `json:"budget"`
	Categories    []aggregate.CategoryGroup `json:"categories"`
	Checklist     ChecklistResponse         `json:"checklist"`
	GiftsToGive   GiftsToGiveResponse       `json:"gifts_to_give"`
	GiftsReceived GiftsReceivedResponse     `json:"gifts_received"`
	ExportedAt    time.Time                 `json:"exported_at"`
}

func buildReport(event *models.Event, d *EventData) EventReport {
	return EventReport{
		Event:         *event,
		Budget:        aggregate.Budget(d.Expenses, event.BudgetTotal),
		Categories:    aggregate.GroupByCategory(d.Expenses),
		Checklist:     checklistResponse(d.Checklist),
		GiftsToGive:   GiftsToGiveResponse{Summary: aggregate.GiftsToGive(d.GiftsToGive), Gifts: d.GiftsToGive},
		GiftsReceived: GiftsReceivedResponse{Summary: aggregate.GiftsReceived(d.GiftsReceived), Gifts: d.GiftsReceived},
		ExportedAt:    time.Now(),
	}
}

func (h *ExportHandler) loadReport(c *gin.Context) (*EventReport, bool) {
	event := middleware.GetEvent(c)
	data, err := loadEventData(c.Request.Context(), event.ID)
	if err != nil {
		storeError(c, err, "", "failed to load event data")
		return nil, false
	}
	report := buildReport(event, data)
	return &report, true
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func exportFilename(event models.Event, ext string) string {
	return fmt.Sprintf("event_%d_%s.%s", event.ID, event.EventDate.Format(models.DateLayout), ext)
}

// ExportCSV expenses with a budget summary as CSV
// @Summary Export expenses as CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so spreadsheet apps detect UTF-8 (₹ and Devanagari titles)
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(buf)

	records := [][]string{{"ID", "Category", "Title", "Amount", "Created At"}}
	for _, group := range report.Categories {
		for _, e := range group.Expenses {
			records = append(records, []string{
				strconv.FormatUint(uint64(e.ID), 10),
				e.Category,
				e.Title,
				money(e.Amount),
				e.CreatedAt.Format(timeLayout),
			})
		}
	}
	records = append(records,
		[]string{},
		[]string{"Total spent", "", "", money(report.Budget.TotalSpent)},
		[]string{"Budget", "", "", money(report.Budget.BudgetTotal)},
		[]string{"Remaining", "", "", money(report.Budget.Remaining)},
	)

	if err := w.WriteAll(records); err != nil {
		InternalError(c, "failed to write CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(report.Event, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON the full event report
// @Summary Export event as JSON
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=EventReport}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	Success(c, report)
}

// ExportExcel the event report as a workbook with one sheet per section
// @Summary Export event as Excel
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {file} file "xlsx file"
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(report)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to build workbook"))
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(report.Event, "xlsx")))
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func buildWorkbook(r *EventReport) (*excelize.File, error) {
	f := excelize.NewFile()

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"EA580C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return nil, err
	}

	expenses := make([][]any, 0)
	for _, g := range r.Categories {
		for _, e := range g.Expenses {
			expenses = append(expenses, []any{e.ID, e.Category, e.Title, e.Amount, e.CreatedAt.Format(timeLayout)})
		}
	}
	checklist := make([][]any, 0, len(r.Checklist.Items))
	for _, it := range r.Checklist.Items {
		done := "open"
		if it.IsCompleted {
			done = "done"
		}
		checklist = append(checklist, []any{it.ID, it.Title, done})
	}
	toGive := make([][]any, 0, len(r.GiftsToGive.Gifts))
	for _, g := range r.GiftsToGive.Gifts {
		item := ""
		if g.GiftItem != nil {
			item = *g.GiftItem
		}
		toGive = append(toGive, []any{g.ID, g.RecipientName, item, g.Budget, g.Status})
	}
	received := make([][]any, 0, len(r.GiftsReceived.Gifts))
	for _, g := range r.GiftsReceived.Gifts {
		received = append(received, []any{g.ID, g.GiverName, g.GiftItem, g.GiftValue, g.ReturnStatus})
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
		summary []any
	}{
		{"Expenses", []string{"ID", "Category", "Title", "Amount", "Created At"}, expenses,
			[]any{"Total", "", fmt.Sprintf("Budget %s", money(r.Budget.BudgetTotal)), r.Budget.TotalSpent, fmt.Sprintf("Remaining %s", money(r.Budget.Remaining))}},
		{"Checklist", []string{"ID", "Task", "Status"}, checklist,
			[]any{"Progress", r.Checklist.Summary.Label, fmt.Sprintf("%d/%d", r.Checklist.Summary.Completed, r.Checklist.Summary.Total)}},
		{"Gifts to give", []string{"ID", "Recipient", "Gift", "Budget", "Status"}, toGive,
			[]any{"Total", "", fmt.Sprintf("%d purchased", r.GiftsToGive.Summary.Purchased), r.GiftsToGive.Summary.TotalBudget, ""}},
		{"Gifts received", []string{"ID", "Giver", "Gift", "Value", "Return gift"}, received,
			[]any{"Total", "", fmt.Sprintf("%d returned", r.GiftsReceived.Summary.Returned), r.GiftsReceived.Summary.TotalValue, ""}},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}

		last, _ := excelize.ColumnNumberToName(len(s.headers))
		if err := f.SetColWidth(s.name, "A", last, 22); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(s.name, "A1", &s.headers); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.name, "A1", last+"1", headerStyle); err != nil {
			return nil, err
		}
		for j, row := range s.rows {
			if err := f.SetSheetRow(s.name, fmt.Sprintf("A%d", j+2), &row); err != nil {
				return nil, err
			}
		}
		summaryRow := len(s.rows) + 2
		if err := f.SetSheetRow(s.name, fmt.Sprintf("A%d", summaryRow), &s.summary); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.name, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%s%d", last, summaryRow), summaryStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}
