package api

import (
	"fmt"
	"net/http"
	"time"

	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
)

// CalendarHandler iCalendar feed of the user's events
type CalendarHandler struct {
	baseURL string
}

// NewCalendarHandler creates the calendar handler; baseURL prefixes event links
func NewCalendarHandler(baseURL string) *CalendarHandler {
	return &CalendarHandler{baseURL: baseURL}
}

// Feed every event of the user as an all-day VEVENT
// @Summary Calendar feed
// @Tags Export
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {file} file "ics file"
// @Router /api/v1/calendar.ics [get]
func (h *CalendarHandler) Feed(c *gin.Context) {
	events, err := database.Events.List(c.Request.Context(), database.Filter{"user_id": middleware.GetCurrentUserID(c)})
	if err != nil {
		storeError(c, err, "", "failed to load events")
		return
	}

	body := h.render(events, time.Now())
	c.Header("Content-Disposition", "attachment; filename=utsav.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *CalendarHandler) render(events []models.Event, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Utsav Planner//Events//EN")
	cal.SetXWRCalName("Utsav events")

	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("event-%d@utsav", e.ID))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(e.EventName)
		ev.SetAllDayStartAt(e.EventDate)
		ev.SetAllDayEndAt(e.EventDate.AddDate(0, 0, 1))
		ev.SetDescription(fmt.Sprintf("%s, budget ₹%s", e.EventType, money(e.BudgetTotal)))
		if h.baseURL != "" {
			ev.SetURL(fmt.Sprintf("%s/event/%d", h.baseURL, e.ID))
		}
	}
	return cal.Serialize()
}
