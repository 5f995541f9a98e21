package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"utsav/aggregate"
	"utsav/catalog"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// EventHandler dashboard, event lifecycle and overview
type EventHandler struct {
	now func() time.Time
}

// NewEventHandler creates the event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{now: time.Now}
}

// CreateEventRequest create-event form
type CreateEventRequest struct {
	EventName   string   `json:"event_name" binding:"required,max=200" example:"Diwali at home"`
	EventType   string   `json:"event_type" binding:"required,max=50" example:"Diwali"`
	EventDate   string   `json:"event_date" binding:"required,datetime=2006-01-02" example:"2026-11-08"`
	BudgetTotal *float64 `json:"budget_total" binding:"required,gte=0" example:"10000"`
}

// UpdateEventRequest partial event update; omitted fields are kept
type UpdateEventRequest struct {
	EventName   *string  `json:"event_name" binding:"omitempty,min=1,max=200"`
	EventType   *string  `json:"event_type" binding:"omitempty,min=1,max=50"`
	EventDate   *string  `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	BudgetTotal *float64 `json:"budget_total" binding:"omitempty,gte=0"`
}

// EventData every row that belongs to one event
type EventData struct {
	Expenses      []models.Expense
	Checklist     []models.ChecklistItem
	GiftsToGive   []models.GiftToGive
	GiftsReceived []models.GiftReceived
}

// OverviewResponse the event overview screen
type OverviewResponse struct {
	Event         models.Event                  `json:"event"`
	Budget        aggregate.BudgetSummary       `json:"budget"`
	Checklist     aggregate.ChecklistSummary    `json:"checklist"`
	GiftsToGive   aggregate.GiftToGiveSummary   `json:"gifts_to_give"`
	GiftsReceived aggregate.GiftReceivedSummary `json:"gifts_received"`
}

func parseEventDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), time.Local)
}

// paramID parses a positive numeric route parameter, answering 400 otherwise
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// loadEventData fetches the four child collections of an event concurrently
func loadEventData(ctx context.Context, eventID uint) (*EventData, error) {
	var d EventData
	byEvent := database.Filter{"event_id": eventID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Expenses, err = database.Expenses.List(gctx, byEvent)
		return err
	})
	g.Go(func() (err error) {
		d.Checklist, err = database.Checklist.List(gctx, byEvent)
		return err
	})
	g.Go(func() (err error) {
		d.GiftsToGive, err = database.GiftsToGive.List(gctx, byEvent)
		return err
	})
	g.Go(func() (err error) {
		d.GiftsReceived, err = database.GiftsReceived.List(gctx, byEvent)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// EventTypes lists the types offered on the create form
// @Summary Event types
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]string}
// @Router /api/v1/event-types [get]
func (h *EventHandler) EventTypes(c *gin.Context) {
	Success(c, catalog.EventTypes)
}

// Dashboard lists the user's events with spend and headline counts
// @Summary Dashboard
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=aggregate.DashboardSummary}
// @Failure 401 {object} Response
// @Router /api/v1/dashboard [get]
func (h *EventHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := database.Events.List(ctx, database.Filter{"user_id": middleware.GetCurrentUserID(c)})
	if err != nil {
		storeError(c, err, "", "failed to load events")
		return
	}

	expenses := []models.Expense{}
	if len(events) > 0 {
		ids := make([]uint, len(events))
		for i, e := range events {
			ids[i] = e.ID
		}
		expenses, err = database.Expenses.List(ctx, database.Filter{"event_id": ids})
		if err != nil {
			storeError(c, err, "", "failed to load expenses")
			return
		}
	}

	Success(c, aggregate.Dashboard(events, expenses, h.now()))
}

// Create adds an event owned by the current user
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "event"
// @Success 200 {object} Response{data=models.Event}
// @Failure 400 {object} Response
// @Router /api/v1/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid event"))
		return
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		BadRequest(c, "event_date must be YYYY-MM-DD")
		return
	}
	name := strings.TrimSpace(req.EventName)
	if name == "" {
		BadRequest(c, "event_name is required")
		return
	}

	event := models.Event{
		UserID:      middleware.GetCurrentUserID(c),
		EventName:   name,
		EventType:   strings.TrimSpace(req.EventType),
		EventDate:   date,
		BudgetTotal: *req.BudgetTotal,
	}
	if err := database.Events.Insert(c.Request.Context(), &event); err != nil {
		storeError(c, err, "", "failed to create event")
		return
	}

	SuccessWithMessage(c, "event created", event)
}

// Get returns one event
// @Summary Get event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=models.Event}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId} [get]
func (h *EventHandler) Get(c *gin.Context) {
	Success(c, middleware.GetEvent(c))
}

// Update changes name, type, date or budget
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param request body UpdateEventRequest true "fields to change"
// @Success 200 {object} Response{data=models.Event}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId} [put]
func (h *EventHandler) Update(c *gin.Context) {
	event := middleware.GetEvent(c)
	ctx := c.Request.Context()

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid event"))
		return
	}

	patch := map[string]any{}
	if req.EventName != nil {
		patch["event_name"] = strings.TrimSpace(*req.EventName)
	}
	if req.EventType != nil {
		patch["event_type"] = strings.TrimSpace(*req.EventType)
	}
	if req.EventDate != nil {
		date, err := parseEventDate(*req.EventDate)
		if err != nil {
			BadRequest(c, "event_date must be YYYY-MM-DD")
			return
		}
		patch["event_date"] = date
	}
	if req.BudgetTotal != nil {
		patch["budget_total"] = *req.BudgetTotal
	}
	if len(patch) == 0 {
		BadRequest(c, "nothing to update")
		return
	}
	if patch["event_name"] == "" || patch["event_type"] == "" {
		BadRequest(c, "event_name and event_type cannot be blank")
		return
	}

	owned := database.Filter{"id": event.ID, "user_id": event.UserID}
	if _, err := database.Events.Update(ctx, patch, owned); err != nil {
		storeError(c, err, "", "failed to update event")
		return
	}
	updated, err := database.Events.Get(ctx, owned)
	if err != nil {
		storeError(c, err, "event not found", "failed to load event")
		return
	}

	SuccessWithMessage(c, "event updated", updated)
}

// Delete removes the event and everything recorded against it
// @Summary Delete event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	event := middleware.GetEvent(c)

	if err := database.DeleteEventCascade(c.Request.Context(), event.ID, event.UserID); err != nil {
		storeError(c, err, "event not found", "failed to delete event")
		return
	}

	SuccessWithMessage(c, "event deleted", gin.H{"redirect": "/dashboard"})
}

// Overview summarises budget, checklist and gifts of one event
// @Summary Event overview
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=OverviewResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/overview [get]
func (h *EventHandler) Overview(c *gin.Context) {
	event := middleware.GetEvent(c)

	data, err := loadEventData(c.Request.Context(), event.ID)
	if err != nil {
		storeError(c, err, "", "failed to load event overview")
		return
	}

	Success(c, OverviewResponse{
		Event:         *event,
		Budget:        aggregate.Budget(data.Expenses, event.BudgetTotal),
		Checklist:     aggregate.Checklist(data.Checklist),
		GiftsToGive:   aggregate.GiftsToGive(data.GiftsToGive),
		GiftsReceived: aggregate.GiftsReceived(data.GiftsReceived),
	})
}

// GiftSuggestions gift ideas for the event type
// @Summary Gift suggestions
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=[]catalog.GiftSuggestion}
// @Router /api/v1/events/{eventId}/gift-suggestions [get]
func (h *EventHandler) GiftSuggestions(c *gin.Context) {
	event := middleware.GetEvent(c)
	Success(c, gin.H{
		"event_type":  event.EventType,
		"suggestions": catalog.GiftSuggestions(event.EventType),
	})
}
