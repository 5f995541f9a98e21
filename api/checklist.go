package api

import (
	"strings"

	"utsav/aggregate"
	"utsav/checklist"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
)

// ChecklistHandler the event checklist screen
type ChecklistHandler struct {
	seeder *checklist.Seeder
}

// NewChecklistHandler creates the checklist handler
func NewChecklistHandler(seeder *checklist.Seeder) *ChecklistHandler {
	return &ChecklistHandler{seeder: seeder}
}

// ChecklistItemRequest add-task form
type ChecklistItemRequest struct {
	Title string `json:"title" binding:"required,max=200" example:"Book mehendi artist"`
}

// ChecklistResponse progress and items in creation order
type ChecklistResponse struct {
	Summary aggregate.ChecklistSummary `json:"summary"`
	Items   []models.ChecklistItem     `json:"items"`
}

func checklistResponse(items []models.ChecklistItem) ChecklistResponse {
	return ChecklistResponse{Summary: aggregate.Checklist(items), Items: items}
}

func (h *ChecklistHandler) respond(c *gin.Context, message string) {
	items, err := database.Checklist.List(c.Request.Context(), database.Filter{"event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to load checklist")
		return
	}
	SuccessWithMessage(c, message, checklistResponse(items))
}

// List returns the checklist, filling it from the event type template on
// first use
// @Summary Event checklist
// @Tags Checklist
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=ChecklistResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/checklist [get]
func (h *ChecklistHandler) List(c *gin.Context) {
	items, err := h.seeder.Load(c.Request.Context(), middleware.GetEvent(c))
	if err != nil {
		storeError(c, err, "", "failed to load checklist")
		return
	}
	Success(c, checklistResponse(items))
}

// Add appends a custom task
// @Summary Add checklist task
// @Tags Checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param request body ChecklistItemRequest true "task"
// @Success 200 {object} Response{data=ChecklistResponse}
// @Failure 400 {object} Response
// @Router /api/v1/events/{eventId}/checklist [post]
func (h *ChecklistHandler) Add(c *gin.Context) {
	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid task"))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		BadRequest(c, "title is required")
		return
	}

	if _, err := h.seeder.Add(c.Request.Context(), middleware.GetEvent(c), title); err != nil {
		storeError(c, err, "", "failed to add task")
		return
	}

	h.respond(c, "task added")
}

// Toggle flips a task between done and open
// @Summary Toggle checklist task
// @Tags Checklist
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "task id"
// @Success 200 {object} Response{data=ChecklistResponse}
// @Failure 404 {object} Response
// @Failure 409 {object} Response "changed concurrently"
// @Router /api/v1/events/{eventId}/checklist/{id}/toggle [patch]
func (h *ChecklistHandler) Toggle(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	scope := database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID}

	item, err := database.Checklist.Get(ctx, scope)
	if err != nil {
		storeError(c, err, "task not found", "failed to load task")
		return
	}

	scope["is_completed"] = item.IsCompleted
	n, err := database.Checklist.Update(ctx, map[string]any{"is_completed": !item.IsCompleted}, scope)
	if err != nil {
		storeError(c, err, "", "failed to update task")
		return
	}
	if n == 0 {
		Conflict(c, "task was changed by another request, reload and try again")
		return
	}

	h.respond(c, "task updated")
}

// Delete removes a task
// @Summary Delete checklist task
// @Tags Checklist
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "task id"
// @Success 200 {object} Response{data=ChecklistResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/checklist/{id} [delete]
func (h *ChecklistHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := database.Checklist.Delete(c.Request.Context(), database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to delete task")
		return
	}
	if n == 0 {
		NotFound(c, "task not found")
		return
	}

	h.respond(c, "task deleted")
}
